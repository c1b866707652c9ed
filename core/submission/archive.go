package submission

import (
	"context"
	"io"

	"github.com/klauspost/compress/zip"
	wrap "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core"
)

// flusher matches response writers that can push buffered bytes to the client.
type flusher interface {
	Flush()
}

// ExportArchive streams every stored file for the assignment's submissions
// into a single zip archive written to w. Entries are appended incrementally
// as each file is retrieved, so the caller receives a growing response rather
// than waiting for the full set. Submissions with no stored locator are
// skipped; a failed fetch is logged and skipped without aborting the archive.
func (svc *Service) ExportArchive(ctx context.Context, assignmentID string, w io.Writer) error {
	id, err := primitive.ObjectIDFromHex(core.CleanString(assignmentID))
	if err != nil {
		return core.NewValidationError(errInvalidAssignmentRef, core.FieldError{Field: "assignmentId", Error: errInvalidAssignmentRef.Error()})
	}
	subs, err := svc.repo.FilterSubmissionsByAssignment(ctx, id)
	if err != nil {
		return wrap.Wrap(err, "listing assignment submissions")
	}
	if len(subs) == 0 {
		return ErrNoSubmissions
	}

	zw := zip.NewWriter(w)
	for _, sub := range subs {
		if sub.FilePath == "" {
			continue
		}
		rc, err := svc.storage.Download(ctx, sub.FilePath)
		if err != nil {
			svc.logger.Warn("fetching submission file", err, map[string]interface{}{
				"assignmentId": assignmentID, "studentID": sub.StudentID, "locator": sub.FilePath,
			})
			continue
		}
		entry, err := zw.Create(sub.StudentID + DocExt)
		if err != nil {
			rc.Close()
			return wrap.Wrap(err, "creating archive entry")
		}
		if _, err = io.Copy(entry, rc); err != nil {
			rc.Close()
			svc.logger.Warn("copying submission file", err, map[string]interface{}{
				"assignmentId": assignmentID, "studentID": sub.StudentID,
			})
			continue
		}
		rc.Close()
		if fl, ok := w.(flusher); ok {
			fl.Flush()
		}
	}
	return zw.Close()
}
