package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	wrap "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/school"
)

var (
	// errors
	ErrNotFound       = errors.New("Submission not found")
	ErrDeadlinePassed = errors.New("Deadline has passed; submission not allowed")
	ErrNoSubmissions  = errors.New("No submissions found for this assignment")

	errMissingFields        = errors.New("Missing required fields: studentID, username, assignmentId, or classId")
	errNoFile               = errors.New("No file uploaded")
	errInvalidAssignmentRef = errors.New("Invalid assignmentId")
	errInvalidClassRef      = errors.New("Invalid classId")
)

type (
	Repository interface {
		GetSubmissionByStudentAndAssignment(ctx context.Context, studentID string, assignmentID primitive.ObjectID) (Submission, error)
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		UpdateSubmissionFile(ctx context.Context, id primitive.ObjectID, filePath string, date time.Time) error
		FilterSubmissionsByUsername(ctx context.Context, username string) ([]Submission, error)
		FilterSubmissionsByAssignment(ctx context.Context, assignmentID primitive.ObjectID) ([]Submission, error)
		DeleteSubmissionsByAssignmentIDs(ctx context.Context, ids ...primitive.ObjectID) error
	}

	// Registry resolves Assignment and Class references; satisfied by the
	// school repository.
	Registry interface {
		GetAssignmentByID(ctx context.Context, id primitive.ObjectID) (school.Assignment, error)
		GetClassByID(ctx context.Context, id primitive.ObjectID) (school.Class, error)
	}

	Service struct {
		repo     Repository
		registry Registry
		storage  core.FileStorage
		logger   core.Logger
	}
)

func NewService(repo Repository, registry Registry, storage core.FileStorage, logger core.Logger) *Service {
	return &Service{repo: repo, registry: registry, storage: storage, logger: logger}
}

// Submit stores the file for the given assignment and records (or replaces)
// the student's single submission for it. `created` reports whether a new
// record was created as opposed to an existing one being updated.
//
// The deadline check and the file store are not atomic; a deadline passing
// mid-upload resolves either way. Concurrent resubmission by the same student
// is a last-writer-wins race on the single record, no lock is taken.
func (svc *Service) Submit(ctx context.Context, ns NewSubmission) (sub Submission, created bool, err error) {
	if err = ns.Validate(); err != nil {
		return Submission{}, false, err
	}
	assignmentID, err := primitive.ObjectIDFromHex(ns.AssignmentID)
	if err != nil {
		return Submission{}, false, core.NewValidationError(errInvalidAssignmentRef, core.FieldError{Field: "assignmentId", Error: errInvalidAssignmentRef.Error()})
	}
	classID, err := primitive.ObjectIDFromHex(ns.ClassID)
	if err != nil {
		return Submission{}, false, core.NewValidationError(errInvalidClassRef, core.FieldError{Field: "classId", Error: errInvalidClassRef.Error()})
	}

	assignment, err := svc.registry.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Submission{}, false, err
	}
	if time.Now().UTC().After(assignment.Deadline) {
		return Submission{}, false, ErrDeadlinePassed
	}

	// class gone mid-flight falls back to the "unknown" folder
	cls, err := svc.registry.GetClassByID(ctx, classID)
	if err != nil && err != school.ErrClassNotFound {
		return Submission{}, false, wrap.Wrap(err, "resolving class")
	}

	key := fmt.Sprintf("%s/%s%s", storageFolder(cls, assignment), sanitizeFolder(ns.StudentID), DocExt)
	locator, err := svc.storage.Upload(ctx, key, ns.File, ns.Size, DocContentType)
	if err != nil {
		return Submission{}, false, wrap.Wrap(err, "uploading submission file")
	}

	now := time.Now().UTC()
	existing, err := svc.repo.GetSubmissionByStudentAndAssignment(ctx, ns.StudentID, assignmentID)
	switch err {
	case nil:
		if err = svc.repo.UpdateSubmissionFile(ctx, existing.ID, locator, now); err != nil {
			return Submission{}, false, wrap.Wrap(err, "updating submission")
		}
		existing.FilePath = locator
		existing.Date = now
		return existing, false, nil
	case ErrNotFound:
		sub = Submission{
			StudentID:    ns.StudentID,
			Username:     ns.Username,
			AssignmentID: assignmentID,
			FilePath:     locator,
			Date:         now,
		}
		if sub, err = svc.repo.CreateSubmission(ctx, sub); err != nil {
			return Submission{}, false, wrap.Wrap(err, "creating submission")
		}
		return sub, true, nil
	default:
		return Submission{}, false, wrap.Wrap(err, "looking up submission")
	}
}

// ListByStudent returns all of a student's submissions, each with its
// Assignment expanded.
func (svc *Service) ListByStudent(ctx context.Context, username string) ([]Submission, error) {
	subs, err := svc.repo.FilterSubmissionsByUsername(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		return nil, err
	}
	return svc.expandAssignments(ctx, subs)
}

// ListByAssignment returns all submissions for an assignment, each with its
// Assignment expanded.
func (svc *Service) ListByAssignment(ctx context.Context, assignmentID string) ([]Submission, error) {
	id, err := primitive.ObjectIDFromHex(core.CleanString(assignmentID))
	if err != nil {
		return nil, core.NewValidationError(errInvalidAssignmentRef, core.FieldError{Field: "assignmentId", Error: errInvalidAssignmentRef.Error()})
	}
	subs, err := svc.repo.FilterSubmissionsByAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	return svc.expandAssignments(ctx, subs)
}

func (svc *Service) expandAssignments(ctx context.Context, subs []Submission) ([]Submission, error) {
	assignments := make(map[primitive.ObjectID]*school.Assignment, 1)
	for i, sub := range subs {
		a, ok := assignments[sub.AssignmentID]
		if !ok {
			got, err := svc.registry.GetAssignmentByID(ctx, sub.AssignmentID)
			if err != nil {
				if err == school.ErrAssignmentNotFound { // dangling reference; leave unexpanded
					assignments[sub.AssignmentID] = nil
					continue
				}
				return nil, wrap.Wrap(err, "expanding assignment reference")
			}
			a = &got
			assignments[sub.AssignmentID] = a
		}
		subs[i].Assignment = a
	}
	return subs, nil
}
