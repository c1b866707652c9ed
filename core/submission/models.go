package submission

import (
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/school"
)

// DocExt is the single canonical document type accepted for submissions.
const (
	DocExt         = ".pdf"
	DocContentType = "application/pdf"
)

// Submission is a student's single current file for one Assignment; the
// record is overwritten in place on resubmission.
type Submission struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID    string             `bson:"studentId" json:"studentID"`
	Username     string             `bson:"username" json:"username"`
	AssignmentID primitive.ObjectID `bson:"assignmentId" json:"assignmentId"`
	FilePath     string             `bson:"filePath" json:"filePath"` // durable storage locator
	Date         time.Time          `bson:"date" json:"date"`         // UTC

	// Assignment is the expanded AssignmentID reference; set on reads, never stored.
	Assignment *school.Assignment `bson:"-" json:"assignment,omitempty"`
}

// NewSubmission contains information needed to submit a file for an Assignment.
type NewSubmission struct {
	StudentID    string
	Username     string
	AssignmentID string
	ClassID      string
	File         io.Reader
	Size         int64
}

func (ns *NewSubmission) Validate() error {
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.AssignmentID = core.CleanString(ns.AssignmentID)
	ns.ClassID = core.CleanString(ns.ClassID)

	if ns.StudentID == "" || ns.Username == "" || ns.AssignmentID == "" || ns.ClassID == "" {
		return core.NewValidationError(errMissingFields)
	}
	if ns.File == nil {
		return core.NewValidationError(errNoFile)
	}
	return nil
}
