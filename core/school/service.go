package school

import (
	"context"
	"errors"
	"time"

	wrap "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core"
)

var (
	// errors
	ErrCodeTaken          = errors.New("Course code already in use")
	ErrClassNotFound      = errors.New("Class not found or not owned by you")
	ErrAssignmentNotFound = errors.New("Assignment not found")

	errCodeRequired    = errors.New("Course code is required")
	errOwnerRequired   = errors.New("createdBy is required")
	errInvalidClassRef = errors.New("Invalid classId")
	errClassUnresolved = errors.New("classId does not resolve to an existing class")
)

type (
	Repository interface {
		CheckCodeUniqueness(ctx context.Context, code string) error
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryAllClasses(ctx context.Context) ([]Class, error)
		FilterClassesByOwner(ctx context.Context, username string) ([]Class, error)
		GetClassByID(ctx context.Context, id primitive.ObjectID) (Class, error)
		// GetClassByIDAndOwner combines the existence and ownership checks;
		// a non-owner gets the same ErrClassNotFound as a missing class.
		GetClassByIDAndOwner(ctx context.Context, id primitive.ObjectID, owner string) (Class, error)
		DeleteClassByID(ctx context.Context, id primitive.ObjectID) error
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id primitive.ObjectID) (Assignment, error)
		QueryAllAssignments(ctx context.Context) ([]Assignment, error)
		FilterAssignmentsByClass(ctx context.Context, classID primitive.ObjectID) ([]Assignment, error)
		DeleteAssignmentsByClass(ctx context.Context, classID primitive.ObjectID) error
	}

	// SubmissionRemover deletes the Submissions referencing the given
	// Assignments; satisfied by the submission repository.
	SubmissionRemover interface {
		DeleteSubmissionsByAssignmentIDs(ctx context.Context, ids ...primitive.ObjectID) error
	}

	Service struct {
		repo Repository
		subs SubmissionRemover
	}
)

func NewService(repo Repository, subs SubmissionRemover) *Service {
	return &Service{repo: repo, subs: subs}
}

func (svc *Service) checkCodeUniqueness(ctx context.Context, code string) error {
	if err := svc.repo.CheckCodeUniqueness(ctx, code); err != nil {
		if err == ErrCodeTaken {
			return err
		}
		return wrap.Wrap(err, "checking code uniqueness")
	}
	return nil
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(ctx, svc); err != nil {
		return Class{}, err
	}
	cls := Class{
		Name:      nc.Name,
		Code:      nc.Code,
		CreatedBy: nc.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) QueryAllClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryAllClasses(ctx)
}

func (svc *Service) FilterClassesByOwner(ctx context.Context, username string) ([]Class, error) {
	return svc.repo.FilterClassesByOwner(ctx, core.CleanString(username, true /* lower */))
}

func (svc *Service) GetClassByID(ctx context.Context, id primitive.ObjectID) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

// DeleteClass deletes the class owned by requester along with all its
// Assignments and their Submissions. Children are deleted before parents so a
// concurrent read never observes an Assignment without its Class or a
// Submission without its Assignment; any mid-sequence failure aborts the
// whole operation and surfaces to the caller.
func (svc *Service) DeleteClass(ctx context.Context, classID, requester string) error {
	requester = core.CleanString(requester, true /* lower */)
	if requester == "" {
		return core.NewValidationError(errOwnerRequired, core.FieldError{Field: "createdBy", Error: errOwnerRequired.Error()})
	}
	id, err := primitive.ObjectIDFromHex(core.CleanString(classID))
	if err != nil {
		return core.NewValidationError(errInvalidClassRef, core.FieldError{Field: "classId", Error: errInvalidClassRef.Error()})
	}

	if _, err = svc.repo.GetClassByIDAndOwner(ctx, id, requester); err != nil {
		return err
	}

	assignments, err := svc.repo.FilterAssignmentsByClass(ctx, id)
	if err != nil {
		return wrap.Wrap(err, "listing class assignments")
	}
	ids := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.ID)
	}

	if len(ids) > 0 {
		if err = svc.subs.DeleteSubmissionsByAssignmentIDs(ctx, ids...); err != nil {
			return wrap.Wrap(err, "deleting class submissions")
		}
	}
	if err = svc.repo.DeleteAssignmentsByClass(ctx, id); err != nil {
		return wrap.Wrap(err, "deleting class assignments")
	}
	if err = svc.repo.DeleteClassByID(ctx, id); err != nil {
		return wrap.Wrap(err, "deleting class")
	}
	return nil
}

func (svc *Service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	if err := na.Validate(ctx); err != nil {
		return Assignment{}, err
	}
	classID, err := primitive.ObjectIDFromHex(core.CleanString(na.ClassID))
	if err != nil {
		return Assignment{}, core.NewValidationError(errInvalidClassRef, core.FieldError{Field: "classId", Error: errInvalidClassRef.Error()})
	}
	if _, err = svc.repo.GetClassByID(ctx, classID); err != nil {
		if err == ErrClassNotFound {
			return Assignment{}, core.NewValidationError(errClassUnresolved, core.FieldError{Field: "classId", Error: errClassUnresolved.Error()})
		}
		return Assignment{}, wrap.Wrap(err, "resolving class")
	}

	a := Assignment{
		Topic:     na.Topic,
		Deadline:  na.Deadline,
		ClassID:   classID,
		CreatedBy: na.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateAssignment(ctx, a)
}

func (svc *Service) GetAssignmentByID(ctx context.Context, id primitive.ObjectID) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

// FilterAssignments returns all assignments, optionally scoped to a class.
// A malformed classID filter yields an empty result rather than an error.
func (svc *Service) FilterAssignments(ctx context.Context, classID string) ([]Assignment, error) {
	var assignments []Assignment
	var err error

	if classID = core.CleanString(classID); classID != "" {
		id, idErr := primitive.ObjectIDFromHex(classID)
		if idErr != nil {
			return []Assignment{}, nil
		}
		if assignments, err = svc.repo.FilterAssignmentsByClass(ctx, id); err != nil {
			return nil, err
		}
	} else if assignments, err = svc.repo.QueryAllAssignments(ctx); err != nil {
		return nil, err
	}

	return svc.expandClasses(ctx, assignments)
}

func (svc *Service) expandClasses(ctx context.Context, assignments []Assignment) ([]Assignment, error) {
	classes := make(map[primitive.ObjectID]*Class, 1)
	for i, a := range assignments {
		cls, ok := classes[a.ClassID]
		if !ok {
			c, err := svc.repo.GetClassByID(ctx, a.ClassID)
			if err != nil {
				if err == ErrClassNotFound { // dangling reference; leave unexpanded
					classes[a.ClassID] = nil
					continue
				}
				return nil, wrap.Wrap(err, "expanding class reference")
			}
			cls = &c
			classes[a.ClassID] = cls
		}
		assignments[i].Class = cls
	}
	return assignments, nil
}
