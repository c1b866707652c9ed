package account

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
	ErrNotFound        = errors.New("User not found")
	ErrUsernameTaken   = errors.New("Username already taken")
	ErrInvalidPassword = errors.New("Incorrect password")

	errStudentFieldsRequired = errors.New("Student ID and Class are required for students")
	errTeacherExtraFields    = errors.New("Teachers should not provide Student ID or Class")
	errInvalidClassRef       = errors.New("Invalid classId")
	errClassUnresolved       = errors.New("classId does not resolve to an existing class")
)

// RoleMismatchError reports an authentication attempt under the wrong role.
type RoleMismatchError struct {
	Actual  string
	Claimed string
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("Role mismatch: User is a %s, not a %s", e.Actual, e.Claimed)
}

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string) error
		CreateAccount(ctx context.Context, acct Account) (Account, error)
		GetAccountByUsername(ctx context.Context, username string) (Account, error)
		FilterStudentsByClass(ctx context.Context, classID primitive.ObjectID) ([]Account, error)
	}

	// ClassGetter resolves Class references; satisfied by the school repository.
	ClassGetter interface {
		GetClassByID(ctx context.Context, id primitive.ObjectID) (school.Class, error)
	}

	Service struct {
		repo    Repository
		classes ClassGetter
	}
)

func NewService(repo Repository, classes ClassGetter) *Service {
	return &Service{repo: repo, classes: classes}
}

func (svc *Service) checkUniqueness(ctx context.Context, username string) error {
	if err := svc.repo.CheckUsernameUniqueness(ctx, username); err != nil {
		if err == ErrUsernameTaken {
			return err
		}
		return wrap.Wrap(err, "checking username uniqueness")
	}
	return nil
}

// Register creates a new Account with a one-way hashed secret. Accounts are
// immutable once created.
func (svc *Service) Register(ctx context.Context, na NewAccount) (Account, error) {
	if err := na.Validate(ctx, svc); err != nil {
		return Account{}, err
	}

	acct := Account{
		Username:  na.Username,
		Role:      na.Role,
		CreatedAt: time.Now().UTC(),
	}
	if na.Role == RoleStudent {
		classID, err := primitive.ObjectIDFromHex(na.ClassID)
		if err != nil {
			return Account{}, core.NewValidationError(errInvalidClassRef, core.FieldError{Field: "classId", Error: errInvalidClassRef.Error()})
		}
		if _, err = svc.classes.GetClassByID(ctx, classID); err != nil {
			if err == school.ErrClassNotFound {
				return Account{}, core.NewValidationError(errClassUnresolved, core.FieldError{Field: "classId", Error: errClassUnresolved.Error()})
			}
			return Account{}, wrap.Wrap(err, "resolving class")
		}
		acct.StudentID = na.StudentID
		acct.ClassID = classID
	}
	if err := acct.SetPassword(na.Password); err != nil {
		return Account{}, wrap.Wrap(err, "hashing password")
	}
	return svc.repo.CreateAccount(ctx, acct)
}

// Authenticate verifies the credentials and claimed role, and returns the
// account's public fields with the Class reference expanded.
func (svc *Service) Authenticate(ctx context.Context, username, password, role string) (Auth, error) {
	acct, err := svc.repo.GetAccountByUsername(ctx, core.CleanString(username, true /* lower */))
	if err != nil {
		return Auth{}, err
	}
	if acct.Role != role {
		return Auth{}, &RoleMismatchError{Actual: acct.Role, Claimed: role}
	}
	if err = acct.CheckPassword(password); err != nil {
		return Auth{}, ErrInvalidPassword
	}

	auth := Auth{
		Username:  acct.Username,
		StudentID: acct.StudentID,
		Role:      acct.Role,
	}
	if acct.IsStudent() && !acct.ClassID.IsZero() {
		cls, err := svc.classes.GetClassByID(ctx, acct.ClassID)
		if err != nil {
			if err != school.ErrClassNotFound { // dangling reference; leave unexpanded
				return Auth{}, wrap.Wrap(err, "expanding class reference")
			}
		} else {
			auth.Class = &cls
		}
	}
	return auth, nil
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (Account, error) {
	return svc.repo.GetAccountByUsername(ctx, core.CleanString(username, true /* lower */))
}

// ListStudents returns all student Accounts enrolled in the given class.
func (svc *Service) ListStudents(ctx context.Context, classID string) ([]Account, error) {
	id, err := primitive.ObjectIDFromHex(core.CleanString(classID))
	if err != nil {
		return nil, core.NewValidationError(errInvalidClassRef, core.FieldError{Field: "classId", Error: errInvalidClassRef.Error()})
	}
	return svc.repo.FilterStudentsByClass(ctx, id)
}
