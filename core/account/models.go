package account

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/school"
)

// Roles
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash []byte             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"`
	StudentID    string             `bson:"studentId,omitempty" json:"studentID,omitempty"`
	ClassID      primitive.ObjectID `bson:"classId,omitempty" json:"classId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"` // UTC
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func (a *Account) IsTeacher() bool { return a.Role == RoleTeacher }
func (a *Account) IsStudent() bool { return a.Role == RoleStudent }

// Auth is the public view of an authenticated Account, with the Class
// reference expanded to its current state. It never carries the secret.
type Auth struct {
	Username  string        `json:"username"`
	StudentID string        `json:"studentID,omitempty"`
	Role      string        `json:"role"`
	Class     *school.Class `json:"class,omitempty"`
}

// NewAccount contains information needed to register a new Account.
type NewAccount struct {
	Username  string `json:"username" validate:"required,alphanum_"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=student teacher"`
	StudentID string `json:"studentID"`
	ClassID   string `json:"classId"`
}

func (na *NewAccount) Validate(ctx context.Context, svc *Service) error {
	na.Username = core.CleanString(na.Username, true /* lower */)
	na.StudentID = core.CleanString(na.StudentID)
	na.ClassID = core.CleanString(na.ClassID)

	if err := core.Validate.StructCtx(ctx, na); err != nil {
		return err
	}
	switch na.Role {
	case RoleStudent:
		if na.StudentID == "" || na.ClassID == "" {
			return core.NewValidationError(errStudentFieldsRequired)
		}
	case RoleTeacher:
		if na.StudentID != "" || na.ClassID != "" {
			return core.NewValidationError(errTeacherExtraFields)
		}
	}
	return svc.checkUniqueness(ctx, na.Username)
}
