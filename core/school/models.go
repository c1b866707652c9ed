package school

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core"
)

type Class struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Code      string             `bson:"code" json:"code"`
	CreatedBy string             `bson:"createdBy" json:"createdBy"` // owning teacher's username
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"` // UTC
}

type Assignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Topic     string             `bson:"topic" json:"topic"`
	Deadline  time.Time          `bson:"deadline" json:"deadline"`
	ClassID   primitive.ObjectID `bson:"classId" json:"classId"`
	CreatedBy string             `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"` // UTC

	// Class is the expanded ClassID reference; set on reads, never stored.
	Class *Class `bson:"-" json:"class,omitempty"`
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name      string `json:"name" validate:"required"`
	Code      string `json:"code"`
	CreatedBy string `json:"createdBy" validate:"required"`
}

func (nc *NewClass) Validate(ctx context.Context, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.CreatedBy = core.CleanString(nc.CreatedBy, true /* lower */)

	if nc.Code == "" {
		return core.NewValidationError(errCodeRequired, core.FieldError{Field: "code", Error: errCodeRequired.Error()})
	}
	if err := core.Validate.StructCtx(ctx, nc); err != nil {
		return err
	}
	return svc.checkCodeUniqueness(ctx, nc.Code)
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Topic     string    `json:"topic" validate:"required"`
	Deadline  time.Time `json:"deadline" validate:"required"`
	ClassID   string    `json:"classId" validate:"required"`
	CreatedBy string    `json:"createdBy" validate:"required"`
}

func (na *NewAssignment) Validate(ctx context.Context) error {
	na.Topic = core.CleanString(na.Topic)
	na.CreatedBy = core.CleanString(na.CreatedBy, true /* lower */)
	return core.Validate.StructCtx(ctx, na)
}
