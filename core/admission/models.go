package admission

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Admission struct {
	ID             string      `db:"id" json:"id"`
	FirstName      string      `db:"first_name" json:"first_name"`
	LastName       string      `db:"last_name" json:"last_name"`
	DateOfBirth    string      `db:"date_of_birth" json:"date_of_birth"`
	Gender         string      `db:"gender" json:"gender"`
	GradeApplying  int         `db:"grade_applying" json:"grade_applying"`
	ParentName     string      `db:"parent_name" json:"parent_name"`
	ParentEmail    null.String `db:"parent_email" json:"parent_email"`
	ParentPhone    string      `db:"parent_phone" json:"parent_phone"`
	Address        null.String `db:"address" json:"address"`
	PreviousSchool null.String `db:"previous_school" json:"previous_school"`
	Status         Status      `db:"status" json:"status"`
	ReviewedBy     null.String `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt     null.Time   `db:"reviewed_at" json:"reviewed_at"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// NewAdmission is an application to join the school.
type NewAdmission struct {
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	DateOfBirth    string  `json:"date_of_birth" validate:"required,isodate"`
	Gender         string  `json:"gender" validate:"required,oneof=male female other"`
	GradeApplying  int     `json:"grade_applying" validate:"required,min=1,max=10"`
	ParentName     string  `json:"parent_name" validate:"required,max=150"`
	ParentEmail    string  `json:"parent_email" validate:"omitempty,email"`
	ParentPhone    string  `json:"parent_phone" validate:"required,min=7,max=20"`
	Address        *string `json:"address"`
	PreviousSchool *string `json:"previous_school"`
}

func (na *NewAdmission) Validate(validate *validator.Validate) error {
	na.FirstName = core.CleanString(na.FirstName)
	na.LastName = core.CleanString(na.LastName)
	na.ParentName = core.CleanString(na.ParentName)
	na.ParentEmail = core.CleanString(na.ParentEmail, true /* lower */)
	na.ParentPhone = core.CleanString(na.ParentPhone)
	na.Address = core.CleanStringPtr(na.Address)
	na.PreviousSchool = core.CleanStringPtr(na.PreviousSchool)
	return validate.Struct(na)
}

type Approval struct {
	ClassID string `json:"class_id" validate:"required,uuid"`
}

func (a *Approval) Validate(validate *validator.Validate) error {
	a.ClassID = core.CleanString(a.ClassID, true /* lower */)
	return validate.Struct(a)
}

type QueryFilter struct {
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	return validate.Struct(qf)
}
