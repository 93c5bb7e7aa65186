package lessonplan

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var errNothingToUpdate = errors.New("at least one field must be provided")

type Plan struct {
	ID         string      `db:"id" json:"id"`
	TeacherID  string      `db:"teacher_id" json:"teacher_id"`
	ClassID    string      `db:"class_id" json:"class_id"`
	Subject    string      `db:"subject" json:"subject"`
	Date       string      `db:"date" json:"date"`
	Topic      string      `db:"topic" json:"topic"`
	Objectives string      `db:"objectives" json:"objectives"`
	Materials  null.String `db:"materials" json:"materials"`
	Activities string      `db:"activities" json:"activities"`
	Assessment null.String `db:"assessment" json:"assessment"`
	Status     Status      `db:"status" json:"status"`
	HodRemarks null.String `db:"hod_remarks" json:"hod_remarks"`
	ReviewedBy null.String `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt null.Time   `db:"reviewed_at" json:"reviewed_at"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`

	// joined from teachers, users & classes
	TeacherName  null.String `db:"teacher_name" json:"teacher_name"`
	TeacherUser  null.String `db:"teacher_user_id" json:"teacher_user_id"`
	DepartmentID null.String `db:"department_id" json:"department_id"`
	ClassName    null.String `db:"class_name" json:"class_name"`
}

type NewPlan struct {
	ClassID    string  `json:"class_id" validate:"required,uuid"`
	Subject    string  `json:"subject" validate:"required,max=100"`
	Date       string  `json:"date" validate:"required,isodate"`
	Topic      string  `json:"topic" validate:"required,max=200"`
	Objectives string  `json:"objectives" validate:"required,notblank"`
	Materials  *string `json:"materials"`
	Activities string  `json:"activities" validate:"required,notblank"`
	Assessment *string `json:"assessment"`
}

func (np *NewPlan) Validate(validate *validator.Validate) error {
	np.ClassID = core.CleanString(np.ClassID, true /* lower */)
	np.Subject = core.CleanString(np.Subject)
	np.Topic = core.CleanString(np.Topic)
	np.Objectives = core.CleanString(np.Objectives)
	np.Activities = core.CleanString(np.Activities)
	np.Materials = core.CleanStringPtr(np.Materials)
	np.Assessment = core.CleanStringPtr(np.Assessment)
	return validate.Struct(np)
}

// UpdatePlan defines what may be changed on a pending plan; nil fields are left untouched.
type UpdatePlan struct {
	ClassID    *string `json:"class_id" validate:"omitempty,uuid"`
	Subject    *string `json:"subject" validate:"omitempty,min=1,max=100"`
	Date       *string `json:"date" validate:"omitempty,isodate"`
	Topic      *string `json:"topic" validate:"omitempty,min=1,max=200"`
	Objectives *string `json:"objectives" validate:"omitempty,notblank"`
	Materials  *string `json:"materials"`
	Activities *string `json:"activities" validate:"omitempty,notblank"`
	Assessment *string `json:"assessment"`
}

func (up *UpdatePlan) Validate(validate *validator.Validate) error {
	up.ClassID = core.CleanStringPtr(up.ClassID, true /* lower */)
	up.Subject = core.CleanStringPtr(up.Subject)
	up.Topic = core.CleanStringPtr(up.Topic)
	up.Objectives = core.CleanStringPtr(up.Objectives)
	up.Activities = core.CleanStringPtr(up.Activities)
	up.Materials = core.CleanStringPtr(up.Materials)
	up.Assessment = core.CleanStringPtr(up.Assessment)
	if err := validate.Struct(up); err != nil {
		return err
	}
	if up.ClassID == nil && up.Subject == nil && up.Date == nil && up.Topic == nil &&
		up.Objectives == nil && up.Materials == nil && up.Activities == nil && up.Assessment == nil {
		return core.NewValidationError(errNothingToUpdate)
	}
	return nil
}

type Rejection struct {
	HodRemarks string `json:"hod_remarks" validate:"required,notblank"`
}

func (r *Rejection) Validate(validate *validator.Validate) error {
	r.HodRemarks = core.CleanString(r.HodRemarks)
	return validate.Struct(r)
}

// Review is a transition out of pending.
type Review struct {
	Status     Status
	HodRemarks null.String
	ReviewerID string
	// DepartmentID restricts the review to plans authored by teachers of that department.
	DepartmentID string
	At           time.Time
}

// QueryFilter scopes plan listings. Empty fields do not filter.
type QueryFilter struct {
	Status       string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	TeacherID    string
	DepartmentID string
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	return validate.Struct(qf)
}
