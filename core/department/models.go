package department

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

type Department struct {
	ID           string      `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	HodUserID    null.String `db:"hod_user_id" json:"hod_user_id"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	HodName      null.String `db:"hod_name" json:"hod_name"`
	TeacherCount int         `db:"teacher_count" json:"teacher_count"`
}

type AssignHOD struct {
	HodUserID string `json:"hod_user_id" validate:"required,uuid"`
}

func (ah *AssignHOD) Validate(validate *validator.Validate) error {
	ah.HodUserID = core.CleanString(ah.HodUserID, true /* lower */)
	return validate.Struct(ah)
}

type AssignTeacher struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
	ClassID   string `json:"class_id" validate:"required,uuid"`
	Subject   string `json:"subject" validate:"required,max=100"`
}

func (at *AssignTeacher) Validate(validate *validator.Validate) error {
	at.TeacherID = core.CleanString(at.TeacherID, true /* lower */)
	at.ClassID = core.CleanString(at.ClassID, true /* lower */)
	at.Subject = core.CleanString(at.Subject)
	return validate.Struct(at)
}
