package mark

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

var errObtainedAboveMax = errors.New("marks_obtained cannot exceed max_marks")

type Mark struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	ClassID       string    `db:"class_id" json:"class_id"`
	Subject       string    `db:"subject" json:"subject"`
	ExamType      string    `db:"exam_type" json:"exam_type"`
	AssignmentNo  null.Int  `db:"assignment_no" json:"assignment_no"`
	MaxMarks      float64   `db:"max_marks" json:"max_marks"`
	MarksObtained float64   `db:"marks_obtained" json:"marks_obtained"`
	AcademicYear  string    `db:"academic_year" json:"academic_year"`
	EnteredBy     string    `db:"entered_by" json:"entered_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

func obtainedAboveMax() error {
	return core.NewValidationError(nil, core.FieldError{Field: "marks_obtained", Error: errObtainedAboveMax.Error()})
}

type NewMark struct {
	StudentID     string       `json:"student_id" validate:"required,uuid"`
	ClassID       string       `json:"class_id" validate:"required,uuid"`
	Subject       string       `json:"subject" validate:"required,max=100"`
	ExamType      string       `json:"exam_type" validate:"required,oneof=ia1 ia2 midterm final_exam assignment"`
	AssignmentNo  *int         `json:"assignment_no" validate:"omitempty,gt=0"`
	MaxMarks      *core.Number `json:"max_marks" validate:"required,gt=0"`
	MarksObtained *core.Number `json:"marks_obtained" validate:"required,min=0"`
	AcademicYear  string       `json:"academic_year" validate:"required,acadyear"`
}

// Validate checks the fields first; obtained <= max is only checked on well-formed input.
func (nm *NewMark) Validate(validate *validator.Validate) error {
	nm.StudentID = core.CleanString(nm.StudentID, true /* lower */)
	nm.ClassID = core.CleanString(nm.ClassID, true /* lower */)
	nm.Subject = core.CleanString(nm.Subject)
	nm.AcademicYear = core.CleanString(nm.AcademicYear)
	if err := validate.Struct(nm); err != nil {
		return err
	}
	if *nm.MarksObtained > *nm.MaxMarks {
		return obtainedAboveMax()
	}
	return nil
}

type UpdateMark struct {
	MarksObtained *core.Number `json:"marks_obtained" validate:"required,min=0"`
	MaxMarks      *core.Number `json:"max_marks" validate:"omitempty,gt=0"`
}

// Validate checks obtained <= max when both are given; the service checks against the stored max otherwise.
func (um *UpdateMark) Validate(validate *validator.Validate) error {
	if err := validate.Struct(um); err != nil {
		return err
	}
	if um.MaxMarks != nil && *um.MarksObtained > *um.MaxMarks {
		return obtainedAboveMax()
	}
	return nil
}

type QueryFilter struct {
	AcademicYear string `query:"academic_year" validate:"omitempty,acadyear"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.AcademicYear = core.CleanString(qf.AcademicYear)
	return validate.Struct(qf)
}
