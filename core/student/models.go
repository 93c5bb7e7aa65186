package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

type Student struct {
	ID             string      `db:"id" json:"id"`
	RollNumber     int         `db:"roll_number" json:"roll_number"`
	FirstName      string      `db:"first_name" json:"first_name"`
	LastName       string      `db:"last_name" json:"last_name"`
	DateOfBirth    string      `db:"date_of_birth" json:"date_of_birth"`
	Gender         string      `db:"gender" json:"gender"`
	ClassID        string      `db:"class_id" json:"class_id"`
	ParentName     string      `db:"parent_name" json:"parent_name"`
	ParentEmail    null.String `db:"parent_email" json:"parent_email"`
	ParentPhone    string      `db:"parent_phone" json:"parent_phone"`
	Address        null.String `db:"address" json:"address"`
	PreviousSchool null.String `db:"previous_school" json:"previous_school"`
	IsActive       bool        `db:"is_active" json:"is_active"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`

	// joined from classes
	ClassName null.String `db:"class_name" json:"class_name"`
	Grade     null.Int    `db:"grade" json:"grade"`
	Section   null.String `db:"section" json:"section"`
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// NewStudent contains information needed to enrol a student.
type NewStudent struct {
	RollNumber     int     `json:"roll_number" validate:"required,gt=0"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	DateOfBirth    string  `json:"date_of_birth" validate:"required,isodate"`
	Gender         string  `json:"gender" validate:"required,oneof=male female other"`
	ClassID        string  `json:"class_id" validate:"required,uuid"`
	ParentName     string  `json:"parent_name" validate:"required,max=150"`
	ParentEmail    string  `json:"parent_email" validate:"omitempty,email"`
	ParentPhone    string  `json:"parent_phone" validate:"required,min=7,max=20"`
	Address        *string `json:"address"`
	PreviousSchool *string `json:"previous_school"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.ClassID = core.CleanString(ns.ClassID, true /* lower */)
	ns.ParentName = core.CleanString(ns.ParentName)
	ns.ParentEmail = core.CleanString(ns.ParentEmail, true /* lower */)
	ns.ParentPhone = core.CleanString(ns.ParentPhone)
	ns.Address = core.CleanStringPtr(ns.Address)
	ns.PreviousSchool = core.CleanStringPtr(ns.PreviousSchool)
	return validate.Struct(ns)
}

// UpdateStudent defines what may be changed on a student; nil fields are left untouched.
type UpdateStudent struct {
	RollNumber     *int    `json:"roll_number" validate:"omitempty,gt=0"`
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,isodate"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=male female other"`
	ClassID        *string `json:"class_id" validate:"omitempty,uuid"`
	ParentName     *string `json:"parent_name" validate:"omitempty,min=1,max=150"`
	ParentEmail    *string `json:"parent_email" validate:"omitempty,email"`
	ParentPhone    *string `json:"parent_phone" validate:"omitempty,min=7,max=20"`
	Address        *string `json:"address"`
	PreviousSchool *string `json:"previous_school"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.FirstName = core.CleanStringPtr(us.FirstName)
	us.LastName = core.CleanStringPtr(us.LastName)
	us.ClassID = core.CleanStringPtr(us.ClassID, true /* lower */)
	us.ParentName = core.CleanStringPtr(us.ParentName)
	us.ParentEmail = core.CleanStringPtr(us.ParentEmail, true /* lower */)
	us.ParentPhone = core.CleanStringPtr(us.ParentPhone)
	us.Address = core.CleanStringPtr(us.Address)
	us.PreviousSchool = core.CleanStringPtr(us.PreviousSchool)
	if err := validate.Struct(us); err != nil {
		return err
	}
	if *us == (UpdateStudent{}) {
		return core.NewValidationError(errNothingToUpdate)
	}
	return nil
}

type QueryFilter struct {
	ClassID string `query:"class_id" validate:"omitempty,uuid"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.ClassID = core.CleanString(qf.ClassID, true /* lower */)
	return validate.Struct(qf)
}
