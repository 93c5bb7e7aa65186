package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

type Teacher struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	DepartmentID  string          `db:"department_id" json:"department_id"`
	EmployeeID    string          `db:"employee_id" json:"employee_id"`
	Subjects      core.StringList `db:"subjects" json:"subjects"`
	Qualification null.String     `db:"qualification" json:"qualification"`
	JoiningDate   string          `db:"joining_date" json:"joining_date"`
	Phone         null.String     `db:"phone" json:"phone"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`

	// joined from users & departments
	Name           string      `db:"name" json:"name"`
	Email          string      `db:"email" json:"email"`
	IsActive       bool        `db:"is_active" json:"is_active"`
	DepartmentName null.String `db:"department_name" json:"department_name"`

	Classes []ClassAssignment `db:"-" json:"classes,omitempty"`
}

// ClassAssignment links a teacher to a class for one subject.
type ClassAssignment struct {
	ID        string      `db:"id" json:"id"`
	TeacherID string      `db:"teacher_id" json:"teacher_id"`
	ClassID   string      `db:"class_id" json:"class_id"`
	Subject   string      `db:"subject" json:"subject"`
	ClassName null.String `db:"class_name" json:"class_name"`
}

// NewTeacher contains information needed to create a teacher account and profile.
type NewTeacher struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,min=8"`
	DepartmentID  string   `json:"department_id" validate:"required,uuid"`
	EmployeeID    string   `json:"employee_id" validate:"required,max=20"`
	Subjects      []string `json:"subjects" validate:"required,min=1,dive,notblank"`
	Qualification *string  `json:"qualification" validate:"omitempty,max=200"`
	JoiningDate   string   `json:"joining_date" validate:"required,isodate"`
	Phone         *string  `json:"phone" validate:"omitempty,max=20"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.EmployeeID = core.CleanString(nt.EmployeeID)
	nt.Qualification = core.CleanStringPtr(nt.Qualification)
	nt.Phone = core.CleanStringPtr(nt.Phone)
	return validate.Struct(nt)
}

// UpdateTeacher defines what may be changed on a teacher; nil fields are left untouched.
// Name, Email & Password live on the user account, the rest on the profile.
type UpdateTeacher struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Password      *string  `json:"password" validate:"omitempty,min=8"`
	DepartmentID  *string  `json:"department_id" validate:"omitempty,uuid"`
	EmployeeID    *string  `json:"employee_id" validate:"omitempty,min=1,max=20"`
	Subjects      []string `json:"subjects" validate:"omitempty,min=1,dive,notblank"`
	Qualification *string  `json:"qualification" validate:"omitempty,max=200"`
	JoiningDate   *string  `json:"joining_date" validate:"omitempty,isodate"`
	Phone         *string  `json:"phone" validate:"omitempty,max=20"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate) error {
	ut.Name = core.CleanStringPtr(ut.Name)
	ut.Email = core.CleanStringPtr(ut.Email, true /* lower */)
	ut.EmployeeID = core.CleanStringPtr(ut.EmployeeID)
	ut.Qualification = core.CleanStringPtr(ut.Qualification)
	ut.Phone = core.CleanStringPtr(ut.Phone)
	if err := validate.Struct(ut); err != nil {
		return err
	}
	if ut.Empty() {
		return core.NewValidationError(errNothingToUpdate)
	}
	return nil
}

func (ut UpdateTeacher) Empty() bool {
	return ut.Name == nil && ut.Email == nil && ut.Password == nil && !ut.HasProfileChanges()
}

func (ut UpdateTeacher) HasProfileChanges() bool {
	return ut.DepartmentID != nil || ut.EmployeeID != nil || ut.Subjects != nil ||
		ut.Qualification != nil || ut.JoiningDate != nil || ut.Phone != nil
}
