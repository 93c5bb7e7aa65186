package timetable

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

var (
	// Weekdays in timetable order.
	Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

	errEndBeforeStart  = errors.New("end_time must be after start_time")
	errNothingToUpdate = errors.New("at least one field must be provided")
)

type Slot struct {
	ID           string      `db:"id" json:"id"`
	ClassID      string      `db:"class_id" json:"class_id"`
	DayOfWeek    string      `db:"day_of_week" json:"day_of_week"`
	PeriodNumber int         `db:"period_number" json:"period_number"`
	StartTime    string      `db:"start_time" json:"start_time"`
	EndTime      string      `db:"end_time" json:"end_time"`
	Subject      string      `db:"subject" json:"subject"`
	TeacherID    null.String `db:"teacher_id" json:"teacher_id"`
	Room         null.String `db:"room" json:"room"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`

	// joined from teachers & users
	TeacherName null.String `db:"teacher_name" json:"teacher_name"`
}

func checkTimes(start, end string) error {
	// HH:MM strings compare in clock order
	if end <= start {
		return core.NewValidationError(nil, core.FieldError{Field: "end_time", Error: errEndBeforeStart.Error()})
	}
	return nil
}

type NewSlot struct {
	ClassID      string  `json:"class_id" validate:"required,uuid"`
	DayOfWeek    string  `json:"day_of_week" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
	PeriodNumber int     `json:"period_number" validate:"required,min=1,max=8"`
	StartTime    string  `json:"start_time" validate:"required,hhmm"`
	EndTime      string  `json:"end_time" validate:"required,hhmm"`
	Subject      string  `json:"subject" validate:"required,max=100"`
	TeacherID    *string `json:"teacher_id" validate:"omitempty,uuid"`
	Room         *string `json:"room" validate:"omitempty,max=50"`
}

func (ns *NewSlot) Validate(validate *validator.Validate) error {
	ns.ClassID = core.CleanString(ns.ClassID, true /* lower */)
	ns.DayOfWeek = core.CleanString(ns.DayOfWeek)
	ns.Subject = core.CleanString(ns.Subject)
	ns.TeacherID = core.CleanStringPtr(ns.TeacherID, true /* lower */)
	ns.Room = core.CleanStringPtr(ns.Room)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return checkTimes(ns.StartTime, ns.EndTime)
}

// UpdateSlot defines what may be changed on a slot; nil fields are left untouched.
type UpdateSlot struct {
	ClassID      *string `json:"class_id" validate:"omitempty,uuid"`
	DayOfWeek    *string `json:"day_of_week" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday"`
	PeriodNumber *int    `json:"period_number" validate:"omitempty,min=1,max=8"`
	StartTime    *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime      *string `json:"end_time" validate:"omitempty,hhmm"`
	Subject      *string `json:"subject" validate:"omitempty,min=1,max=100"`
	TeacherID    *string `json:"teacher_id" validate:"omitempty,uuid"`
	Room         *string `json:"room" validate:"omitempty,max=50"`
}

func (us *UpdateSlot) Validate(validate *validator.Validate) error {
	us.ClassID = core.CleanStringPtr(us.ClassID, true /* lower */)
	us.DayOfWeek = core.CleanStringPtr(us.DayOfWeek)
	us.Subject = core.CleanStringPtr(us.Subject)
	us.TeacherID = core.CleanStringPtr(us.TeacherID, true /* lower */)
	us.Room = core.CleanStringPtr(us.Room)
	if err := validate.Struct(us); err != nil {
		return err
	}
	if *us == (UpdateSlot{}) {
		return core.NewValidationError(errNothingToUpdate)
	}
	if us.StartTime != nil && us.EndTime != nil {
		return checkTimes(*us.StartTime, *us.EndTime)
	}
	return nil
}

// Apply copies the set fields of us onto s.
func (us UpdateSlot) Apply(s *Slot) {
	if us.ClassID != nil {
		s.ClassID = *us.ClassID
	}
	if us.DayOfWeek != nil {
		s.DayOfWeek = *us.DayOfWeek
	}
	if us.PeriodNumber != nil {
		s.PeriodNumber = *us.PeriodNumber
	}
	if us.StartTime != nil {
		s.StartTime = *us.StartTime
	}
	if us.EndTime != nil {
		s.EndTime = *us.EndTime
	}
	if us.Subject != nil {
		s.Subject = *us.Subject
	}
	if us.TeacherID != nil {
		s.TeacherID = null.NewString(*us.TeacherID, *us.TeacherID != "")
	}
	if us.Room != nil {
		s.Room = null.NewString(*us.Room, *us.Room != "")
	}
}
