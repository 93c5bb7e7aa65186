package attendance

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

type Record struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Date      string    `db:"date" json:"date"`
	IsPresent bool      `db:"is_present" json:"is_present"`
	MarkedBy  string    `db:"marked_by" json:"marked_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// joined from students
	FirstName  null.String `db:"first_name" json:"first_name,omitempty"`
	LastName   null.String `db:"last_name" json:"last_name,omitempty"`
	RollNumber null.Int    `db:"roll_number" json:"roll_number,omitempty"`
}

type Entry struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	IsPresent *bool  `json:"is_present" validate:"required"`
}

// MaxBulkRecords bounds the records of a single bulk mark.
const MaxBulkRecords = 500

// BulkMark is the attendance of a class on one date.
type BulkMark struct {
	ClassID string  `json:"class_id" validate:"required,uuid"`
	Date    string  `json:"date" validate:"required,isodate"`
	Records []Entry `json:"records" validate:"required,min=1,max=500,dive"`
}

func (bm *BulkMark) Validate(validate *validator.Validate) error {
	bm.ClassID = core.CleanString(bm.ClassID, true /* lower */)
	for i := range bm.Records {
		bm.Records[i].StudentID = core.CleanString(bm.Records[i].StudentID, true /* lower */)
	}
	return validate.Struct(bm)
}

type QueryFilter struct {
	From string `query:"from" validate:"omitempty,isodate"`
	To   string `query:"to" validate:"omitempty,isodate"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	return validate.Struct(qf)
}

type Summary struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Percentage int `json:"percentage"`
}

// Summarize counts the records; percentage is present/total rounded, 0 without records.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.Total++
		if r.IsPresent {
			s.Present++
		}
	}
	s.Absent = s.Total - s.Present
	if s.Total > 0 {
		s.Percentage = int(math.Round(float64(s.Present) / float64(s.Total) * 100))
	}
	return s
}

// StudentAttendance is the attendance history of one student.
type StudentAttendance struct {
	Records []Record `json:"records"`
	Summary Summary  `json:"summary"`
}
