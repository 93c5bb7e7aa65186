package fee

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

type Status string

const (
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
	StatusUnpaid  Status = "unpaid"
)

// DeriveStatus is paid once due is covered, partial for any positive payment below it, unpaid otherwise.
func DeriveStatus(amountDue, amountPaid float64) Status {
	switch {
	case amountPaid >= amountDue:
		return StatusPaid
	case amountPaid > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

type Fee struct {
	ID            string      `db:"id" json:"id"`
	StudentID     string      `db:"student_id" json:"student_id"`
	AcademicYear  string      `db:"academic_year" json:"academic_year"`
	Term          int         `db:"term" json:"term"`
	AmountDue     float64     `db:"amount_due" json:"amount_due"`
	AmountPaid    float64     `db:"amount_paid" json:"amount_paid"`
	DueDate       string      `db:"due_date" json:"due_date"`
	PaidDate      null.String `db:"paid_date" json:"paid_date"`
	Status        Status      `db:"status" json:"status"`
	ReceiptNumber null.String `db:"receipt_number" json:"receipt_number"`
	UpdatedBy     null.String `db:"updated_by" json:"updated_by"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`

	// joined from students, classes & users
	StudentFirstName null.String `db:"student_first_name" json:"student_first_name"`
	StudentLastName  null.String `db:"student_last_name" json:"student_last_name"`
	RollNumber       null.Int    `db:"roll_number" json:"roll_number"`
	ClassID          null.String `db:"class_id" json:"class_id"`
	ClassName        null.String `db:"class_name" json:"class_name"`
	UpdatedByName    null.String `db:"updated_by_name" json:"updated_by_name"`
}

// ApplyPayment records amountPaid on f. The status is re-derived, paid_date defaults to today
// for any payment, and a receipt number is assigned the first time the fee is (partially) paid.
func (f *Fee) ApplyPayment(amountPaid float64, paidDate *string, now time.Time) {
	f.AmountPaid = amountPaid
	f.Status = DeriveStatus(f.AmountDue, amountPaid)

	switch {
	case paidDate != nil:
		f.PaidDate = null.StringFrom(*paidDate)
	case f.Status != StatusUnpaid:
		f.PaidDate = null.StringFrom(now.Format(core.DateLayout))
	default:
		f.PaidDate = null.String{}
	}

	if f.Status != StatusUnpaid && !f.ReceiptNumber.Valid {
		f.ReceiptNumber = null.StringFrom(NewReceiptNumber(now))
	}
	f.UpdatedAt = now
}

func (f Fee) StudentName() string {
	return f.StudentFirstName.String + " " + f.StudentLastName.String
}

type NewFee struct {
	StudentID    string      `json:"student_id" validate:"required,uuid"`
	AcademicYear string      `json:"academic_year" validate:"required,acadyear"`
	Term         int         `json:"term" validate:"required,min=1,max=3"`
	AmountDue    core.Number `json:"amount_due" validate:"required,gt=0"`
	DueDate      string      `json:"due_date" validate:"required,isodate"`
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	nf.StudentID = core.CleanString(nf.StudentID, true /* lower */)
	nf.AcademicYear = core.CleanString(nf.AcademicYear)
	return validate.Struct(nf)
}

type Payment struct {
	AmountPaid *core.Number `json:"amount_paid" validate:"required,min=0"`
	PaidDate   *string      `json:"paid_date" validate:"omitempty,isodate"`
}

func (p *Payment) Validate(validate *validator.Validate) error {
	p.PaidDate = core.CleanStringPtr(p.PaidDate)
	return validate.Struct(p)
}

type QueryFilter struct {
	Status  string `query:"status" validate:"omitempty,oneof=paid partial unpaid"`
	ClassID string `query:"class_id" validate:"omitempty,uuid"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.ClassID = core.CleanString(qf.ClassID, true /* lower */)
	return validate.Struct(qf)
}

type SummaryFilter struct {
	AcademicYear string `query:"academic_year" validate:"omitempty,acadyear"`
}

func (sf *SummaryFilter) Validate(validate *validator.Validate) error {
	sf.AcademicYear = core.CleanString(sf.AcademicYear)
	return validate.Struct(sf)
}

// Summary aggregates fee records.
type Summary struct {
	AcademicYear string  `json:"academicYear,omitempty"`
	TotalDue     float64 `db:"total_due" json:"totalDue"`
	TotalPaid    float64 `db:"total_paid" json:"totalPaid"`
	Outstanding  float64 `db:"-" json:"outstanding"`
	PaidCount    int     `db:"paid_count" json:"paidCount"`
	PartialCount int     `db:"partial_count" json:"partialCount"`
	UnpaidCount  int     `db:"unpaid_count" json:"unpaidCount"`
}

// Receipt is a fee with its printable text.
type Receipt struct {
	Fee
	ReceiptText string `json:"receiptText"`
}
