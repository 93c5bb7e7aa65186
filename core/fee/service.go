package fee

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

var (
	// errors
	ErrNotFound     = core.NewNotFoundError("Fee record not found")
	ErrNoReceiptYet = core.NewInvalidError("Receipt only available for paid or partial payments")
)

type (
	Repository interface {
		CreateFee(ctx context.Context, f Fee, exec ...core.DBExecutor) (Fee, error)
		GetFeeByID(ctx context.Context, id string, exec ...core.DBExecutor) (Fee, error)
		// QueryFees orders by due date, earliest first.
		QueryFees(ctx context.Context, filter QueryFilter, p core.Pagination, exec ...core.DBExecutor) ([]Fee, int, error)
		ListFeesByStudent(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]Fee, error)
		// ListOverdueFees lists unpaid & partial fees due before today.
		ListOverdueFees(ctx context.Context, today string, exec ...core.DBExecutor) ([]Fee, error)
		// UpdatePayment persists the payment fields. An existing receipt number is never replaced.
		UpdatePayment(ctx context.Context, f Fee, exec ...core.DBExecutor) error
		SummarizeFees(ctx context.Context, academicYear string, exec ...core.DBExecutor) (Summary, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nf NewFee) (Fee, error) {
	now := core.NowFunc()
	return svc.repo.CreateFee(ctx, Fee{
		StudentID:    nf.StudentID,
		AcademicYear: nf.AcademicYear,
		Term:         nf.Term,
		AmountDue:    nf.AmountDue.Float64(),
		AmountPaid:   0,
		DueDate:      nf.DueDate,
		Status:       StatusUnpaid,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, p core.Pagination) ([]Fee, int, error) {
	return svc.repo.QueryFees(ctx, filter, p)
}

func (svc *Service) ListByStudent(ctx context.Context, studentID string) ([]Fee, error) {
	return svc.repo.ListFeesByStudent(ctx, studentID)
}

func (svc *Service) ListOverdue(ctx context.Context) ([]Fee, error) {
	return svc.repo.ListOverdueFees(ctx, core.Today())
}

func (svc *Service) Summary(ctx context.Context, filter SummaryFilter) (Summary, error) {
	s, err := svc.repo.SummarizeFees(ctx, filter.AcademicYear)
	if err != nil {
		return Summary{}, errors.Wrap(err, "summarizing fees")
	}
	s.AcademicYear = filter.AcademicYear
	s.Outstanding = s.TotalDue - s.TotalPaid
	return s, nil
}

// RecordPayment applies a payment made by updaterID.
func (svc *Service) RecordPayment(ctx context.Context, id string, p Payment, updaterID string) (Fee, error) {
	f, err := svc.repo.GetFeeByID(ctx, id)
	if err != nil {
		return Fee{}, err
	}
	f.ApplyPayment(p.AmountPaid.Float64(), p.PaidDate, core.NowFunc())
	f.UpdatedBy = null.StringFrom(updaterID)
	if err = svc.repo.UpdatePayment(ctx, f); err != nil {
		return Fee{}, errors.Wrap(err, "updating payment")
	}
	return svc.repo.GetFeeByID(ctx, id)
}

func (svc *Service) Receipt(ctx context.Context, id string) (Receipt, error) {
	f, err := svc.repo.GetFeeByID(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	if f.Status == StatusUnpaid {
		return Receipt{}, ErrNoReceiptYet
	}
	return Receipt{Fee: f, ReceiptText: ReceiptText(f)}, nil
}
