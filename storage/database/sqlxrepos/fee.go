package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/fee"
	"github.com/trezcool/educore/core/student"
)

type feeRepository struct {
	repository
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(exec core.DBExecutor) *feeRepository {
	return &feeRepository{repository{exec: exec}}
}

func (repo feeRepository) selectFees() sq.SelectBuilder {
	return builder.Select().
		From("fees f").
		LeftJoin("students s ON s.id = f.student_id").
		LeftJoin("classes c ON c.id = s.class_id").
		LeftJoin("users u ON u.id = f.updated_by")
}

func (repo feeRepository) withColumns(q sq.SelectBuilder) sq.SelectBuilder {
	return q.Columns(
		"f.*",
		"s.first_name AS student_first_name",
		"s.last_name AS student_last_name",
		"s.roll_number",
		"s.class_id",
		"c.name AS class_name",
		"u.name AS updated_by_name",
	)
}

func (repo feeRepository) CreateFee(ctx context.Context, f fee.Fee, exec ...core.DBExecutor) (fee.Fee, error) {
	ex := repo.getExec(exec)
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	q := builder.Insert("fees").SetMap(sq.Eq{
		"id":             f.ID,
		"student_id":     f.StudentID,
		"academic_year":  f.AcademicYear,
		"term":           f.Term,
		"amount_due":     f.AmountDue,
		"amount_paid":    f.AmountPaid,
		"due_date":       f.DueDate,
		"paid_date":      f.PaidDate,
		"status":         string(f.Status),
		"receipt_number": f.ReceiptNumber,
		"updated_by":     f.UpdatedBy,
		"created_at":     f.CreatedAt.UTC(),
		"updated_at":     f.UpdatedAt.UTC(),
	})
	if _, err := execute(ctx, ex, q); err != nil {
		return fee.Fee{}, trapConstraintErr(err, student.ErrNotFound, "inserting fee")
	}
	return repo.GetFeeByID(ctx, f.ID, ex)
}

func (repo feeRepository) GetFeeByID(ctx context.Context, id string, exec ...core.DBExecutor) (fee.Fee, error) {
	var f fee.Fee
	q := repo.withColumns(repo.selectFees()).Where(sq.Eq{"f.id": id})
	if err := get(ctx, repo.getExec(exec), &f, q); err != nil {
		return fee.Fee{}, trapNoRowsErr(err, fee.ErrNotFound, "finding fee")
	}
	return f, nil
}

func (repo feeRepository) QueryFees(ctx context.Context, filter fee.QueryFilter, p core.Pagination, exec ...core.DBExecutor) ([]fee.Fee, int, error) {
	ex := repo.getExec(exec)
	base := repo.selectFees()
	if filter.Status != "" {
		base = base.Where(sq.Eq{"f.status": filter.Status})
	}
	if filter.ClassID != "" {
		base = base.Where(sq.Eq{"s.class_id": filter.ClassID})
	}

	total, err := count(ctx, ex, base)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting fees")
	}
	fees := make([]fee.Fee, 0)
	q := paginate(repo.withColumns(base).OrderBy("f.due_date", "f.id"), p)
	if err = selectAll(ctx, ex, &fees, q); err != nil {
		return nil, 0, errors.Wrap(err, "querying fees")
	}
	return fees, total, nil
}

func (repo feeRepository) ListFeesByStudent(ctx context.Context, studentID string, exec ...core.DBExecutor) ([]fee.Fee, error) {
	fees := make([]fee.Fee, 0)
	q := repo.withColumns(repo.selectFees()).
		Where(sq.Eq{"f.student_id": studentID}).
		OrderBy("f.academic_year DESC", "f.term")
	if err := selectAll(ctx, repo.getExec(exec), &fees, q); err != nil {
		return nil, errors.Wrap(err, "listing student fees")
	}
	return fees, nil
}

func (repo feeRepository) ListOverdueFees(ctx context.Context, today string, exec ...core.DBExecutor) ([]fee.Fee, error) {
	fees := make([]fee.Fee, 0)
	q := repo.withColumns(repo.selectFees()).
		Where(sq.Eq{"f.status": []string{string(fee.StatusUnpaid), string(fee.StatusPartial)}}).
		Where(sq.Lt{"f.due_date": today}).
		OrderBy("f.due_date", "f.id")
	if err := selectAll(ctx, repo.getExec(exec), &fees, q); err != nil {
		return nil, errors.Wrap(err, "listing overdue fees")
	}
	return fees, nil
}

func (repo feeRepository) UpdatePayment(ctx context.Context, f fee.Fee, exec ...core.DBExecutor) error {
	q := builder.Update("fees").
		Set("amount_paid", f.AmountPaid).
		Set("status", string(f.Status)).
		Set("paid_date", f.PaidDate).
		Set("receipt_number", sq.Expr("COALESCE(receipt_number, ?)", f.ReceiptNumber)).
		Set("updated_by", f.UpdatedBy).
		Set("updated_at", f.UpdatedAt.UTC()).
		Where(sq.Eq{"id": f.ID})
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	if err != nil {
		return errors.Wrap(err, "updating fee payment")
	}
	if !ok {
		return fee.ErrNotFound
	}
	return nil
}

func (repo feeRepository) SummarizeFees(ctx context.Context, academicYear string, exec ...core.DBExecutor) (fee.Summary, error) {
	q := builder.Select(
		"COALESCE(SUM(amount_due), 0) AS total_due",
		"COALESCE(SUM(amount_paid), 0) AS total_paid",
		"COALESCE(SUM(CASE WHEN status = 'paid' THEN 1 ELSE 0 END), 0) AS paid_count",
		"COALESCE(SUM(CASE WHEN status = 'partial' THEN 1 ELSE 0 END), 0) AS partial_count",
		"COALESCE(SUM(CASE WHEN status = 'unpaid' THEN 1 ELSE 0 END), 0) AS unpaid_count",
	).From("fees")
	if academicYear != "" {
		q = q.Where(sq.Eq{"academic_year": academicYear})
	}

	var s fee.Summary
	if err := get(ctx, repo.getExec(exec), &s, q); err != nil {
		return fee.Summary{}, errors.Wrap(err, "summarizing fees")
	}
	return s, nil
}
