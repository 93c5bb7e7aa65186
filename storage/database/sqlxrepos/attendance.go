package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/attendance"
)

const attendanceUpsertSuffix = "ON CONFLICT (student_id, class_id, date) DO UPDATE SET " +
	"is_present = excluded.is_present, marked_by = excluded.marked_by, updated_at = excluded.updated_at"

type attendanceRepository struct {
	repository
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{repository{exec: exec}}
}

func (repo attendanceRepository) selectRecords() sq.SelectBuilder {
	return builder.Select("a.*", "s.first_name", "s.last_name", "s.roll_number").
		From("attendance a").
		LeftJoin("students s ON s.id = a.student_id")
}

// UpsertRecords writes all records in a single statement, then reads them back.
// Records must share the same class & date.
func (repo attendanceRepository) UpsertRecords(ctx context.Context, records []attendance.Record, exec ...core.DBExecutor) ([]attendance.Record, error) {
	saved := make([]attendance.Record, 0, len(records))
	if len(records) == 0 {
		return saved, nil
	}
	ex := repo.getExec(exec)

	q := builder.Insert("attendance").
		Columns("id", "student_id", "class_id", "date", "is_present", "marked_by", "created_at", "updated_at").
		Suffix(attendanceUpsertSuffix)
	studentIDs := make([]string, 0, len(records))
	for _, r := range records {
		q = q.Values(uuid.New().String(), r.StudentID, r.ClassID, r.Date, r.IsPresent, r.MarkedBy, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
		studentIDs = append(studentIDs, r.StudentID)
	}
	if _, err := execute(ctx, ex, q); err != nil {
		return nil, trapConstraintErr(err, attendance.ErrUnknownStudent, "upserting attendance")
	}

	sel := repo.selectRecords().
		Where(sq.Eq{"a.class_id": records[0].ClassID, "a.date": records[0].Date, "a.student_id": studentIDs}).
		OrderBy("s.roll_number", "a.student_id")
	if err := selectAll(ctx, ex, &saved, sel); err != nil {
		return nil, errors.Wrap(err, "reading upserted attendance")
	}
	return saved, nil
}

func (repo attendanceRepository) ListRecordsByStudent(ctx context.Context, studentID string, filter attendance.QueryFilter, exec ...core.DBExecutor) ([]attendance.Record, error) {
	q := repo.selectRecords().Where(sq.Eq{"a.student_id": studentID})
	if filter.From != "" {
		q = q.Where(sq.GtOrEq{"a.date": filter.From})
	}
	if filter.To != "" {
		q = q.Where(sq.LtOrEq{"a.date": filter.To})
	}

	records := make([]attendance.Record, 0)
	if err := selectAll(ctx, repo.getExec(exec), &records, q.OrderBy("a.date DESC")); err != nil {
		return nil, errors.Wrap(err, "listing student attendance")
	}
	return records, nil
}

func (repo attendanceRepository) ListRecordsByClassDate(ctx context.Context, classID, date string, exec ...core.DBExecutor) ([]attendance.Record, error) {
	q := repo.selectRecords().
		Where(sq.Eq{"a.class_id": classID, "a.date": date}).
		OrderBy("s.roll_number", "a.student_id")

	records := make([]attendance.Record, 0)
	if err := selectAll(ctx, repo.getExec(exec), &records, q); err != nil {
		return nil, errors.Wrap(err, "listing class attendance")
	}
	return records, nil
}
