package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/timetable"
)

type timetableRepository struct {
	repository
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(exec core.DBExecutor) *timetableRepository {
	return &timetableRepository{repository{exec: exec}}
}

// weekdayOrder sorts day names Monday first; unknown days go last.
func weekdayOrder(column string) string {
	var b strings.Builder
	b.WriteString("CASE " + column)
	for i, day := range timetable.Weekdays {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", day, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(timetable.Weekdays))
	return b.String()
}

func (repo timetableRepository) selectSlots() sq.SelectBuilder {
	return builder.Select("tt.*", "u.name AS teacher_name").
		From("timetable tt").
		LeftJoin("teachers t ON t.id = tt.teacher_id").
		LeftJoin("users u ON u.id = t.user_id")
}

func (repo timetableRepository) ListSlotsByClass(ctx context.Context, classID string, exec ...core.DBExecutor) ([]timetable.Slot, error) {
	q := repo.selectSlots().
		Where(sq.Eq{"tt.class_id": classID}).
		OrderBy(weekdayOrder("tt.day_of_week"), "tt.period_number")

	slots := make([]timetable.Slot, 0)
	if err := selectAll(ctx, repo.getExec(exec), &slots, q); err != nil {
		return nil, errors.Wrap(err, "listing class timetable")
	}
	return slots, nil
}

func (repo timetableRepository) GetSlotByID(ctx context.Context, id string, exec ...core.DBExecutor) (timetable.Slot, error) {
	var s timetable.Slot
	if err := get(ctx, repo.getExec(exec), &s, repo.selectSlots().Where(sq.Eq{"tt.id": id})); err != nil {
		return timetable.Slot{}, trapNoRowsErr(err, timetable.ErrNotFound, "finding timetable slot")
	}
	return s, nil
}

func (repo timetableRepository) CreateSlot(ctx context.Context, s timetable.Slot, exec ...core.DBExecutor) (timetable.Slot, error) {
	ex := repo.getExec(exec)
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	q := builder.Insert("timetable").SetMap(sq.Eq{
		"id":            s.ID,
		"class_id":      s.ClassID,
		"day_of_week":   s.DayOfWeek,
		"period_number": s.PeriodNumber,
		"start_time":    s.StartTime,
		"end_time":      s.EndTime,
		"subject":       s.Subject,
		"teacher_id":    s.TeacherID,
		"room":          s.Room,
		"created_at":    s.CreatedAt.UTC(),
	})
	if _, err := execute(ctx, ex, q); err != nil {
		return timetable.Slot{}, trapConstraintErr(err, timetable.ErrUnknownClass, "inserting timetable slot")
	}
	return repo.GetSlotByID(ctx, s.ID, ex)
}

func (repo timetableRepository) UpdateSlot(ctx context.Context, s timetable.Slot, exec ...core.DBExecutor) error {
	q := builder.Update("timetable").SetMap(sq.Eq{
		"class_id":      s.ClassID,
		"day_of_week":   s.DayOfWeek,
		"period_number": s.PeriodNumber,
		"start_time":    s.StartTime,
		"end_time":      s.EndTime,
		"subject":       s.Subject,
		"teacher_id":    s.TeacherID,
		"room":          s.Room,
	}).Where(sq.Eq{"id": s.ID})
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	if err != nil {
		return trapConstraintErr(err, timetable.ErrUnknownClass, "updating timetable slot")
	}
	if !ok {
		return timetable.ErrNotFound
	}
	return nil
}

func (repo timetableRepository) DeleteSlot(ctx context.Context, id string, exec ...core.DBExecutor) error {
	ok, err := executeOne(ctx, repo.getExec(exec), builder.Delete("timetable").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting timetable slot")
	}
	if !ok {
		return timetable.ErrNotFound
	}
	return nil
}
