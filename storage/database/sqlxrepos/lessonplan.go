package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/lessonplan"
)

type lessonPlanRepository struct {
	repository
}

var _ lessonplan.Repository = (*lessonPlanRepository)(nil) // interface compliance check

func NewLessonPlanRepository(exec core.DBExecutor) *lessonPlanRepository {
	return &lessonPlanRepository{repository{exec: exec}}
}

func (repo lessonPlanRepository) selectPlans(filter lessonplan.QueryFilter) sq.SelectBuilder {
	q := builder.Select().
		From("lesson_plans lp").
		LeftJoin("teachers t ON t.id = lp.teacher_id").
		LeftJoin("users u ON u.id = t.user_id").
		LeftJoin("classes c ON c.id = lp.class_id")
	if filter.Status != "" {
		q = q.Where(sq.Eq{"lp.status": filter.Status})
	}
	if filter.TeacherID != "" {
		q = q.Where(sq.Eq{"lp.teacher_id": filter.TeacherID})
	}
	if filter.DepartmentID != "" {
		q = q.Where(sq.Eq{"t.department_id": filter.DepartmentID})
	}
	return q
}

func (repo lessonPlanRepository) withColumns(q sq.SelectBuilder) sq.SelectBuilder {
	return q.Columns(
		"lp.*",
		"u.name AS teacher_name",
		"t.user_id AS teacher_user_id",
		"t.department_id",
		"c.name AS class_name",
	)
}

func (repo lessonPlanRepository) CreatePlan(ctx context.Context, p lessonplan.Plan, exec ...core.DBExecutor) (lessonplan.Plan, error) {
	ex := repo.getExec(exec)
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	q := builder.Insert("lesson_plans").SetMap(sq.Eq{
		"id":          p.ID,
		"teacher_id":  p.TeacherID,
		"class_id":    p.ClassID,
		"subject":     p.Subject,
		"date":        p.Date,
		"topic":       p.Topic,
		"objectives":  p.Objectives,
		"materials":   p.Materials,
		"activities":  p.Activities,
		"assessment":  p.Assessment,
		"status":      string(p.Status),
		"hod_remarks": p.HodRemarks,
		"created_at":  p.CreatedAt.UTC(),
		"updated_at":  p.UpdatedAt.UTC(),
	})
	if _, err := execute(ctx, ex, q); err != nil {
		return lessonplan.Plan{}, trapConstraintErr(err, lessonplan.ErrClassNotFound, "inserting lesson plan")
	}
	return repo.GetPlan(ctx, p.ID, lessonplan.QueryFilter{}, ex)
}

func (repo lessonPlanRepository) GetPlan(ctx context.Context, id string, filter lessonplan.QueryFilter, exec ...core.DBExecutor) (lessonplan.Plan, error) {
	var p lessonplan.Plan
	if err := get(ctx, repo.getExec(exec), &p, repo.withColumns(repo.selectPlans(filter)).Where(sq.Eq{"lp.id": id})); err != nil {
		return lessonplan.Plan{}, trapNoRowsErr(err, lessonplan.ErrNotFound, "finding lesson plan")
	}
	return p, nil
}

func (repo lessonPlanRepository) QueryPlans(ctx context.Context, filter lessonplan.QueryFilter, p core.Pagination, exec ...core.DBExecutor) ([]lessonplan.Plan, int, error) {
	ex := repo.getExec(exec)
	base := repo.selectPlans(filter)

	total, err := count(ctx, ex, base)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting lesson plans")
	}
	plans := make([]lessonplan.Plan, 0)
	q := paginate(repo.withColumns(base).OrderBy("lp.created_at DESC", "lp.id"), p)
	if err = selectAll(ctx, ex, &plans, q); err != nil {
		return nil, 0, errors.Wrap(err, "querying lesson plans")
	}
	return plans, total, nil
}

func (repo lessonPlanRepository) UpdatePendingPlan(ctx context.Context, id, teacherID string, up lessonplan.UpdatePlan, at time.Time, exec ...core.DBExecutor) (bool, error) {
	set := sq.Eq{"updated_at": at.UTC()}
	if up.ClassID != nil {
		set["class_id"] = *up.ClassID
	}
	if up.Subject != nil {
		set["subject"] = *up.Subject
	}
	if up.Date != nil {
		set["date"] = *up.Date
	}
	if up.Topic != nil {
		set["topic"] = *up.Topic
	}
	if up.Objectives != nil {
		set["objectives"] = *up.Objectives
	}
	if up.Materials != nil {
		set["materials"] = *up.Materials
	}
	if up.Activities != nil {
		set["activities"] = *up.Activities
	}
	if up.Assessment != nil {
		set["assessment"] = *up.Assessment
	}

	q := builder.Update("lesson_plans").SetMap(set).Where(sq.Eq{
		"id":         id,
		"teacher_id": teacherID,
		"status":     string(lessonplan.StatusPending),
	})
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	if err != nil {
		return false, trapConstraintErr(err, lessonplan.ErrClassNotFound, "updating lesson plan")
	}
	return ok, nil
}

func (repo lessonPlanRepository) ReviewPlan(ctx context.Context, id string, r lessonplan.Review, exec ...core.DBExecutor) (bool, error) {
	q := builder.Update("lesson_plans").
		Set("status", string(r.Status)).
		Set("hod_remarks", r.HodRemarks).
		Set("reviewed_by", r.ReviewerID).
		Set("reviewed_at", r.At.UTC()).
		Set("updated_at", r.At.UTC()).
		Where(sq.Eq{"id": id, "status": string(lessonplan.StatusPending)})
	if r.DepartmentID != "" {
		q = q.Where("teacher_id IN (SELECT id FROM teachers WHERE department_id = ?)", r.DepartmentID)
	}
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	return ok, errors.Wrap(err, "reviewing lesson plan")
}

func (repo lessonPlanRepository) CountPendingPlans(ctx context.Context, departmentID string, exec ...core.DBExecutor) (int, error) {
	base := builder.Select().
		From("lesson_plans lp").
		Join("teachers t ON t.id = lp.teacher_id").
		Where(sq.Eq{"lp.status": string(lessonplan.StatusPending), "t.department_id": departmentID})
	n, err := count(ctx, repo.getExec(exec), base)
	return n, errors.Wrap(err, "counting pending lesson plans")
}
