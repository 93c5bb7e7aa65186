package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/mark"
)

type markRepository struct {
	repository
}

var _ mark.Repository = (*markRepository)(nil) // interface compliance check

func NewMarkRepository(exec core.DBExecutor) *markRepository {
	return &markRepository{repository{exec: exec}}
}

func (repo markRepository) CreateMark(ctx context.Context, m mark.Mark, exec ...core.DBExecutor) (mark.Mark, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	q := builder.Insert("marks").SetMap(sq.Eq{
		"id":             m.ID,
		"student_id":     m.StudentID,
		"class_id":       m.ClassID,
		"subject":        m.Subject,
		"exam_type":      m.ExamType,
		"assignment_no":  m.AssignmentNo,
		"max_marks":      m.MaxMarks,
		"marks_obtained": m.MarksObtained,
		"academic_year":  m.AcademicYear,
		"entered_by":     m.EnteredBy,
		"created_at":     m.CreatedAt.UTC(),
		"updated_at":     m.UpdatedAt.UTC(),
	})
	if _, err := execute(ctx, repo.getExec(exec), q); err != nil {
		return mark.Mark{}, trapConstraintErr(err, mark.ErrUnknownStudent, "inserting mark")
	}
	return m, nil
}

func (repo markRepository) GetMarkByID(ctx context.Context, id string, exec ...core.DBExecutor) (mark.Mark, error) {
	var m mark.Mark
	q := builder.Select("*").From("marks").Where(sq.Eq{"id": id})
	if err := get(ctx, repo.getExec(exec), &m, q); err != nil {
		return mark.Mark{}, trapNoRowsErr(err, mark.ErrNotFound, "finding mark")
	}
	return m, nil
}

func (repo markRepository) ListMarksByStudent(ctx context.Context, studentID string, filter mark.QueryFilter, exec ...core.DBExecutor) ([]mark.Mark, error) {
	q := builder.Select("*").From("marks").Where(sq.Eq{"student_id": studentID})
	if filter.AcademicYear != "" {
		q = q.Where(sq.Eq{"academic_year": filter.AcademicYear})
	}

	marks := make([]mark.Mark, 0)
	if err := selectAll(ctx, repo.getExec(exec), &marks, q.OrderBy("subject", "exam_type", "assignment_no")); err != nil {
		return nil, errors.Wrap(err, "listing student marks")
	}
	return marks, nil
}

func (repo markRepository) UpdateMarkScore(ctx context.Context, m mark.Mark, exec ...core.DBExecutor) error {
	q := builder.Update("marks").
		Set("marks_obtained", m.MarksObtained).
		Set("max_marks", m.MaxMarks).
		Set("updated_at", m.UpdatedAt.UTC()).
		Where(sq.Eq{"id": m.ID})
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	if err != nil {
		return errors.Wrap(err, "updating mark")
	}
	if !ok {
		return mark.ErrNotFound
	}
	return nil
}
