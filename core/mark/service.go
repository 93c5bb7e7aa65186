package mark

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

var (
	ErrNotFound       = core.NewNotFoundError("Mark not found")
	ErrUnknownStudent = core.NewNotFoundError("Student or class not found")
)

type (
	Repository interface {
		CreateMark(ctx context.Context, m Mark, exec ...core.DBExecutor) (Mark, error)
		GetMarkByID(ctx context.Context, id string, exec ...core.DBExecutor) (Mark, error)
		ListMarksByStudent(ctx context.Context, studentID string, filter QueryFilter, exec ...core.DBExecutor) ([]Mark, error)
		UpdateMarkScore(ctx context.Context, m Mark, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nm NewMark, enteredBy string) (Mark, error) {
	now := core.NowFunc()
	m := Mark{
		StudentID:     nm.StudentID,
		ClassID:       nm.ClassID,
		Subject:       nm.Subject,
		ExamType:      nm.ExamType,
		MaxMarks:      nm.MaxMarks.Float64(),
		MarksObtained: nm.MarksObtained.Float64(),
		AcademicYear:  nm.AcademicYear,
		EnteredBy:     enteredBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if nm.AssignmentNo != nil {
		m.AssignmentNo = null.IntFrom(*nm.AssignmentNo)
	}
	return svc.repo.CreateMark(ctx, m)
}

func (svc *Service) ListByStudent(ctx context.Context, studentID string, filter QueryFilter) ([]Mark, error) {
	return svc.repo.ListMarksByStudent(ctx, studentID, filter)
}

func (svc *Service) Update(ctx context.Context, id string, um UpdateMark) (Mark, error) {
	m, err := svc.repo.GetMarkByID(ctx, id)
	if err != nil {
		return Mark{}, err
	}
	m.MarksObtained = um.MarksObtained.Float64()
	if um.MaxMarks != nil {
		m.MaxMarks = um.MaxMarks.Float64()
	}
	if m.MarksObtained > m.MaxMarks {
		return Mark{}, obtainedAboveMax()
	}
	m.UpdatedAt = core.NowFunc()
	if err = svc.repo.UpdateMarkScore(ctx, m); err != nil {
		return Mark{}, errors.Wrap(err, "updating mark")
	}
	return m, nil
}
