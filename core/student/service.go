package student

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("Student not found")
	ErrClassNotFound   = core.NewNotFoundError("Class not found")
	errNothingToUpdate = errors.New("at least one field must be provided")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Student, error)
		// QueryStudents lists active students, newest first.
		QueryStudents(ctx context.Context, filter QueryFilter, p core.Pagination, exec ...core.DBExecutor) ([]Student, int, error)
		// ListStudentsByClass lists the active students of a class by roll number.
		ListStudentsByClass(ctx context.Context, classID string, exec ...core.DBExecutor) ([]Student, error)
		UpdateStudent(ctx context.Context, id string, us UpdateStudent, exec ...core.DBExecutor) error
		// MaxRollNumber returns 0 for an empty class.
		MaxRollNumber(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := core.NowFunc()
	return svc.repo.CreateStudent(ctx, Student{
		RollNumber:     ns.RollNumber,
		FirstName:      ns.FirstName,
		LastName:       ns.LastName,
		DateOfBirth:    ns.DateOfBirth,
		Gender:         ns.Gender,
		ClassID:        ns.ClassID,
		ParentName:     ns.ParentName,
		ParentEmail:    null.NewString(ns.ParentEmail, ns.ParentEmail != ""),
		ParentPhone:    ns.ParentPhone,
		Address:        null.StringFromPtr(ns.Address),
		PreviousSchool: null.StringFromPtr(ns.PreviousSchool),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, p core.Pagination) ([]Student, int, error) {
	return svc.repo.QueryStudents(ctx, filter, p)
}

func (svc *Service) ListByClass(ctx context.Context, classID string) ([]Student, error) {
	return svc.repo.ListStudentsByClass(ctx, classID)
}

func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	if err := svc.repo.UpdateStudent(ctx, id, us); err != nil {
		return Student{}, err
	}
	return svc.repo.GetStudentByID(ctx, id)
}

// NextRollNumber is one past the highest roll number in the class.
func (svc *Service) NextRollNumber(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error) {
	max, err := svc.repo.MaxRollNumber(ctx, classID, exec...)
	if err != nil {
		return 0, errors.Wrap(err, "finding max roll number")
	}
	return max + 1, nil
}
