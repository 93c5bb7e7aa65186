package department

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/teacher"
	"github.com/trezcool/educore/core/user"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("Department not found")
	ErrNotHOD            = core.NewInvalidError("User must have the HOD role")
	ErrForeignDepartment = core.NewForbiddenError("You can only manage your own department")
	ErrForeignTeacher    = core.NewForbiddenError("Teacher does not belong to your department")
)

type (
	Repository interface {
		QueryDepartments(ctx context.Context, exec ...core.DBExecutor) ([]Department, error)
		GetDepartmentByID(ctx context.Context, id string, exec ...core.DBExecutor) (Department, error)
		SetDepartmentHOD(ctx context.Context, id, hodUserID string, exec ...core.DBExecutor) error
	}

	Service struct {
		db       core.DB
		repo     Repository
		usrRepo  user.Repository
		tchrRepo teacher.Repository
	}
)

func NewService(db core.DB, repo Repository, usrRepo user.Repository, tchrRepo teacher.Repository) *Service {
	return &Service{db: db, repo: repo, usrRepo: usrRepo, tchrRepo: tchrRepo}
}

func (svc *Service) Query(ctx context.Context) ([]Department, error) {
	return svc.repo.QueryDepartments(ctx)
}

// AssignHOD makes the user head of the department and moves the user into it.
func (svc *Service) AssignHOD(ctx context.Context, id string, ah AssignHOD) (Department, error) {
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetDepartmentByID(ctx, id, tx); err != nil {
			return err
		}
		usr, err := svc.usrRepo.GetUserByID(ctx, ah.HodUserID, tx)
		if err != nil {
			return err
		}
		if usr.Role != auth.RoleHOD {
			return ErrNotHOD
		}
		if err = svc.repo.SetDepartmentHOD(ctx, id, usr.ID, tx); err != nil {
			return errors.Wrap(err, "setting department HOD")
		}
		return errors.Wrap(svc.usrRepo.SetUserDepartment(ctx, usr.ID, null.StringFrom(id), tx), "setting user department")
	})
	if err != nil {
		return Department{}, err
	}
	return svc.repo.GetDepartmentByID(ctx, id)
}

// AssignTeacher assigns a teacher of the HOD's own department to a class & subject.
// Assigning the same (teacher, class, subject) twice is a no-op.
func (svc *Service) AssignTeacher(ctx context.Context, claims auth.Claims, id string, at AssignTeacher) (teacher.ClassAssignment, error) {
	if !claims.DepartmentID.Valid || claims.DepartmentID.String != id {
		return teacher.ClassAssignment{}, ErrForeignDepartment
	}
	t, err := svc.tchrRepo.GetTeacherByID(ctx, at.TeacherID)
	if err != nil {
		return teacher.ClassAssignment{}, err
	}
	if t.DepartmentID != id {
		return teacher.ClassAssignment{}, ErrForeignTeacher
	}
	ca, err := svc.tchrRepo.UpsertClassAssignment(ctx, teacher.ClassAssignment{
		TeacherID: t.ID,
		ClassID:   at.ClassID,
		Subject:   at.Subject,
	})
	return ca, errors.Wrap(err, "assigning teacher to class")
}
