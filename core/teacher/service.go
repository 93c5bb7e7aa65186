package teacher

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/user"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("Teacher not found")
	ErrProfileNotFound  = core.NewInvalidError("Teacher profile not found")
	ErrClassNotFound    = core.NewNotFoundError("Class not found")
	ErrEmployeeIDExists = errors.New("a teacher with this employee ID already exists")
	errNothingToUpdate  = errors.New("at least one field must be provided")
)

type (
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher, exec ...core.DBExecutor) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string, exec ...core.DBExecutor) (Teacher, error)
		GetTeacherByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) (Teacher, error)
		QueryTeachers(ctx context.Context, p core.Pagination, exec ...core.DBExecutor) ([]Teacher, int, error)
		ListTeachersByDepartment(ctx context.Context, departmentID string, exec ...core.DBExecutor) ([]Teacher, error)
		EmployeeIDExists(ctx context.Context, employeeID, excludeID string, exec ...core.DBExecutor) (bool, error)
		UpdateTeacher(ctx context.Context, id string, ut UpdateTeacher, exec ...core.DBExecutor) error
		ListClassAssignments(ctx context.Context, teacherID string, exec ...core.DBExecutor) ([]ClassAssignment, error)
		UpsertClassAssignment(ctx context.Context, ca ClassAssignment, exec ...core.DBExecutor) (ClassAssignment, error)
	}

	Service struct {
		db      core.DB
		repo    Repository
		usrRepo user.Repository
	}
)

func NewService(db core.DB, repo Repository, usrRepo user.Repository) *Service {
	return &Service{db: db, repo: repo, usrRepo: usrRepo}
}

func (svc *Service) Query(ctx context.Context, p core.Pagination) ([]Teacher, int, error) {
	return svc.repo.QueryTeachers(ctx, p)
}

func (svc *Service) ListByDepartment(ctx context.Context, departmentID string) ([]Teacher, error) {
	return svc.repo.ListTeachersByDepartment(ctx, departmentID)
}

// Get returns the teacher with their class assignments.
func (svc *Service) Get(ctx context.Context, id string) (Teacher, error) {
	t, err := svc.repo.GetTeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	if t.Classes, err = svc.repo.ListClassAssignments(ctx, t.ID); err != nil {
		return Teacher{}, errors.Wrap(err, "listing class assignments")
	}
	return t, nil
}

// GetByUserID returns the teacher profile of a user, or ErrProfileNotFound.
func (svc *Service) GetByUserID(ctx context.Context, userID string) (Teacher, error) {
	t, err := svc.repo.GetTeacherByUserID(ctx, userID)
	if errors.Cause(err) == ErrNotFound {
		return Teacher{}, ErrProfileNotFound
	}
	return t, err
}

func (svc *Service) checkUniqueness(ctx context.Context, exec core.DBExecutor, email, employeeID *string, excl Teacher) error {
	var flds []core.FieldError
	if email != nil {
		exists, err := svc.usrRepo.EmailExists(ctx, *email, excl.UserID, exec)
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
		if exists {
			flds = append(flds, core.FieldError{Field: "email", Error: user.ErrEmailExists.Error()})
		}
	}
	if employeeID != nil {
		exists, err := svc.repo.EmployeeIDExists(ctx, *employeeID, excl.ID, exec)
		if err != nil {
			return errors.Wrap(err, "checking employee ID uniqueness")
		}
		if exists {
			flds = append(flds, core.FieldError{Field: "employee_id", Error: ErrEmployeeIDExists.Error()})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Create registers the user account (role teacher) and its profile atomically.
func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	var id string
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.checkUniqueness(ctx, tx, &nt.Email, &nt.EmployeeID, Teacher{}); err != nil {
			return err
		}

		now := core.NowFunc()
		usr := user.User{
			Name:         nt.Name,
			Email:        nt.Email,
			Role:         auth.RoleTeacher,
			DepartmentID: null.StringFrom(nt.DepartmentID),
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := usr.SetPassword(nt.Password); err != nil {
			return errors.Wrap(err, "hashing password")
		}
		usr, err := svc.usrRepo.CreateUser(ctx, usr, tx)
		if err != nil {
			return errors.Wrap(err, "creating user")
		}

		t, err := svc.repo.CreateTeacher(ctx, Teacher{
			UserID:        usr.ID,
			DepartmentID:  nt.DepartmentID,
			EmployeeID:    nt.EmployeeID,
			Subjects:      nt.Subjects,
			Qualification: null.StringFromPtr(nt.Qualification),
			JoiningDate:   nt.JoiningDate,
			Phone:         null.StringFromPtr(nt.Phone),
			CreatedAt:     now,
		}, tx)
		if err != nil {
			return errors.Wrap(err, "creating teacher")
		}
		id = t.ID
		return nil
	})
	if err != nil {
		return Teacher{}, err
	}
	return svc.repo.GetTeacherByID(ctx, id)
}

// Update changes the user account and the profile in one transaction.
func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	err := core.WithTx(ctx, svc.db, func(tx core.DBExecutor) error {
		t, err := svc.repo.GetTeacherByID(ctx, id, tx)
		if err != nil {
			return err
		}
		if err = svc.checkUniqueness(ctx, tx, ut.Email, ut.EmployeeID, t); err != nil {
			return err
		}

		if ut.Name != nil || ut.Email != nil || ut.Password != nil || ut.DepartmentID != nil {
			usr, err := svc.usrRepo.GetUserByID(ctx, t.UserID, tx)
			if err != nil {
				return errors.Wrap(err, "finding teacher user")
			}
			if ut.Name != nil {
				usr.Name = *ut.Name
			}
			if ut.Email != nil {
				usr.Email = *ut.Email
			}
			if ut.Password != nil {
				if err = usr.SetPassword(*ut.Password); err != nil {
					return errors.Wrap(err, "hashing password")
				}
			}
			if ut.DepartmentID != nil {
				usr.DepartmentID = null.StringFrom(*ut.DepartmentID)
			}
			usr.UpdatedAt = core.NowFunc()
			if _, err = svc.usrRepo.UpdateUser(ctx, usr, tx); err != nil {
				return errors.Wrap(err, "updating user")
			}
		}

		if ut.HasProfileChanges() {
			if err = svc.repo.UpdateTeacher(ctx, id, ut, tx); err != nil {
				return errors.Wrap(err, "updating teacher")
			}
		}
		return nil
	})
	if err != nil {
		return Teacher{}, err
	}
	return svc.repo.GetTeacherByID(ctx, id)
}
