package user

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("User not found")
	ErrInvalidCredentials = core.NewUnauthenticatedError("Invalid email or password")
	ErrAccountDeactivated = core.NewForbiddenError("Account is deactivated")
	ErrRoleMismatch       = core.NewUnauthenticatedError("Role does not match")
	ErrDepartmentNotFound = core.NewNotFoundError("Department not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (User, error)
		GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (User, error)
		// EmailExists ignores the user with id excludeID, if any.
		EmailExists(ctx context.Context, email, excludeID string, exec ...core.DBExecutor) (bool, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		SetUserDepartment(ctx context.Context, id string, departmentID null.String, exec ...core.DBExecutor) error
		// TeacherClassIDs lists the classes assigned to the teacher profile of the user.
		TeacherClassIDs(ctx context.Context, userID string, exec ...core.DBExecutor) ([]string, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate checks the credentials and that the account is active and holds the requested role.
func (svc *Service) Authenticate(ctx context.Context, lr LoginRequest) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(lr.Email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}
	if err = usr.CheckPassword(lr.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if string(usr.Role) != lr.Role {
		return User{}, ErrRoleMismatch
	}
	return usr, nil
}

// Claims builds the token claims for usr.
func (svc *Service) Claims(ctx context.Context, usr User) (auth.Claims, error) {
	claims := auth.Claims{
		UserID:       usr.ID,
		Name:         usr.Name,
		Role:         usr.Role,
		DepartmentID: usr.DepartmentID,
		ClassIDs:     []string{},
	}
	if usr.Role == auth.RoleTeacher {
		ids, err := svc.repo.TeacherClassIDs(ctx, usr.ID)
		if err != nil {
			return auth.Claims{}, errors.Wrap(err, "listing teacher classes")
		}
		claims.ClassIDs = ids
	}
	return claims, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Save creates usr, or updates the existing account holding the same email.
func (svc *Service) Save(ctx context.Context, usr User) (User, error) {
	existing, err := svc.GetByEmail(ctx, usr.Email)
	switch {
	case err == nil:
		usr.ID = existing.ID
		usr.CreatedAt = existing.CreatedAt
		usr.UpdatedAt = core.NowFunc()
		return svc.repo.UpdateUser(ctx, usr)
	case errors.Cause(err) == ErrNotFound:
		now := core.NowFunc()
		usr.CreatedAt, usr.UpdatedAt = now, now
		return svc.repo.CreateUser(ctx, usr)
	default:
		return User{}, errors.Wrap(err, "finding user by email")
	}
}

// ResetPassword sets a new password on the account holding email.
func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = core.NowFunc()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "updating user")
}
