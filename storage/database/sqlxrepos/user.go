package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/user"
)

type userRepository struct {
	repository
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{repository{exec: exec}}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.New().String()
	}
	q := builder.Insert("users").SetMap(sq.Eq{
		"id":            usr.ID,
		"name":          usr.Name,
		"email":         usr.Email,
		"password_hash": usr.PasswordHash,
		"role":          string(usr.Role),
		"department_id": usr.DepartmentID,
		"is_active":     usr.IsActive,
		"created_at":    usr.CreatedAt.UTC(),
		"updated_at":    usr.UpdatedAt.UTC(),
	})
	if _, err := execute(ctx, repo.getExec(exec), q); err != nil {
		return user.User{}, trapConstraintErr(err, user.ErrDepartmentNotFound, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) getUser(ctx context.Context, where sq.Sqlizer, exec []core.DBExecutor) (user.User, error) {
	var usr user.User
	q := builder.Select("*").From("users").Where(where)
	if err := get(ctx, repo.getExec(exec), &usr, q); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	return repo.getUser(ctx, sq.Eq{"id": id}, exec)
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	return repo.getUser(ctx, sq.Eq{"email": email}, exec)
}

func (repo userRepository) EmailExists(ctx context.Context, email, excludeID string, exec ...core.DBExecutor) (bool, error) {
	base := builder.Select().From("users").Where(sq.Eq{"email": email})
	if excludeID != "" {
		base = base.Where(sq.NotEq{"id": excludeID})
	}
	n, err := count(ctx, repo.getExec(exec), base)
	if err != nil {
		return false, errors.Wrap(err, "counting users by email")
	}
	return n > 0, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	q := builder.Update("users").SetMap(sq.Eq{
		"name":          usr.Name,
		"email":         usr.Email,
		"password_hash": usr.PasswordHash,
		"role":          string(usr.Role),
		"department_id": usr.DepartmentID,
		"is_active":     usr.IsActive,
		"updated_at":    usr.UpdatedAt.UTC(),
	}).Where(sq.Eq{"id": usr.ID})
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	if err != nil {
		return user.User{}, trapConstraintErr(err, user.ErrDepartmentNotFound, "updating user")
	}
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) SetUserDepartment(ctx context.Context, id string, departmentID null.String, exec ...core.DBExecutor) error {
	q := builder.Update("users").
		Set("department_id", departmentID).
		Set("updated_at", core.NowFunc()).
		Where(sq.Eq{"id": id})
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	if err != nil {
		return errors.Wrap(err, "setting user department")
	}
	if !ok {
		return user.ErrNotFound
	}
	return nil
}

func (repo userRepository) TeacherClassIDs(ctx context.Context, userID string, exec ...core.DBExecutor) ([]string, error) {
	ids := make([]string, 0)
	q := builder.Select("DISTINCT ct.class_id").
		From("class_teachers ct").
		Join("teachers t ON t.id = ct.teacher_id").
		Where(sq.Eq{"t.user_id": userID}).
		OrderBy("ct.class_id")
	if err := selectAll(ctx, repo.getExec(exec), &ids, q); err != nil {
		return nil, errors.Wrap(err, "listing teacher class ids")
	}
	return ids, nil
}
