package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/department"
)

type departmentRepository struct {
	repository
}

var _ department.Repository = (*departmentRepository)(nil) // interface compliance check

func NewDepartmentRepository(exec core.DBExecutor) *departmentRepository {
	return &departmentRepository{repository{exec: exec}}
}

func (repo departmentRepository) selectDepartments() sq.SelectBuilder {
	return builder.Select(
		"d.*",
		"u.name AS hod_name",
		"(SELECT COUNT(*) FROM teachers t WHERE t.department_id = d.id) AS teacher_count",
	).
		From("departments d").
		LeftJoin("users u ON u.id = d.hod_user_id")
}

func (repo departmentRepository) QueryDepartments(ctx context.Context, exec ...core.DBExecutor) ([]department.Department, error) {
	depts := make([]department.Department, 0)
	if err := selectAll(ctx, repo.getExec(exec), &depts, repo.selectDepartments().OrderBy("d.name")); err != nil {
		return nil, errors.Wrap(err, "querying departments")
	}
	return depts, nil
}

func (repo departmentRepository) GetDepartmentByID(ctx context.Context, id string, exec ...core.DBExecutor) (department.Department, error) {
	var dept department.Department
	if err := get(ctx, repo.getExec(exec), &dept, repo.selectDepartments().Where(sq.Eq{"d.id": id})); err != nil {
		return department.Department{}, trapNoRowsErr(err, department.ErrNotFound, "finding department")
	}
	return dept, nil
}

func (repo departmentRepository) SetDepartmentHOD(ctx context.Context, id, hodUserID string, exec ...core.DBExecutor) error {
	q := builder.Update("departments").Set("hod_user_id", hodUserID).Where(sq.Eq{"id": id})
	ok, err := executeOne(ctx, repo.getExec(exec), q)
	if err != nil {
		return errors.Wrap(err, "updating department")
	}
	if !ok {
		return department.ErrNotFound
	}
	return nil
}
