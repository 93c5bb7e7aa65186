package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/teacher"
	"github.com/trezcool/educore/core/user"
)

type teacherRepository struct {
	repository
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(exec core.DBExecutor) *teacherRepository {
	return &teacherRepository{repository{exec: exec}}
}

func (repo teacherRepository) selectTeachers() sq.SelectBuilder {
	return builder.Select().
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		LeftJoin("departments d ON d.id = t.department_id")
}

func (repo teacherRepository) withColumns(q sq.SelectBuilder) sq.SelectBuilder {
	return q.Columns("t.*", "u.name", "u.email", "u.is_active", "d.name AS department_name")
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher, exec ...core.DBExecutor) (teacher.Teacher, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Subjects == nil {
		t.Subjects = core.StringList{}
	}
	q := builder.Insert("teachers").SetMap(sq.Eq{
		"id":            t.ID,
		"user_id":       t.UserID,
		"department_id": t.DepartmentID,
		"employee_id":   t.EmployeeID,
		"subjects":      t.Subjects,
		"qualification": t.Qualification,
		"joining_date":  t.JoiningDate,
		"phone":         t.Phone,
		"created_at":    t.CreatedAt.UTC(),
	})
	if _, err := execute(ctx, repo.getExec(exec), q); err != nil {
		return teacher.Teacher{}, trapConstraintErr(err, user.ErrDepartmentNotFound, "inserting teacher")
	}
	return t, nil
}

func (repo teacherRepository) getTeacher(ctx context.Context, where sq.Sqlizer, exec []core.DBExecutor) (teacher.Teacher, error) {
	var t teacher.Teacher
	q := repo.withColumns(repo.selectTeachers()).Where(where)
	if err := get(ctx, repo.getExec(exec), &t, q); err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, teacher.ErrNotFound, "finding teacher")
	}
	return t, nil
}

func (repo teacherRepository) GetTeacherByID(ctx context.Context, id string, exec ...core.DBExecutor) (teacher.Teacher, error) {
	return repo.getTeacher(ctx, sq.Eq{"t.id": id}, exec)
}

func (repo teacherRepository) GetTeacherByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) (teacher.Teacher, error) {
	return repo.getTeacher(ctx, sq.Eq{"t.user_id": userID}, exec)
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, p core.Pagination, exec ...core.DBExecutor) ([]teacher.Teacher, int, error) {
	ex := repo.getExec(exec)
	base := repo.selectTeachers()

	total, err := count(ctx, ex, base)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting teachers")
	}
	teachers := make([]teacher.Teacher, 0)
	q := paginate(repo.withColumns(base).OrderBy("t.employee_id"), p)
	if err = selectAll(ctx, ex, &teachers, q); err != nil {
		return nil, 0, errors.Wrap(err, "querying teachers")
	}
	return teachers, total, nil
}

func (repo teacherRepository) ListTeachersByDepartment(ctx context.Context, departmentID string, exec ...core.DBExecutor) ([]teacher.Teacher, error) {
	teachers := make([]teacher.Teacher, 0)
	q := repo.withColumns(repo.selectTeachers()).
		Where(sq.Eq{"t.department_id": departmentID}).
		OrderBy("u.name")
	if err := selectAll(ctx, repo.getExec(exec), &teachers, q); err != nil {
		return nil, errors.Wrap(err, "listing department teachers")
	}
	return teachers, nil
}

func (repo teacherRepository) EmployeeIDExists(ctx context.Context, employeeID, excludeID string, exec ...core.DBExecutor) (bool, error) {
	base := builder.Select().From("teachers").Where(sq.Eq{"employee_id": employeeID})
	if excludeID != "" {
		base = base.Where(sq.NotEq{"id": excludeID})
	}
	n, err := count(ctx, repo.getExec(exec), base)
	if err != nil {
		return false, errors.Wrap(err, "counting teachers by employee id")
	}
	return n > 0, nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, id string, ut teacher.UpdateTeacher, exec ...core.DBExecutor) error {
	set := sq.Eq{}
	if ut.DepartmentID != nil {
		set["department_id"] = *ut.DepartmentID
	}
	if ut.EmployeeID != nil {
		set["employee_id"] = *ut.EmployeeID
	}
	if ut.Subjects != nil {
		set["subjects"] = core.StringList(ut.Subjects)
	}
	if ut.Qualification != nil {
		set["qualification"] = *ut.Qualification
	}
	if ut.JoiningDate != nil {
		set["joining_date"] = *ut.JoiningDate
	}
	if ut.Phone != nil {
		set["phone"] = *ut.Phone
	}
	if len(set) == 0 {
		return nil
	}

	ok, err := executeOne(ctx, repo.getExec(exec), builder.Update("teachers").SetMap(set).Where(sq.Eq{"id": id}))
	if err != nil {
		return trapConstraintErr(err, user.ErrDepartmentNotFound, "updating teacher")
	}
	if !ok {
		return teacher.ErrNotFound
	}
	return nil
}

func (repo teacherRepository) ListClassAssignments(ctx context.Context, teacherID string, exec ...core.DBExecutor) ([]teacher.ClassAssignment, error) {
	assignments := make([]teacher.ClassAssignment, 0)
	q := builder.Select("ct.*", "c.name AS class_name").
		From("class_teachers ct").
		LeftJoin("classes c ON c.id = ct.class_id").
		Where(sq.Eq{"ct.teacher_id": teacherID}).
		OrderBy("c.name", "ct.subject")
	if err := selectAll(ctx, repo.getExec(exec), &assignments, q); err != nil {
		return nil, errors.Wrap(err, "listing class assignments")
	}
	return assignments, nil
}

// UpsertClassAssignment keeps the existing row when the (teacher, class, subject) triple is already assigned.
func (repo teacherRepository) UpsertClassAssignment(ctx context.Context, ca teacher.ClassAssignment, exec ...core.DBExecutor) (teacher.ClassAssignment, error) {
	ex := repo.getExec(exec)
	q := builder.Insert("class_teachers").
		Columns("id", "teacher_id", "class_id", "subject").
		Values(uuid.New().String(), ca.TeacherID, ca.ClassID, ca.Subject).
		Suffix("ON CONFLICT (teacher_id, class_id, subject) DO NOTHING")
	if _, err := execute(ctx, ex, q); err != nil {
		return teacher.ClassAssignment{}, trapConstraintErr(err, teacher.ErrClassNotFound, "inserting class assignment")
	}

	var saved teacher.ClassAssignment
	sel := builder.Select("ct.*", "c.name AS class_name").
		From("class_teachers ct").
		LeftJoin("classes c ON c.id = ct.class_id").
		Where(sq.Eq{"ct.teacher_id": ca.TeacherID, "ct.class_id": ca.ClassID, "ct.subject": ca.Subject})
	if err := get(ctx, ex, &saved, sel); err != nil {
		return teacher.ClassAssignment{}, errors.Wrap(err, "finding class assignment")
	}
	return saved, nil
}
