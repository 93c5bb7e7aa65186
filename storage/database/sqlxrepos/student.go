package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/student"
)

type studentRepository struct {
	repository
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{repository{exec: exec}}
}

func (repo studentRepository) selectStudents() sq.SelectBuilder {
	return builder.Select().
		From("students s").
		LeftJoin("classes c ON c.id = s.class_id")
}

func (repo studentRepository) withColumns(q sq.SelectBuilder) sq.SelectBuilder {
	return q.Columns("s.*", "c.name AS class_name", "c.grade", "c.section")
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	ex := repo.getExec(exec)
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	q := builder.Insert("students").SetMap(sq.Eq{
		"id":              s.ID,
		"roll_number":     s.RollNumber,
		"first_name":      s.FirstName,
		"last_name":       s.LastName,
		"date_of_birth":   s.DateOfBirth,
		"gender":          s.Gender,
		"class_id":        s.ClassID,
		"parent_name":     s.ParentName,
		"parent_email":    s.ParentEmail,
		"parent_phone":    s.ParentPhone,
		"address":         s.Address,
		"previous_school": s.PreviousSchool,
		"is_active":       s.IsActive,
		"created_at":      s.CreatedAt.UTC(),
		"updated_at":      s.UpdatedAt.UTC(),
	})
	if _, err := execute(ctx, ex, q); err != nil {
		return student.Student{}, trapConstraintErr(err, student.ErrClassNotFound, "inserting student")
	}
	return repo.GetStudentByID(ctx, s.ID, ex)
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string, exec ...core.DBExecutor) (student.Student, error) {
	var s student.Student
	q := repo.withColumns(repo.selectStudents()).Where(sq.Eq{"s.id": id})
	if err := get(ctx, repo.getExec(exec), &s, q); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student")
	}
	return s, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, p core.Pagination, exec ...core.DBExecutor) ([]student.Student, int, error) {
	ex := repo.getExec(exec)
	base := repo.selectStudents().Where(sq.Eq{"s.is_active": true})
	if filter.ClassID != "" {
		base = base.Where(sq.Eq{"s.class_id": filter.ClassID})
	}

	total, err := count(ctx, ex, base)
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting students")
	}
	students := make([]student.Student, 0)
	q := paginate(repo.withColumns(base).OrderBy("s.created_at DESC", "s.id"), p)
	if err = selectAll(ctx, ex, &students, q); err != nil {
		return nil, 0, errors.Wrap(err, "querying students")
	}
	return students, total, nil
}

func (repo studentRepository) ListStudentsByClass(ctx context.Context, classID string, exec ...core.DBExecutor) ([]student.Student, error) {
	students := make([]student.Student, 0)
	q := repo.withColumns(repo.selectStudents()).
		Where(sq.Eq{"s.class_id": classID, "s.is_active": true}).
		OrderBy("s.roll_number")
	if err := selectAll(ctx, repo.getExec(exec), &students, q); err != nil {
		return nil, errors.Wrap(err, "listing class students")
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, id string, us student.UpdateStudent, exec ...core.DBExecutor) error {
	set := sq.Eq{"updated_at": core.NowFunc()}
	if us.RollNumber != nil {
		set["roll_number"] = *us.RollNumber
	}
	if us.FirstName != nil {
		set["first_name"] = *us.FirstName
	}
	if us.LastName != nil {
		set["last_name"] = *us.LastName
	}
	if us.DateOfBirth != nil {
		set["date_of_birth"] = *us.DateOfBirth
	}
	if us.Gender != nil {
		set["gender"] = *us.Gender
	}
	if us.ClassID != nil {
		set["class_id"] = *us.ClassID
	}
	if us.ParentName != nil {
		set["parent_name"] = *us.ParentName
	}
	if us.ParentEmail != nil {
		set["parent_email"] = *us.ParentEmail
	}
	if us.ParentPhone != nil {
		set["parent_phone"] = *us.ParentPhone
	}
	if us.Address != nil {
		set["address"] = *us.Address
	}
	if us.PreviousSchool != nil {
		set["previous_school"] = *us.PreviousSchool
	}

	ok, err := executeOne(ctx, repo.getExec(exec), builder.Update("students").SetMap(set).Where(sq.Eq{"id": id}))
	if err != nil {
		return trapConstraintErr(err, student.ErrClassNotFound, "updating student")
	}
	if !ok {
		return student.ErrNotFound
	}
	return nil
}

func (repo studentRepository) MaxRollNumber(ctx context.Context, classID string, exec ...core.DBExecutor) (int, error) {
	var max int
	q := builder.Select("COALESCE(MAX(roll_number), 0)").From("students").Where(sq.Eq{"class_id": classID})
	if err := get(ctx, repo.getExec(exec), &max, q); err != nil {
		return 0, errors.Wrap(err, "finding max roll number")
	}
	return max, nil
}
