// Package testutil holds the database fixtures shared by the package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/admission"
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/department"
	"github.com/trezcool/educore/core/fee"
	"github.com/trezcool/educore/core/lessonplan"
	"github.com/trezcool/educore/core/student"
	"github.com/trezcool/educore/core/teacher"
	"github.com/trezcool/educore/core/user"
	"github.com/trezcool/educore/storage/database"
	"github.com/trezcool/educore/storage/database/sqlxrepos"
)

const AcademicYear = "2025-26"

// NewConfig returns a test configuration backed by an in-memory SQLite database.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:   "EduCore",
		Env:       core.EnvTest,
		Build:     "test",
		UploadDir: "uploads",
		Server: core.ServerConfig{
			Host:            "localhost",
			Port:            "0",
			FrontendURL:     "http://localhost:5173",
			ShutdownTimeout: time.Second,
		},
		Auth: core.AuthConfig{
			Secret:    "test-secret-that-is-at-least-32-chars",
			ExpiresIn: time.Hour,
		},
		Database: core.DatabaseConfig{
			Engine: database.EngineSQLite,
			Name:   ":memory:",
		},
		RateLimit: core.RateLimitConfig{
			Max:    10000,
			Window: 15 * time.Minute,
		},
	}
}

// PrepareDB opens a fresh migrated database, closed when the test ends.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(NewConfig())
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db, nil), "migrating test database")
	return db
}

func CreateUser(t *testing.T, db *sqlx.DB, name, email, pwd string, role auth.Role, isActive bool, departmentID ...string) user.User {
	t.Helper()

	now := core.NowFunc()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(departmentID) > 0 {
		usr.DepartmentID = null.StringFrom(departmentID[0])
	}
	require.NoError(t, usr.SetPassword(pwd))

	usr, err := sqlxrepos.NewUserRepository(db).CreateUser(context.Background(), usr)
	require.NoError(t, err, "CreateUser()")
	return usr
}

func CreateDepartment(t *testing.T, db *sqlx.DB, name string) department.Department {
	t.Helper()

	dept := department.Department{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: core.NowFunc(),
	}
	_, err := db.Exec(
		db.Rebind("INSERT INTO departments (id, name, created_at) VALUES (?, ?, ?)"),
		dept.ID, dept.Name, dept.CreatedAt,
	)
	require.NoError(t, err, "CreateDepartment()")
	return dept
}

// CreateClass returns the id of a new class.
func CreateClass(t *testing.T, db *sqlx.DB, name string, grade int, section string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(
		db.Rebind("INSERT INTO classes (id, name, grade, section, academic_year, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		id, name, grade, section, AcademicYear, core.NowFunc(),
	)
	require.NoError(t, err, "CreateClass()")
	return id
}

func CreateTeacher(t *testing.T, db *sqlx.DB, usr user.User, departmentID, employeeID string, subjects ...string) teacher.Teacher {
	t.Helper()

	repo := sqlxrepos.NewTeacherRepository(db)
	ctx := context.Background()
	_, err := repo.CreateTeacher(ctx, teacher.Teacher{
		UserID:       usr.ID,
		DepartmentID: departmentID,
		EmployeeID:   employeeID,
		Subjects:     core.StringList(subjects),
		JoiningDate:  "2020-01-06",
		CreatedAt:    core.NowFunc(),
	})
	require.NoError(t, err, "CreateTeacher()")

	tchr, err := repo.GetTeacherByUserID(ctx, usr.ID)
	require.NoError(t, err, "CreateTeacher()")
	return tchr
}

func AssignClass(t *testing.T, db *sqlx.DB, teacherID, classID, subject string) teacher.ClassAssignment {
	t.Helper()

	ca, err := sqlxrepos.NewTeacherRepository(db).UpsertClassAssignment(context.Background(), teacher.ClassAssignment{
		TeacherID: teacherID,
		ClassID:   classID,
		Subject:   subject,
	})
	require.NoError(t, err, "AssignClass()")
	return ca
}

func CreateStudent(t *testing.T, db *sqlx.DB, classID, firstName, lastName string, rollNumber int) student.Student {
	t.Helper()

	now := core.NowFunc()
	std, err := sqlxrepos.NewStudentRepository(db).CreateStudent(context.Background(), student.Student{
		RollNumber:  rollNumber,
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: "2012-03-14",
		Gender:      "female",
		ClassID:     classID,
		ParentName:  "Parent " + lastName,
		ParentPhone: "0812345678",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err, "CreateStudent()")
	return std
}

func CreateAdmission(t *testing.T, db *sqlx.DB, firstName, lastName string) admission.Admission {
	t.Helper()

	adm, err := sqlxrepos.NewAdmissionRepository(db).CreateAdmission(context.Background(), admission.Admission{
		FirstName:     firstName,
		LastName:      lastName,
		DateOfBirth:   "2013-09-01",
		Gender:        "male",
		GradeApplying: 6,
		ParentName:    "Parent " + lastName,
		ParentPhone:   "0898765432",
		Status:        admission.StatusPending,
		CreatedAt:     core.NowFunc(),
	})
	require.NoError(t, err, "CreateAdmission()")
	return adm
}

func CreateFee(t *testing.T, db *sqlx.DB, studentID string, amountDue float64, dueDate string) fee.Fee {
	t.Helper()

	now := core.NowFunc()
	f, err := sqlxrepos.NewFeeRepository(db).CreateFee(context.Background(), fee.Fee{
		StudentID:    studentID,
		AcademicYear: AcademicYear,
		Term:         1,
		AmountDue:    amountDue,
		DueDate:      dueDate,
		Status:       fee.StatusUnpaid,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err, "CreateFee()")
	return f
}

func CreatePlan(t *testing.T, db *sqlx.DB, teacherID, classID, subject, topic string) lessonplan.Plan {
	t.Helper()

	now := core.NowFunc()
	p, err := sqlxrepos.NewLessonPlanRepository(db).CreatePlan(context.Background(), lessonplan.Plan{
		TeacherID:  teacherID,
		ClassID:    classID,
		Subject:    subject,
		Date:       now.Format(core.DateLayout),
		Topic:      topic,
		Objectives: "Understand " + topic,
		Activities: "Discussion",
		Status:     lessonplan.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err, "CreatePlan()")
	return p
}
