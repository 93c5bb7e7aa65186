package echoapi

import (
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/department"
	"github.com/trezcool/educore/core/student"
	"github.com/trezcool/educore/core/teacher"
	"github.com/trezcool/educore/core/user"
	"github.com/trezcool/educore/testutil"
)

const testPassword = "secret123"

type school struct {
	dept, otherDept department.Department
	classID         string

	admin, principal, hod, otherHOD, teacherUsr, inactive user.User

	tchr teacher.Teacher
	std  student.Student

	adminToken, principalToken, hodToken, otherHODToken, teacherToken string
}

// seed creates one account per role, a department with a teacher assigned to a class, and one student.
func (env *testEnv) seed() school {
	t := env.t
	t.Helper()

	var s school
	s.dept = testutil.CreateDepartment(t, env.db, "Sciences")
	s.otherDept = testutil.CreateDepartment(t, env.db, "Humanities")
	s.classID = testutil.CreateClass(t, env.db, "Grade 6 A", 6, "A")

	s.admin = testutil.CreateUser(t, env.db, "Ada Admin", "admin@school.test", testPassword, auth.RoleAdmin, true)
	s.principal = testutil.CreateUser(t, env.db, "Paul Principal", "principal@school.test", testPassword, auth.RolePrincipal, true)
	s.hod = testutil.CreateUser(t, env.db, "Hana Hod", "hod@school.test", testPassword, auth.RoleHOD, true, s.dept.ID)
	s.otherHOD = testutil.CreateUser(t, env.db, "Omar Hod", "hod2@school.test", testPassword, auth.RoleHOD, true, s.otherDept.ID)
	s.teacherUsr = testutil.CreateUser(t, env.db, "Tom Teacher", "teacher@school.test", testPassword, auth.RoleTeacher, true, s.dept.ID)
	s.inactive = testutil.CreateUser(t, env.db, "Ivy Inactive", "inactive@school.test", testPassword, auth.RoleTeacher, false)

	s.tchr = testutil.CreateTeacher(t, env.db, s.teacherUsr, s.dept.ID, "EMP-001", "Physics")
	testutil.AssignClass(t, env.db, s.tchr.ID, s.classID, "Physics")
	s.std = testutil.CreateStudent(t, env.db, s.classID, "Sara", "Student", 1)

	s.adminToken = env.tokenFor(s.admin)
	s.principalToken = env.tokenFor(s.principal)
	s.hodToken = env.tokenFor(s.hod)
	s.otherHODToken = env.tokenFor(s.otherHOD)
	s.teacherToken = env.tokenFor(s.teacherUsr)
	return s
}
