package echoapi

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/educore/testutil"
)

// Writes naming a record that does not exist are rejected as not found rather than failing on the database constraint.
func TestUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed()
	missing := uuid.NewString()

	env.run([]httpTest{
		{name: "fee: unknown student", method: http.MethodPost, path: "/api/fees", body: map[string]interface{}{
			"student_id": missing, "academic_year": testutil.AcademicYear, "term": 2, "amount_due": "250.50", "due_date": "2999-01-15",
		}, token: s.adminToken, wantCode: http.StatusNotFound, wantMsg: "Student not found"},
		{name: "mark: unknown student", method: http.MethodPost, path: "/api/marks", body: map[string]interface{}{
			"student_id": missing, "class_id": s.classID, "subject": "Physics", "exam_type": "midterm",
			"max_marks": 50, "marks_obtained": 40, "academic_year": testutil.AcademicYear,
		}, token: s.teacherToken, wantCode: http.StatusNotFound, wantMsg: "Student or class not found"},
		{name: "attendance: unknown student", method: http.MethodPost, path: "/api/attendance/bulk", body: map[string]interface{}{
			"class_id": s.classID, "date": "2025-09-01", "records": []map[string]interface{}{{"student_id": missing, "is_present": true}},
		}, token: s.teacherToken, wantCode: http.StatusNotFound, wantMsg: "Student or class not found"},
		{name: "student: unknown class", method: http.MethodPost, path: "/api/students", body: map[string]interface{}{
			"roll_number": 9, "first_name": "Nia", "last_name": "Third", "date_of_birth": "2012-05-20", "gender": "female",
			"class_id": missing, "parent_name": "Parent Third", "parent_phone": "0812223344",
		}, token: s.adminToken, wantCode: http.StatusNotFound, wantMsg: "Class not found"},
		{name: "student: moved to unknown class", method: http.MethodPut, path: "/api/students/" + s.std.ID, body: map[string]string{"class_id": missing}, token: s.adminToken, wantCode: http.StatusNotFound, wantMsg: "Class not found"},
		{name: "timetable: unknown class", method: http.MethodPost, path: "/api/timetable", body: map[string]interface{}{
			"class_id": missing, "day_of_week": "Monday", "period_number": 1,
			"start_time": "08:00", "end_time": "08:45", "subject": "Physics", "teacher_id": s.tchr.ID,
		}, token: s.adminToken, wantCode: http.StatusNotFound, wantMsg: "Class or teacher not found"},
		{name: "lesson plan: unknown class", method: http.MethodPost, path: "/api/lesson-plans", body: map[string]interface{}{
			"class_id": missing, "subject": "Physics", "date": "2025-10-06", "topic": "Waves",
			"objectives": "Describe waves", "activities": "Ripple tank",
		}, token: s.teacherToken, wantCode: http.StatusNotFound, wantMsg: "Class not found"},
		{name: "teacher: unknown department", method: http.MethodPost, path: "/api/teachers", body: map[string]interface{}{
			"name": "Nadia New", "email": "nadia@school.test", "password": "password1",
			"department_id": missing, "employee_id": "EMP-020",
			"subjects": []string{"Chemistry"}, "joining_date": "2024-08-19",
		}, token: s.adminToken, wantCode: http.StatusNotFound, wantMsg: "Department not found"},
		{name: "class assignment: unknown class", method: http.MethodPost, path: "/api/departments/" + s.dept.ID + "/teachers", body: map[string]string{
			"teacher_id": s.tchr.ID, "class_id": missing, "subject": "Chemistry",
		}, token: s.hodToken, wantCode: http.StatusNotFound, wantMsg: "Class not found"},
	})
	assert.Zero(t, env.logs.FilterMessage(msgInternal).Len())

	t.Run("admission approval into an unknown class is rolled back", func(t *testing.T) {
		adm := testutil.CreateAdmission(t, env.db, "Kofi", "Applicant")

		code, resp := env.doT(t, http.MethodPatch, "/api/admissions/"+adm.ID+"/approve", map[string]string{"class_id": missing}, s.adminToken)
		require.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Class not found", resp.Message)

		code, resp = env.doT(t, http.MethodPatch, "/api/admissions/"+adm.ID+"/approve", map[string]string{"class_id": s.classID}, s.adminToken)
		assert.Equal(t, http.StatusOK, code, resp.Message)
	})
}
