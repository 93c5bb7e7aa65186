package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/educore/core/attendance"
	"github.com/trezcool/educore/testutil"
)

func TestAttendanceAPI(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed()
	ben := testutil.CreateStudent(t, env.db, s.classID, "Ben", "Second", 2)

	bulk := func(date string, present map[string]bool) map[string]interface{} {
		var records []map[string]interface{}
		for id, p := range present {
			records = append(records, map[string]interface{}{"student_id": id, "is_present": p})
		}
		return map[string]interface{}{"class_id": s.classID, "date": date, "records": records}
	}

	env.run([]httpTest{
		{name: "bulk: hod forbidden", method: http.MethodPost, path: "/api/attendance/bulk", body: bulk("2025-09-01", map[string]bool{s.std.ID: true}), token: s.hodToken, wantCode: http.StatusForbidden},
		{name: "bulk: no records", method: http.MethodPost, path: "/api/attendance/bulk", body: map[string]interface{}{"class_id": s.classID, "date": "2025-09-01", "records": []string{}}, token: s.teacherToken, wantCode: http.StatusBadRequest},
		{name: "bulk: bad date", method: http.MethodPost, path: "/api/attendance/bulk", body: bulk("01/09/2025", map[string]bool{s.std.ID: true}), token: s.teacherToken, wantCode: http.StatusBadRequest},
		{name: "bulk: presence required", method: http.MethodPost, path: "/api/attendance/bulk", body: map[string]interface{}{
			"class_id": s.classID, "date": "2025-09-01", "records": []map[string]string{{"student_id": s.std.ID}},
		}, token: s.teacherToken, wantCode: http.StatusBadRequest},
		{name: "student history: admin forbidden", method: http.MethodGet, path: "/api/attendance/student/" + s.std.ID, token: s.adminToken, wantCode: http.StatusForbidden},
		{name: "class date: principal forbidden", method: http.MethodGet, path: "/api/attendance/class/" + s.classID + "/date/2025-09-01", token: s.principalToken, wantCode: http.StatusForbidden},
	})

	t.Run("bulk: too many records", func(t *testing.T) {
		records := make([]map[string]interface{}, attendance.MaxBulkRecords+1)
		for i := range records {
			records[i] = map[string]interface{}{"student_id": s.std.ID, "is_present": true}
		}
		code, resp := env.doT(t, http.MethodPost, "/api/attendance/bulk", map[string]interface{}{"class_id": s.classID, "date": "2025-09-01", "records": records}, s.teacherToken)
		require.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, resp.Errors, "records")
	})

	t.Run("bulk marking is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			code, resp := env.doT(t, http.MethodPost, "/api/attendance/bulk", bulk("2025-09-01", map[string]bool{s.std.ID: true, ben.ID: true}), s.teacherToken)
			require.Equal(t, http.StatusOK, code, resp.Message)
			require.NotNil(t, resp.Count)
			assert.Equal(t, 2, *resp.Count)
		}

		// re-marking overwrites
		code, resp := env.doT(t, http.MethodPost, "/api/attendance/bulk", bulk("2025-09-01", map[string]bool{ben.ID: false}), s.teacherToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		assert.Equal(t, 1, *resp.Count)

		code, resp = env.doT(t, http.MethodGet, "/api/attendance/class/"+s.classID+"/date/2025-09-01", nil, s.teacherToken)
		require.Equal(t, http.StatusOK, code, resp.Message)

		var records []attendance.Record
		resp.decode(t, &records)
		require.Len(t, records, 2)
		present := map[string]bool{}
		for _, r := range records {
			present[r.StudentID] = r.IsPresent
			assert.Equal(t, s.teacherUsr.ID, r.MarkedBy)
		}
		assert.Equal(t, map[string]bool{s.std.ID: true, ben.ID: false}, present)
	})

	t.Run("student history with summary", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPost, "/api/attendance/bulk", bulk("2025-09-02", map[string]bool{ben.ID: true}), s.teacherToken)
		require.Equal(t, http.StatusOK, code, resp.Message)

		code, resp = env.doT(t, http.MethodGet, "/api/attendance/student/"+ben.ID, nil, s.hodToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		var att attendance.StudentAttendance
		resp.decode(t, &att)
		assert.Len(t, att.Records, 2)
		assert.Equal(t, attendance.Summary{Total: 2, Present: 1, Absent: 1, Percentage: 50}, att.Summary)

		code, resp = env.doT(t, http.MethodGet, "/api/attendance/student/"+ben.ID+"?from=2025-09-02&to=2025-09-30", nil, s.principalToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		resp.decode(t, &att)
		assert.Equal(t, attendance.Summary{Total: 1, Present: 1, Percentage: 100}, att.Summary)
	})
}
