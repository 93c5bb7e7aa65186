package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/educore/core/timetable"
)

func TestTimetableAPI(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed()

	slot := func(day string, period int, start, end string) map[string]interface{} {
		return map[string]interface{}{
			"class_id": s.classID, "day_of_week": day, "period_number": period,
			"start_time": start, "end_time": end, "subject": "Physics", "teacher_id": s.tchr.ID,
		}
	}

	env.run([]httpTest{
		{name: "create: teacher forbidden", method: http.MethodPost, path: "/api/timetable", body: slot("Monday", 1, "08:00", "08:45"), token: s.teacherToken, wantCode: http.StatusForbidden},
		{name: "create: weekend", method: http.MethodPost, path: "/api/timetable", body: slot("Saturday", 1, "08:00", "08:45"), token: s.adminToken, wantCode: http.StatusBadRequest},
		{name: "create: bad clock", method: http.MethodPost, path: "/api/timetable", body: slot("Monday", 1, "8am", "08:45"), token: s.adminToken, wantCode: http.StatusBadRequest},
		{name: "create: ends before start", method: http.MethodPost, path: "/api/timetable", body: slot("Monday", 1, "09:00", "08:45"), token: s.adminToken, wantCode: http.StatusBadRequest},
		{name: "create friday", method: http.MethodPost, path: "/api/timetable", body: slot("Friday", 1, "08:00", "08:45"), token: s.adminToken, wantCode: http.StatusCreated},
		{name: "create monday p2", method: http.MethodPost, path: "/api/timetable", body: slot("Monday", 2, "08:50", "09:35"), token: s.adminToken, wantCode: http.StatusCreated},
		{name: "create monday p1", method: http.MethodPost, path: "/api/timetable", body: slot("Monday", 1, "08:00", "08:45"), token: s.adminToken, wantCode: http.StatusCreated},
		{name: "update: not found", method: http.MethodPut, path: "/api/timetable/nope", body: map[string]string{"room": "B2"}, token: s.adminToken, wantCode: http.StatusNotFound},
		{name: "delete: not found", method: http.MethodDelete, path: "/api/timetable/nope", token: s.adminToken, wantCode: http.StatusNotFound, wantMsg: "Timetable entry not found"},
	})

	var slots []timetable.Slot
	t.Run("ordered monday to friday, then by period", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodGet, "/api/timetable/class/"+s.classID, nil, s.teacherToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		resp.decode(t, &slots)
		require.Len(t, slots, 3)

		got := make([]string, 0, len(slots))
		for _, sl := range slots {
			got = append(got, sl.DayOfWeek+"#"+sl.StartTime)
		}
		assert.Equal(t, []string{"Monday#08:00", "Monday#08:50", "Friday#08:00"}, got)
		assert.Equal(t, s.teacherUsr.Name, slots[0].TeacherName.String)
	})

	t.Run("partial update re-checks the times", func(t *testing.T) {
		code, _ := env.doT(t, http.MethodPut, "/api/timetable/"+slots[0].ID, map[string]string{"end_time": "07:30"}, s.adminToken)
		assert.Equal(t, http.StatusBadRequest, code)

		code, resp := env.doT(t, http.MethodPut, "/api/timetable/"+slots[0].ID, map[string]string{"room": "Lab 1"}, s.adminToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		var sl timetable.Slot
		resp.decode(t, &sl)
		assert.Equal(t, "Lab 1", sl.Room.String)
		assert.Equal(t, "08:00", sl.StartTime)
	})

	t.Run("delete", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodDelete, "/api/timetable/"+slots[2].ID, nil, s.adminToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		assert.Equal(t, msgSlotDeleted, resp.Message)

		code, _ = env.doT(t, http.MethodDelete, "/api/timetable/"+slots[2].ID, nil, s.adminToken)
		assert.Equal(t, http.StatusNotFound, code)
	})
}
