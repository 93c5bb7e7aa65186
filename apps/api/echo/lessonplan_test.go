package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/lessonplan"
	"github.com/trezcool/educore/core/notification"
	"github.com/trezcool/educore/testutil"
)

func TestLessonPlanAPI(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed()

	plan := testutil.CreatePlan(t, env.db, s.tchr.ID, s.classID, "Physics", "Newton's laws")
	toReject := testutil.CreatePlan(t, env.db, s.tchr.ID, s.classID, "Physics", "Optics")

	// a teacher of another department
	otherUsr := testutil.CreateUser(t, env.db, "Olga Other", "other@school.test", testPassword, auth.RoleTeacher, true, s.otherDept.ID)
	other := testutil.CreateTeacher(t, env.db, otherUsr, s.otherDept.ID, "EMP-002", "History")
	otherPlan := testutil.CreatePlan(t, env.db, other.ID, s.classID, "History", "Ancient Egypt")
	otherToken := env.tokenFor(otherUsr)

	env.run([]httpTest{
		{name: "list: admin forbidden", method: http.MethodGet, path: "/api/lesson-plans", token: s.adminToken, wantCode: http.StatusForbidden},
		{name: "create: hod forbidden", method: http.MethodPost, path: "/api/lesson-plans", body: map[string]string{}, token: s.hodToken, wantCode: http.StatusForbidden},
		{name: "create: invalid", method: http.MethodPost, path: "/api/lesson-plans", body: map[string]interface{}{"objectives": "  "}, token: s.teacherToken, wantCode: http.StatusBadRequest, wantMsg: msgValidation},
		{name: "approve: teacher forbidden", method: http.MethodPatch, path: "/api/lesson-plans/" + plan.ID + "/approve", token: s.teacherToken, wantCode: http.StatusForbidden},
		{name: "approve: other department", method: http.MethodPatch, path: "/api/lesson-plans/" + plan.ID + "/approve", token: s.otherHODToken, wantCode: http.StatusNotFound, wantMsg: "Lesson plan not found or already reviewed"},
		{name: "reject: remarks required", method: http.MethodPatch, path: "/api/lesson-plans/" + toReject.ID + "/reject", body: map[string]string{"hod_remarks": "  "}, token: s.hodToken, wantCode: http.StatusBadRequest},
		{name: "update: someone else's plan", method: http.MethodPut, path: "/api/lesson-plans/" + otherPlan.ID, body: map[string]string{"topic": "Mine now"}, token: s.teacherToken, wantCode: http.StatusNotFound, wantMsg: "Lesson plan not found or not editable"},
		{name: "retrieve: someone else's plan", method: http.MethodGet, path: "/api/lesson-plans/" + otherPlan.ID, token: s.teacherToken, wantCode: http.StatusNotFound},
		{name: "retrieve: principal sees all", method: http.MethodGet, path: "/api/lesson-plans/" + otherPlan.ID, token: s.principalToken, wantCode: http.StatusOK},
	})

	t.Run("create without a teacher profile", func(t *testing.T) {
		noProfile := testutil.CreateUser(t, env.db, "Nina NoProfile", "noprofile@school.test", testPassword, auth.RoleTeacher, true)
		code, resp := env.doT(t, http.MethodPost, "/api/lesson-plans", map[string]interface{}{
			"class_id": s.classID, "subject": "Physics", "date": "2025-10-06", "topic": "Waves",
			"objectives": "Define a wave", "activities": "Ripple tank demonstration",
		}, env.tokenFor(noProfile))
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Teacher profile not found", resp.Message)
	})

	t.Run("create", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPost, "/api/lesson-plans", map[string]interface{}{
			"class_id": s.classID, "subject": "Physics", "date": "2025-10-06", "topic": "Waves",
			"objectives": "Define a wave", "activities": "Ripple tank demonstration",
		}, s.teacherToken)
		require.Equal(t, http.StatusCreated, code, resp.Message)

		var p lessonplan.Plan
		resp.decode(t, &p)
		assert.Equal(t, s.tchr.ID, p.TeacherID)
		assert.Equal(t, lessonplan.StatusPending, p.Status)
		assert.Equal(t, "Define a wave", p.Objectives)
		assert.Equal(t, "Ripple tank demonstration", p.Activities)
	})

	t.Run("list is paginated", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodGet, "/api/lesson-plans?page=2&limit=3", nil, s.principalToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, core.PageMeta{Page: 2, Limit: 3, Total: 4, TotalPages: 2}, *resp.Meta)
		var plans []lessonplan.Plan
		resp.decode(t, &plans)
		assert.Len(t, plans, 1)
	})

	t.Run("listings are scoped by role", func(t *testing.T) {
		for _, tc := range []struct {
			name  string
			token string
			want  int
		}{
			{name: "teacher sees own", token: s.teacherToken, want: 3},
			{name: "other teacher sees own", token: otherToken, want: 1},
			{name: "hod sees department", token: s.hodToken, want: 3},
			{name: "other hod sees department", token: s.otherHODToken, want: 1},
			{name: "principal sees all", token: s.principalToken, want: 4},
		} {
			t.Run(tc.name, func(t *testing.T) {
				code, resp := env.doT(t, http.MethodGet, "/api/lesson-plans", nil, tc.token)
				require.Equal(t, http.StatusOK, code, resp.Message)
				var plans []lessonplan.Plan
				resp.decode(t, &plans)
				assert.Len(t, plans, tc.want)
			})
		}
	})

	t.Run("pending count", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodGet, "/api/lesson-plans/pending-count", nil, s.hodToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		var pc pendingCount
		resp.decode(t, &pc)
		assert.Equal(t, 3, pc.Count)
	})

	t.Run("update own pending plan", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPut, "/api/lesson-plans/"+plan.ID, map[string]string{"topic": "Newton's three laws", "activities": " Trolley experiment "}, s.teacherToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		var p lessonplan.Plan
		resp.decode(t, &p)
		assert.Equal(t, "Newton's three laws", p.Topic)
		assert.Equal(t, "Trolley experiment", p.Activities)
		assert.Equal(t, plan.Objectives, p.Objectives)
	})

	t.Run("approve once", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPatch, "/api/lesson-plans/"+plan.ID+"/approve", nil, s.hodToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		var p lessonplan.Plan
		resp.decode(t, &p)
		assert.Equal(t, lessonplan.StatusApproved, p.Status)
		assert.Equal(t, s.hod.ID, p.ReviewedBy.String)

		code, resp = env.doT(t, http.MethodPatch, "/api/lesson-plans/"+plan.ID+"/approve", nil, s.hodToken)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Lesson plan not found or already reviewed", resp.Message)

		code, _ = env.doT(t, http.MethodPatch, "/api/lesson-plans/"+plan.ID+"/reject", map[string]string{"hod_remarks": "Too late"}, s.hodToken)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("reviewed plans are not editable", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPut, "/api/lesson-plans/"+plan.ID, map[string]string{"topic": "Again"}, s.teacherToken)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Lesson plan not found or not editable", resp.Message)
	})

	t.Run("reject with remarks", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPatch, "/api/lesson-plans/"+toReject.ID+"/reject", map[string]string{"hod_remarks": "Add a lab activity"}, s.hodToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		var p lessonplan.Plan
		resp.decode(t, &p)
		assert.Equal(t, lessonplan.StatusRejected, p.Status)
		assert.Equal(t, "Add a lab activity", p.HodRemarks.String)
	})

	var notifID string
	t.Run("the author is notified of each review", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodGet, "/api/notifications", nil, s.teacherToken)
		require.Equal(t, http.StatusOK, code, resp.Message)

		var notifs []notification.Notification
		resp.decode(t, &notifs)
		require.Len(t, notifs, 2)
		assert.Equal(t, "Lesson plan rejected", notifs[0].Title)
		assert.Contains(t, notifs[0].Message, "Add a lab activity")
		assert.Equal(t, "Lesson plan approved", notifs[1].Title)
		assert.False(t, notifs[0].IsRead)
		notifID = notifs[0].ID
	})

	t.Run("only the addressee marks a notification read", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPatch, "/api/notifications/"+notifID+"/read", nil, otherToken)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Notification not found", resp.Message)

		code, resp = env.doT(t, http.MethodPatch, "/api/notifications/"+notifID+"/read", nil, s.teacherToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		var n notification.Notification
		resp.decode(t, &n)
		assert.True(t, n.IsRead)
	})

	t.Run("the reviewer gets no notification", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodGet, "/api/notifications", nil, s.hodToken)
		require.Equal(t, http.StatusOK, code, resp.Message)
		var notifs []notification.Notification
		resp.decode(t, &notifs)
		assert.Empty(t, notifs)
	})
}
