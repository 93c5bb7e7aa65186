package echoapi

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/educore/core/admission"
	"github.com/trezcool/educore/core/student"
	"github.com/trezcool/educore/testutil"
)

func TestAdmissionAPI(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed()

	adm := testutil.CreateAdmission(t, env.db, "Kofi", "Applicant")
	rejected := testutil.CreateAdmission(t, env.db, "Lena", "Applicant")

	env.run([]httpTest{
		{name: "list: principal forbidden", method: http.MethodGet, path: "/api/admissions", token: s.principalToken, wantCode: http.StatusForbidden},
		{name: "create: grade not a number", method: http.MethodPost, path: "/api/admissions", body: `{"grade_applying": "six"}`, token: s.adminToken, wantCode: http.StatusBadRequest},
		{name: "create: grade out of range", method: http.MethodPost, path: "/api/admissions", body: map[string]interface{}{
			"first_name": "Ama", "last_name": "New", "date_of_birth": "2014-02-02", "gender": "female",
			"grade_applying": 11, "parent_name": "Parent New", "parent_phone": "0812223344",
		}, token: s.adminToken, wantCode: http.StatusBadRequest, wantMsg: msgValidation},
		{name: "create", method: http.MethodPost, path: "/api/admissions", body: map[string]interface{}{
			"first_name": "Ama", "last_name": "New", "date_of_birth": "2014-02-02", "gender": "female",
			"grade_applying": 4, "parent_name": "Parent New", "parent_phone": "0812223344",
		}, token: s.adminToken, wantCode: http.StatusCreated},
		{name: "approve: class required", method: http.MethodPatch, path: "/api/admissions/" + adm.ID + "/approve", body: map[string]string{}, token: s.adminToken, wantCode: http.StatusBadRequest, wantMsg: msgValidation},
		{name: "approve: not found", method: http.MethodPatch, path: "/api/admissions/nope/approve", body: map[string]string{"class_id": s.classID}, token: s.adminToken, wantCode: http.StatusNotFound, wantMsg: "Admission not found or already processed"},
		{name: "reject", method: http.MethodPatch, path: "/api/admissions/" + rejected.ID + "/reject", token: s.adminToken, wantCode: http.StatusOK},
		{name: "reject twice", method: http.MethodPatch, path: "/api/admissions/" + rejected.ID + "/reject", token: s.adminToken, wantCode: http.StatusNotFound, wantMsg: "Admission not found or already processed"},
		{name: "approve rejected", method: http.MethodPatch, path: "/api/admissions/" + rejected.ID + "/approve", body: map[string]string{"class_id": s.classID}, token: s.adminToken, wantCode: http.StatusNotFound},
	})

	t.Run("grade type error is reported with the other field errors", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPost, "/api/admissions", `{"grade_applying": "six", "gender": "unknown"}`, s.adminToken)
		require.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, msgValidation, resp.Message)
		assert.Equal(t, "grade_applying must be of type number", resp.Errors["grade_applying"])
		for _, field := range []string{"first_name", "last_name", "date_of_birth", "gender", "parent_name", "parent_phone"} {
			assert.Contains(t, resp.Errors, field)
		}
	})

	t.Run("approve enrols with the next roll number", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodPatch, "/api/admissions/"+adm.ID+"/approve", map[string]string{"class_id": s.classID}, s.adminToken)
		require.Equal(t, http.StatusOK, code, resp.Message)

		var std student.Student
		resp.decode(t, &std)
		assert.Equal(t, "Kofi", std.FirstName)
		assert.Equal(t, s.classID, std.ClassID)
		assert.Equal(t, s.std.RollNumber+1, std.RollNumber)
	})

	t.Run("list filters by status", func(t *testing.T) {
		code, resp := env.doT(t, http.MethodGet, "/api/admissions?status=pending", nil, s.adminToken)
		require.Equal(t, http.StatusOK, code, resp.Message)

		var adms []admission.Admission
		resp.decode(t, &adms)
		require.Len(t, adms, 1)
		assert.Equal(t, "Ama", adms[0].FirstName)
		assert.Equal(t, 1, resp.Meta.Total)
	})
}

func TestAdmissionAPI_concurrentApprovals(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed()
	adm := testutil.CreateAdmission(t, env.db, "Kofi", "Applicant")

	const n = 8
	codes := make([]int, n)
	reqs := make([]*http.Request, n)
	for i := range reqs {
		reqs[i] = newRequest(t, http.MethodPatch, "/api/admissions/"+adm.ID+"/approve", map[string]string{"class_id": s.classID}, s.adminToken)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			env.server.ServeHTTP(rec, reqs[i])
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	var approved, conflicts int
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			approved++
		case http.StatusNotFound:
			conflicts++
		}
	}
	assert.Equal(t, 1, approved)
	assert.Equal(t, n-1, conflicts)

	var enrolled int
	require.NoError(t, env.db.Get(&enrolled, "SELECT COUNT(*) FROM students WHERE first_name = 'Kofi'"))
	assert.Equal(t, 1, enrolled)
}
