package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/admission"
	"github.com/trezcool/educore/core/attendance"
	"github.com/trezcool/educore/core/auth"
	"github.com/trezcool/educore/core/department"
	"github.com/trezcool/educore/core/fee"
	"github.com/trezcool/educore/core/lessonplan"
	"github.com/trezcool/educore/core/mark"
	"github.com/trezcool/educore/core/notification"
	"github.com/trezcool/educore/core/student"
	"github.com/trezcool/educore/core/teacher"
	"github.com/trezcool/educore/core/timetable"
	"github.com/trezcool/educore/core/user"
	logsvc "github.com/trezcool/educore/services/logger"
	"github.com/trezcool/educore/storage/database/sqlxrepos"
	"github.com/trezcool/educore/testutil"
)

type testEnv struct {
	t      *testing.T
	conf   *core.Config
	db     *sqlx.DB
	codec  *auth.TokenCodec
	usrSvc *user.Service
	server *Server
	logs   *observer.ObservedLogs
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// newTestEnv wires a server to a fresh in-memory database; confFn may tweak the config first.
func newTestEnv(t *testing.T, confFn ...func(*core.Config)) *testEnv {
	t.Helper()

	conf := testutil.NewConfig()
	for _, fn := range confFn {
		fn(conf)
	}
	db := testutil.PrepareDB(t)

	obsCore, logs := observer.New(zap.DebugLevel)
	logger := logsvc.NewRollbarLogger(zap.New(obsCore).Sugar(), conf)

	translator := newTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	codec := auth.NewTokenCodec(conf)

	usrRepo := sqlxrepos.NewUserRepository(db)
	stdRepo := sqlxrepos.NewStudentRepository(db)
	tchrRepo := sqlxrepos.NewTeacherRepository(db)

	usrSvc := user.NewService(usrRepo)
	tchrSvc := teacher.NewService(db, tchrRepo, usrRepo)
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(db))

	server := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		Codec:           codec,
		Validate:        validate,
		Translator:      translator,
		UserSvc:         usrSvc,
		StudentSvc:      student.NewService(stdRepo),
		TeacherSvc:      tchrSvc,
		DepartmentSvc:   department.NewService(db, sqlxrepos.NewDepartmentRepository(db), usrRepo, tchrRepo),
		FeeSvc:          fee.NewService(sqlxrepos.NewFeeRepository(db)),
		AdmissionSvc:    admission.NewService(db, sqlxrepos.NewAdmissionRepository(db), stdRepo),
		AttendanceSvc:   attendance.NewService(sqlxrepos.NewAttendanceRepository(db)),
		MarkSvc:         mark.NewService(sqlxrepos.NewMarkRepository(db)),
		TimetableSvc:    timetable.NewService(sqlxrepos.NewTimetableRepository(db)),
		LessonPlanSvc:   lessonplan.NewService(sqlxrepos.NewLessonPlanRepository(db), tchrSvc, notifSvc, logger),
		NotificationSvc: notifSvc,
	})

	return &testEnv{
		t:      t,
		conf:   conf,
		db:     db,
		codec:  codec,
		usrSvc: usrSvc,
		server: server,
		logs:   logs,
	}
}

// tokenFor issues a token carrying the claims usr would get at login.
func (env *testEnv) tokenFor(usr user.User) string {
	env.t.Helper()

	usr, err := env.usrSvc.GetByID(context.Background(), usr.ID)
	require.NoError(env.t, err)
	claims, err := env.usrSvc.Claims(context.Background(), usr)
	require.NoError(env.t, err)
	token, err := env.codec.Issue(claims)
	require.NoError(env.t, err)
	return token
}

// envelope mirrors response, keeping data raw so each test decodes what it expects.
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
	Meta    *core.PageMeta    `json:"meta"`
	Count   *int              `json:"count"`
}

func (e envelope) decode(t *testing.T, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, dest), "decoding data: %s", e.Data)
}

func newRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (env *testEnv) do(method, path string, body interface{}, token string) (int, envelope) {
	env.t.Helper()
	return env.doT(env.t, method, path, body, token)
}

func (env *testEnv) doT(t *testing.T, method, path string, body interface{}, token string) (int, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, newRequest(t, method, path, body, token))

	var resp envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "decoding response: %s", rec.Body.String())
	}
	return rec.Code, resp
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	token    string
	wantCode int
	wantMsg  string
}

func (env *testEnv) run(tests []httpTest) {
	env.t.Helper()

	for _, tt := range tests {
		env.t.Run(tt.name, func(t *testing.T) {
			code, resp := env.doT(t, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.wantCode, code, "message: %s", resp.Message)
			assert.Equal(t, code < 400, resp.Success)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Message)
			}
		})
	}
}
