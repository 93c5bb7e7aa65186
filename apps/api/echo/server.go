package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

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
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Codec      *auth.TokenCodec
		Validate   *validator.Validate
		Translator ut.Translator
		// Redis backs the rate limiter when set; the in-memory store is used otherwise.
		Redis *redis.Client
		// Registry collects the HTTP metrics; a fresh registry is created when nil.
		Registry *prometheus.Registry

		UserSvc         *user.Service
		StudentSvc      *student.Service
		TeacherSvc      *teacher.Service
		DepartmentSvc   *department.Service
		FeeSvc          *fee.Service
		AdmissionSvc    *admission.Service
		AttendanceSvc   *attendance.Service
		MarkSvc         *mark.Service
		TimetableSvc    *timetable.Service
		LessonPlanSvc   *lessonplan.Service
		NotificationSvc *notification.Service

		DisableReqLogs bool
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, conf.IsProduction(), s.deps.Translator, s.SignalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{DisablePrintStack: conf.IsProduction()}))
	if !s.deps.DisableReqLogs {
		s.app.Use(requestLogger(s.deps.Logger))
	}
	s.app.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "0",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         15552000,
		ReferrerPolicy:     "no-referrer",
	}))
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{conf.Server.FrontendURL},
		AllowCredentials: true,
	}))
	s.app.Use(metricsMiddleware(s.deps.Registry))

	s.app.GET("/health", health)
	s.app.GET("/metrics", metricsHandler(s.deps.Registry))
	s.app.Static("/uploads", conf.UploadDir)

	api := s.app.Group("/api", rateLimiter(conf.RateLimit, s.deps.Redis, s.deps.Logger))
	authed := authMiddleware(s.deps.Codec)

	registerAuthAPI(api.Group("/auth"), authed, s.deps.UserSvc, s.deps.Codec, s.deps.Validate)
	registerStudentAPI(api.Group("/students", authed), s.deps.StudentSvc, s.deps.AttendanceSvc, s.deps.Validate)
	registerTeacherAPI(api.Group("/teachers", authed), s.deps.TeacherSvc, s.deps.Validate)
	registerFeeAPI(api.Group("/fees", authed), s.deps.FeeSvc, s.deps.Validate)
	registerAdmissionAPI(api.Group("/admissions", authed), s.deps.AdmissionSvc, s.deps.Validate)
	registerTimetableAPI(api.Group("/timetable", authed), s.deps.TimetableSvc, s.deps.Validate)
	registerLessonPlanAPI(api.Group("/lesson-plans", authed), s.deps.LessonPlanSvc, s.deps.Validate)
	registerDepartmentAPI(api.Group("/departments", authed), s.deps.DepartmentSvc, s.deps.TeacherSvc, s.deps.Validate)
	registerAttendanceAPI(api.Group("/attendance", authed), s.deps.AttendanceSvc, s.deps.Validate)
	registerMarkAPI(api.Group("/marks", authed), s.deps.MarkSvc, s.deps.Validate)
	registerNotificationAPI(api.Group("/notifications", authed), s.deps.NotificationSvc)
}

// Start listens on the configured address; listener errors are reported on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the process to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": core.NowFunc().Format(time.RFC3339Nano),
	})
}
