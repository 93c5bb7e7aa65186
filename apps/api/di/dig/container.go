package dig_container

import (
	"fmt"
	"log"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/educore/apps/api/echo"
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
	"github.com/trezcool/educore/storage/database"
	"github.com/trezcool/educore/storage/database/sqlxrepos"
)

func newLogger(conf *core.Config) (core.Logger, error) {
	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(conf.IsProduction() && conf.RollbarToken != "")
	return logger, nil
}

func newDB(conf *core.Config, logger core.Logger) (*sqlx.DB, core.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db, db
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

// newRedis returns nil when no address is configured: the rate limiter then keeps its counters in memory.
func newRedis(conf *core.Config) *redis.Client {
	if conf.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
	})
}

func newNotifier(svc *notification.Service) lessonplan.Notifier {
	return svc
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Codec      *auth.TokenCodec
	Validate   *validator.Validate
	Translator ut.Translator
	Redis      *redis.Client
	Registry   *prometheus.Registry

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
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:            p.Conf,
		Logger:          p.Logger,
		Codec:           p.Codec,
		Validate:        p.Validate,
		Translator:      p.Translator,
		Redis:           p.Redis,
		Registry:        p.Registry,
		UserSvc:         p.UserSvc,
		StudentSvc:      p.StudentSvc,
		TeacherSvc:      p.TeacherSvc,
		DepartmentSvc:   p.DepartmentSvc,
		FeeSvc:          p.FeeSvc,
		AdmissionSvc:    p.AdmissionSvc,
		AttendanceSvc:   p.AttendanceSvc,
		MarkSvc:         p.MarkSvc,
		TimetableSvc:    p.TimetableSvc,
		LessonPlanSvc:   p.LessonPlanSvc,
		NotificationSvc: p.NotificationSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	// infrastructure
	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDB))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(newRedis))
	must(c.Provide(prometheus.NewRegistry))
	must(c.Provide(auth.NewTokenCodec))

	// repositories
	must(c.Provide(sqlxrepos.NewUserRepository, dig.As(new(user.Repository))))
	must(c.Provide(sqlxrepos.NewStudentRepository, dig.As(new(student.Repository))))
	must(c.Provide(sqlxrepos.NewTeacherRepository, dig.As(new(teacher.Repository))))
	must(c.Provide(sqlxrepos.NewDepartmentRepository, dig.As(new(department.Repository))))
	must(c.Provide(sqlxrepos.NewFeeRepository, dig.As(new(fee.Repository))))
	must(c.Provide(sqlxrepos.NewAdmissionRepository, dig.As(new(admission.Repository))))
	must(c.Provide(sqlxrepos.NewAttendanceRepository, dig.As(new(attendance.Repository))))
	must(c.Provide(sqlxrepos.NewMarkRepository, dig.As(new(mark.Repository))))
	must(c.Provide(sqlxrepos.NewTimetableRepository, dig.As(new(timetable.Repository))))
	must(c.Provide(sqlxrepos.NewLessonPlanRepository, dig.As(new(lessonplan.Repository))))
	must(c.Provide(sqlxrepos.NewNotificationRepository, dig.As(new(notification.Repository))))

	// services
	must(c.Provide(user.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(teacher.NewService))
	must(c.Provide(department.NewService))
	must(c.Provide(fee.NewService))
	must(c.Provide(admission.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(mark.NewService))
	must(c.Provide(timetable.NewService))
	must(c.Provide(notification.NewService))
	must(c.Provide(newNotifier))
	must(c.Provide(lessonplan.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
