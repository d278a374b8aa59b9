package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof" // register the /debug/pprof handlers
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/college/apps/api/echo"
	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/core/dashboard"
	"github.com/trezcool/college/core/notification"
	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/teacher"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/services/email"
	"github.com/trezcool/college/services/logger"
	"github.com/trezcool/college/services/metrics"
	"github.com/trezcool/college/services/sms"
	"github.com/trezcool/college/storage/database"
	"github.com/trezcool/college/storage/database/sqlxrepos"
	"github.com/trezcool/college/storage/inmem"
	redisstore "github.com/trezcool/college/storage/redis"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(logsvc.NewZerolog(conf, os.Stdout), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	// set up DB
	db, err := setUpDB(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("Failed to close database", err)
		}
	}()

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up services
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), validate, conf)
	if _, created, err := usrSvc.SeedAdmin(context.Background(), conf.Auth.SeedAdminPassword); err != nil {
		logger.Fatal(fmt.Sprintf("seeding admin: %v", err), err)
	} else if created {
		logger.Info("Default admin account created", map[string]interface{}{"username": user.AdminUsername})
	}

	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), validate)
	teacherSvc := teacher.NewService(sqlxrepos.NewTeacherRepository(db), validate)
	courseSvc := course.NewService(sqlxrepos.NewCourseRepository(db), validate)
	scheduleSvc := schedule.NewService(sqlxrepos.NewScheduleRepository(db), courseSvc, teacherSvc, studentSvc, validate)
	notificationSvc := notification.NewService(
		studentSvc,
		newSMSService(conf, logger),
		newEmailService(conf),
		validate,
		metrics.NotificationRecorder{},
		logger,
	)

	deps := echoapi.ServerDeps{
		Conf:            conf,
		Logger:          logger,
		DB:              db,
		UserSvc:         usrSvc,
		StudentSvc:      studentSvc,
		TeacherSvc:      teacherSvc,
		CourseSvc:       courseSvc,
		ScheduleSvc:     scheduleSvc,
		NotificationSvc: notificationSvc,
		DashboardSvc:    dashboard.NewService(sqlxrepos.NewDashboardRepository(db)),
		Validate:        validate,
		Translator:      translator,
	}

	// revoked tokens live in redis when available
	if conf.Redis.Addr != "" {
		client, err := redisstore.Open(context.Background(), conf.Redis)
		if err != nil {
			logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
		}
		defer client.Close()
		blacklist := redisstore.NewTokenBlacklist(client)
		deps.Blacklist = blacklist
		deps.Redis = blacklist
	} else {
		logger.Warn("REDIS_ADDR is not set, revoked tokens are kept in memory")
		deps.Blacklist = inmem.NewTokenBlacklist()
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(deps)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpDB opens the primary database (or its sqlite fallback) and applies migrations.
func setUpDB(conf *core.Config, logger core.Logger) (*sqlx.DB, error) {
	if conf.Database.Engine == database.Postgres && conf.Database.AdminUser != "" {
		if err := database.CreateIfNotExist(conf); err != nil {
			logger.Warn("could not provision the postgres database", err)
		}
	}

	db, err := database.OpenWithFallback(conf, logger)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrating")
	}
	return db, nil
}

// newSMSService returns nil when no channel can be built; sends then fail per recipient.
func newSMSService(conf *core.Config, logger core.Logger) core.SMSService {
	if conf.SMSChannel == "console" {
		return smssvc.NewConsoleService()
	}
	svc, err := smssvc.NewTwilioService(conf.Twilio)
	if err != nil {
		logger.Warn("SMS notifications are disabled", err)
		return nil
	}
	return svc
}

func newEmailService(conf *core.Config) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
