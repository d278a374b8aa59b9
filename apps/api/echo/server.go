package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/core/dashboard"
	"github.com/trezcool/college/core/notification"
	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/teacher"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/services/metrics"
)

type (
	// Pinger reports whether a backing store is reachable.
	Pinger interface {
		PingContext(ctx context.Context) error
	}

	ServerDeps struct {
		Conf   *core.Config
		Logger core.Logger

		DB    Pinger
		Redis Pinger // optional

		UserSvc         *user.Service
		StudentSvc      *student.Service
		TeacherSvc      *teacher.Service
		CourseSvc       *course.Service
		ScheduleSvc     *schedule.Service
		NotificationSvc *notification.Service
		DashboardSvc    *dashboard.Service
		Blacklist       user.TokenBlacklist

		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		auth     *Authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	var users userGetter
	if deps.UserSvc != nil {
		users = deps.UserSvc
	}
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		auth:     NewAuthenticator(deps.Conf, deps.Blacklist, users),
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
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metrics.Middleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", s.home)
	registerHealthAPI(s.app, s.deps.DB, s.deps.Redis, conf)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	jwt := s.auth.Middleware()

	registerUserAPI(v1, jwt, s.auth, s.deps.UserSvc, s.deps.Validate)
	registerStudentAPI(v1, jwt, s.deps.StudentSvc)
	registerTeacherAPI(v1, jwt, s.deps.TeacherSvc)
	registerCourseAPI(v1, jwt, s.deps.CourseSvc)
	registerScheduleAPI(v1, jwt, s.deps.ScheduleSvc)
	registerNotificationAPI(v1, jwt, s.deps.NotificationSvc)
	registerDashboardAPI(v1, jwt, s.deps.DashboardSvc)
}

// Start listens on the configured address. Listener errors are sent on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the owner of the server to stop it gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signalled
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

// Authenticator exposes the token issuer, mostly for tests.
func (s *Server) Authenticator() *Authenticator {
	return s.auth
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
