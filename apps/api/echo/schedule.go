package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/core/user"
	"github.com/trezcool/college/services/export"
	"github.com/trezcool/college/services/metrics"
)

const exportFilename = "schedule.xlsx"

type scheduleApi struct {
	svc *schedule.Service
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *schedule.Service) {
	api := scheduleApi{svc: svc}

	cg := g.Group("/classes", jwt)
	cg.GET("", api.queryClasses)
	cg.POST("", api.createClass, adminMiddleware())

	sg := g.Group("/schedule", jwt)
	sg.GET("", api.schedule)
	sg.GET("/export", api.export)

	eg := g.Group("/enrollments", jwt)
	eg.POST("", api.enroll, roleMiddleware(user.RoleStudent))
	eg.GET("", api.queryEnrollments, adminMiddleware())
}

func (api *scheduleApi) createClass(ctx echo.Context) error {
	var data schedule.NewClassSchedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassSchedule")
	}

	cs, err := api.svc.AddClassSchedule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding class schedule")
	}
	return ctx.JSON(http.StatusCreated, cs)
}

func (api *scheduleApi) queryClasses(ctx echo.Context) error {
	var filter schedule.RowFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.Row{})
	}

	rows, err := api.svc.ListClasses(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	if rows == nil {
		rows = []schedule.Row{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *scheduleApi) actorRows(ctx echo.Context) ([]schedule.Row, error) {
	actor, err := getActor(ctx)
	if err != nil {
		return nil, err
	}
	var filter schedule.RowFilter
	if err := ctx.Bind(&filter); err != nil {
		return []schedule.Row{}, nil
	}
	return api.svc.ScheduleFor(ctx.Request().Context(), actor, filter)
}

// schedule returns the actor's timetable. `?group=day` buckets it per weekday.
func (api *scheduleApi) schedule(ctx echo.Context) error {
	rows, err := api.actorRows(ctx)
	if err != nil {
		return errors.Wrap(err, "getting schedule")
	}
	if ctx.QueryParam("group") == "day" {
		return ctx.JSON(http.StatusOK, schedule.GroupByDay(rows))
	}
	if rows == nil {
		rows = []schedule.Row{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *scheduleApi) export(ctx echo.Context) error {
	rows, err := api.actorRows(ctx)
	if err != nil {
		return errors.Wrap(err, "getting schedule")
	}
	buf, err := exportsvc.ScheduleXLSX(rows)
	if err != nil {
		return errors.Wrap(err, "exporting schedule")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFilename+`"`)
	return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
}

func (api *scheduleApi) enroll(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	var data schedule.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}

	e, err := api.svc.Enroll(ctx.Request().Context(), actor, data)
	metrics.RecordEnrollment(err, errors.Is(err, schedule.ErrAlreadyEnrolled))
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, EnrollmentResponse{
		Enrollment: e,
		Message:    "Successfully enrolled in the class",
	})
}

func (api *scheduleApi) queryEnrollments(ctx echo.Context) error {
	var filter EnrollmentQuery
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.Enrollment{})
	}

	enrollments, err := api.svc.ListEnrollments(ctx.Request().Context(), schedule.EnrollmentFilter(filter))
	if err != nil {
		return errors.Wrap(err, "listing enrollments")
	}
	if enrollments == nil {
		enrollments = []schedule.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

type (
	EnrollmentResponse struct {
		schedule.Enrollment
		Message string `json:"message"`
	}

	EnrollmentQuery struct {
		StudentID       int64 `query:"student_id"`
		ClassScheduleID int64 `query:"class_schedule_id"`
	}
)
