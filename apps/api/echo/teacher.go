package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core/teacher"
)

type teacherApi struct {
	svc *teacher.Service
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *teacher.Service) {
	api := teacherApi{svc: svc}

	tg := g.Group("/teachers", jwt, adminMiddleware())
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teacherApi) query(ctx echo.Context) error {
	var filter teacher.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []teacher.Teacher{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	teachers, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if teachers == nil {
		teachers = []teacher.Teacher{}
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data teacher.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}

	t, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}
