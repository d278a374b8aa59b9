package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/user"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students", jwt, roleMiddleware(user.RoleTeacher))
	sg.GET("", api.query)
	sg.POST("", api.create, adminMiddleware())
	sg.GET("/options", api.options)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update, adminMiddleware())
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) query(ctx echo.Context) error {
	var filter student.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	s, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	s, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

// options lists the departments and years used by the notification filters.
func (api *studentApi) options(ctx echo.Context) error {
	departments, err := api.svc.Departments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing departments")
	}
	years, err := api.svc.Years(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing years")
	}
	if departments == nil {
		departments = []string{}
	}
	if years == nil {
		years = []int{}
	}
	return ctx.JSON(http.StatusOK, StudentOptions{Departments: departments, Years: years})
}

type StudentOptions struct {
	Departments []string `json:"departments"`
	Years       []int    `json:"years"`
}
