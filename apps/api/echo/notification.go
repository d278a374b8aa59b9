package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core/notification"
	"github.com/trezcool/college/core/student"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", jwt, adminMiddleware())
	ng.GET("/recipients", api.recipients)
	ng.POST("", api.send)
}

// recipients previews who a criterion selects, before anything is sent.
func (api *notificationApi) recipients(ctx echo.Context) error {
	var criterion notification.Criterion
	if err := ctx.Bind(&criterion); err != nil {
		return errors.Wrap(err, "binding to Criterion")
	}

	students, err := api.svc.ResolveRecipients(ctx.Request().Context(), criterion)
	if err != nil {
		return errors.Wrap(err, "resolving recipients")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, RecipientsResponse{Count: len(students), Students: students})
}

func (api *notificationApi) send(ctx echo.Context) error {
	var data notification.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Request")
	}

	report, err := api.svc.SendBulk(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "sending notifications")
	}
	return ctx.JSON(http.StatusOK, report)
}

type RecipientsResponse struct {
	Count    int               `json:"count"`
	Students []student.Student `json:"students"`
}
