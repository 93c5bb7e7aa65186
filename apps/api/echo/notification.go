package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/notification"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, svc *notification.Service) {
	api := notificationApi{svc: svc}

	g.Use(roleMiddleware(allRoles...))
	g.GET("", api.list)
	g.PATCH("/:id/read", api.markRead)
}

func (api *notificationApi) list(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	notifs, err := api.svc.List(ctx.Request().Context(), claims)
	if err != nil {
		return errors.Wrap(err, "listing notifications")
	}
	return ok(ctx, notifs)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	notif, err := api.svc.MarkRead(ctx.Request().Context(), claims, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ok(ctx, notif)
}
