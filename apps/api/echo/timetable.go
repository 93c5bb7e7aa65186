package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/timetable"
)

const msgSlotDeleted = "Timetable slot deleted"

type timetableApi struct {
	svc      *timetable.Service
	validate *validator.Validate
}

func registerTimetableAPI(g *echo.Group, svc *timetable.Service, validate *validator.Validate) {
	api := timetableApi{svc: svc, validate: validate}

	g.GET("/class/:classId", api.listByClass, roleMiddleware(allRoles...))
	g.POST("", api.create, roleMiddleware(adminOnly...))
	g.PUT("/:id", api.update, roleMiddleware(adminOnly...))
	g.DELETE("/:id", api.destroy, roleMiddleware(adminOnly...))
}

func (api *timetableApi) listByClass(ctx echo.Context) error {
	slots, err := api.svc.ListByClass(ctx.Request().Context(), ctx.Param("classId"))
	if err != nil {
		return errors.Wrap(err, "listing timetable")
	}
	return ok(ctx, slots)
}

func (api *timetableApi) create(ctx echo.Context) error {
	var data timetable.NewSlot
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	slot, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return created(ctx, slot)
}

func (api *timetableApi) update(ctx echo.Context) error {
	var data timetable.UpdateSlot
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	slot, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ok(ctx, slot)
}

func (api *timetableApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return okMessage(ctx, msgSlotDeleted)
}
