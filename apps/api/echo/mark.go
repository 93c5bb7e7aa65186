package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/mark"
)

type markApi struct {
	svc      *mark.Service
	validate *validator.Validate
}

func registerMarkAPI(g *echo.Group, svc *mark.Service, validate *validator.Validate) {
	api := markApi{svc: svc, validate: validate}

	g.GET("/student/:studentId", api.listByStudent, roleMiddleware(teacherHODPrincipal...))
	g.POST("", api.create, roleMiddleware(teacherOnly...))
	g.PUT("/:id", api.update, roleMiddleware(teacherOnly...))
}

func (api *markApi) listByStudent(ctx echo.Context) error {
	var filter mark.QueryFilter
	if err := bind(ctx, &filter, api.validate); err != nil {
		return err
	}

	marks, err := api.svc.ListByStudent(ctx.Request().Context(), ctx.Param("studentId"), filter)
	if err != nil {
		return errors.Wrap(err, "listing student marks")
	}
	return ok(ctx, marks)
}

func (api *markApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data mark.NewMark
	if err = bind(ctx, &data, api.validate); err != nil {
		return err
	}

	m, err := api.svc.Create(ctx.Request().Context(), data, claims.UserID)
	if err != nil {
		return err
	}
	return created(ctx, m)
}

func (api *markApi) update(ctx echo.Context) error {
	var data mark.UpdateMark
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	m, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ok(ctx, m)
}
