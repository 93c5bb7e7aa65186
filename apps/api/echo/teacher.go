package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/teacher"
)

type teacherApi struct {
	svc      *teacher.Service
	validate *validator.Validate
}

func registerTeacherAPI(g *echo.Group, svc *teacher.Service, validate *validator.Validate) {
	api := teacherApi{svc: svc, validate: validate}

	g.GET("", api.query, roleMiddleware(adminPrincipalHOD...))
	g.POST("", api.create, roleMiddleware(adminOnly...))
	g.GET("/department/:deptId", api.listByDepartment, roleMiddleware(principalHOD...))
	g.GET("/:id", api.retrieve, roleMiddleware(adminPrincipalHOD...))
	g.PUT("/:id", api.update, roleMiddleware(adminOnly...))
}

func (api *teacherApi) query(ctx echo.Context) error {
	p := bindPagination(ctx)
	teachers, total, err := api.svc.Query(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return okPage(ctx, teachers, p, total)
}

func (api *teacherApi) listByDepartment(ctx echo.Context) error {
	teachers, err := api.svc.ListByDepartment(ctx.Request().Context(), ctx.Param("deptId"))
	if err != nil {
		return errors.Wrap(err, "listing department teachers")
	}
	return ok(ctx, teachers)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	t, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ok(ctx, t)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return created(ctx, t)
}

func (api *teacherApi) update(ctx echo.Context) error {
	var data teacher.UpdateTeacher
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	t, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ok(ctx, t)
}
