package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/department"
	"github.com/trezcool/educore/core/teacher"
)

type departmentApi struct {
	svc      *department.Service
	tchrSvc  *teacher.Service
	validate *validator.Validate
}

func registerDepartmentAPI(g *echo.Group, svc *department.Service, tchrSvc *teacher.Service, validate *validator.Validate) {
	api := departmentApi{svc: svc, tchrSvc: tchrSvc, validate: validate}

	g.GET("", api.query, roleMiddleware(allRoles...))
	g.PUT("/:id/hod", api.assignHOD, roleMiddleware(principalOnly...))
	g.POST("/:id/teachers", api.assignTeacher, roleMiddleware(hodOnly...))
}

func (api *departmentApi) query(ctx echo.Context) error {
	depts, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying departments")
	}
	return ok(ctx, depts)
}

func (api *departmentApi) assignHOD(ctx echo.Context) error {
	var data department.AssignHOD
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	dept, err := api.svc.AssignHOD(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ok(ctx, dept)
}

func (api *departmentApi) assignTeacher(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data department.AssignTeacher
	if err = bind(ctx, &data, api.validate); err != nil {
		return err
	}

	ca, err := api.svc.AssignTeacher(ctx.Request().Context(), claims, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return created(ctx, ca)
}
