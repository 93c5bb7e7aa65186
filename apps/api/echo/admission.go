package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/admission"
)

type admissionApi struct {
	svc      *admission.Service
	validate *validator.Validate
}

func registerAdmissionAPI(g *echo.Group, svc *admission.Service, validate *validator.Validate) {
	api := admissionApi{svc: svc, validate: validate}

	g.Use(roleMiddleware(adminOnly...))
	g.GET("", api.query)
	g.POST("", api.create)
	g.PATCH("/:id/approve", api.approve)
	g.PATCH("/:id/reject", api.reject)
}

func (api *admissionApi) query(ctx echo.Context) error {
	p := bindPagination(ctx)
	var filter admission.QueryFilter
	if err := bind(ctx, &filter, api.validate); err != nil {
		return err
	}

	adms, total, err := api.svc.Query(ctx.Request().Context(), filter, p)
	if err != nil {
		return errors.Wrap(err, "querying admissions")
	}
	return okPage(ctx, adms, p, total)
}

func (api *admissionApi) create(ctx echo.Context) error {
	var data admission.NewAdmission
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	adm, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating admission")
	}
	return created(ctx, adm)
}

func (api *admissionApi) approve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data admission.Approval
	if err = bind(ctx, &data, api.validate); err != nil {
		return err
	}

	std, err := api.svc.Approve(ctx.Request().Context(), ctx.Param("id"), data, claims.UserID)
	if err != nil {
		return err
	}
	return ok(ctx, std)
}

func (api *admissionApi) reject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	adm, err := api.svc.Reject(ctx.Request().Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		return err
	}
	return ok(ctx, adm)
}
