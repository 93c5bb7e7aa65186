package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/fee"
)

type feeApi struct {
	svc      *fee.Service
	validate *validator.Validate
}

func registerFeeAPI(g *echo.Group, svc *fee.Service, validate *validator.Validate) {
	api := feeApi{svc: svc, validate: validate}

	g.GET("/summary", api.summary, roleMiddleware(adminPrincipal...))
	g.GET("/overdue", api.listOverdue, roleMiddleware(adminPrincipal...))
	g.GET("", api.query, roleMiddleware(adminOnly...))
	g.POST("", api.create, roleMiddleware(adminOnly...))
	g.GET("/student/:studentId", api.listByStudent, roleMiddleware(adminOnly...))
	g.GET("/:id/receipt", api.receipt, roleMiddleware(adminOnly...))
	g.PUT("/:id", api.recordPayment, roleMiddleware(adminOnly...))
}

func (api *feeApi) summary(ctx echo.Context) error {
	var filter fee.SummaryFilter
	if err := bind(ctx, &filter, api.validate); err != nil {
		return err
	}

	summary, err := api.svc.Summary(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "summarizing fees")
	}
	return ok(ctx, summary)
}

func (api *feeApi) listOverdue(ctx echo.Context) error {
	fees, err := api.svc.ListOverdue(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing overdue fees")
	}
	return ok(ctx, fees)
}

func (api *feeApi) query(ctx echo.Context) error {
	p := bindPagination(ctx)
	var filter fee.QueryFilter
	if err := bind(ctx, &filter, api.validate); err != nil {
		return err
	}

	fees, total, err := api.svc.Query(ctx.Request().Context(), filter, p)
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	return okPage(ctx, fees, p, total)
}

func (api *feeApi) listByStudent(ctx echo.Context) error {
	fees, err := api.svc.ListByStudent(ctx.Request().Context(), ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "listing student fees")
	}
	return ok(ctx, fees)
}

func (api *feeApi) receipt(ctx echo.Context) error {
	rcpt, err := api.svc.Receipt(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ok(ctx, rcpt)
}

func (api *feeApi) create(ctx echo.Context) error {
	var data fee.NewFee
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	f, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return created(ctx, f)
}

func (api *feeApi) recordPayment(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data fee.Payment
	if err = bind(ctx, &data, api.validate); err != nil {
		return err
	}

	f, err := api.svc.RecordPayment(ctx.Request().Context(), ctx.Param("id"), data, claims.UserID)
	if err != nil {
		return err
	}
	return ok(ctx, f)
}
