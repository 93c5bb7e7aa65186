package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/educore/core/lessonplan"
)

type lessonPlanApi struct {
	svc      *lessonplan.Service
	validate *validator.Validate
}

func registerLessonPlanAPI(g *echo.Group, svc *lessonplan.Service, validate *validator.Validate) {
	api := lessonPlanApi{svc: svc, validate: validate}

	g.GET("", api.query, roleMiddleware(teacherHODPrincipal...))
	g.POST("", api.create, roleMiddleware(teacherOnly...))
	g.GET("/pending-count", api.countPending, roleMiddleware(hodOnly...))
	g.GET("/:id", api.retrieve, roleMiddleware(teacherHODPrincipal...))
	g.PUT("/:id", api.update, roleMiddleware(teacherOnly...))
	g.PATCH("/:id/approve", api.approve, roleMiddleware(hodOnly...))
	g.PATCH("/:id/reject", api.reject, roleMiddleware(hodOnly...))
}

type pendingCount struct {
	Count int `json:"count"`
}

func (api *lessonPlanApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	p := bindPagination(ctx)
	filter := lessonplan.QueryFilter{Status: ctx.QueryParam("status")}
	if err = filter.Validate(api.validate); err != nil {
		return err
	}

	plans, total, err := api.svc.Query(ctx.Request().Context(), claims, filter, p)
	if err != nil {
		return err
	}
	return okPage(ctx, plans, p, total)
}

func (api *lessonPlanApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	plan, err := api.svc.Get(ctx.Request().Context(), claims, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ok(ctx, plan)
}

func (api *lessonPlanApi) countPending(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	count, err := api.svc.CountPending(ctx.Request().Context(), claims)
	if err != nil {
		return err
	}
	return ok(ctx, pendingCount{Count: count})
}

func (api *lessonPlanApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data lessonplan.NewPlan
	if err = bind(ctx, &data, api.validate); err != nil {
		return err
	}

	plan, err := api.svc.Create(ctx.Request().Context(), claims, data)
	if err != nil {
		return err
	}
	return created(ctx, plan)
}

func (api *lessonPlanApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data lessonplan.UpdatePlan
	if err = bind(ctx, &data, api.validate); err != nil {
		return err
	}

	plan, err := api.svc.Update(ctx.Request().Context(), claims, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ok(ctx, plan)
}

func (api *lessonPlanApi) approve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	plan, err := api.svc.Approve(ctx.Request().Context(), claims, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ok(ctx, plan)
}

func (api *lessonPlanApi) reject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data lessonplan.Rejection
	if err = bind(ctx, &data, api.validate); err != nil {
		return err
	}

	plan, err := api.svc.Reject(ctx.Request().Context(), claims, ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ok(ctx, plan)
}
