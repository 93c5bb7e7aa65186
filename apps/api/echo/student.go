package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/attendance"
	"github.com/trezcool/educore/core/student"
)

type studentApi struct {
	svc      *student.Service
	attSvc   *attendance.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc *student.Service, attSvc *attendance.Service, validate *validator.Validate) {
	api := studentApi{svc: svc, attSvc: attSvc, validate: validate}

	g.GET("", api.query, roleMiddleware(adminPrincipalHOD...))
	g.POST("", api.create, roleMiddleware(adminOnly...))
	g.GET("/class/:classId", api.listByClass, roleMiddleware(adminHODTeacher...))
	g.GET("/:id", api.retrieve, roleMiddleware(allRoles...))
	g.PUT("/:id", api.update, roleMiddleware(adminOnly...))
}

type studentDetail struct {
	student.Student
	Attendance attendance.Summary `json:"attendance"`
}

func (api *studentApi) query(ctx echo.Context) error {
	p := bindPagination(ctx)
	var filter student.QueryFilter
	if err := bind(ctx, &filter, api.validate); err != nil {
		return err
	}

	students, total, err := api.svc.Query(ctx.Request().Context(), filter, p)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return okPage(ctx, students, p, total)
}

func (api *studentApi) listByClass(ctx echo.Context) error {
	students, err := api.svc.ListByClass(ctx.Request().Context(), ctx.Param("classId"))
	if err != nil {
		return errors.Wrap(err, "listing class students")
	}
	return ok(ctx, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	std, err := api.svc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		return err
	}
	att, err := api.attSvc.ForStudent(reqCtx, std.ID, attendance.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "summarizing attendance")
	}
	return ok(ctx, studentDetail{Student: std, Attendance: att.Summary})
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return created(ctx, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := bind(ctx, &data, api.validate); err != nil {
		return err
	}

	std, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ok(ctx, std)
}
