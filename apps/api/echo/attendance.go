package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core/attendance"
)

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service, validate *validator.Validate) {
	api := attendanceApi{svc: svc, validate: validate}

	g.GET("/student/:studentId", api.forStudent, roleMiddleware(teacherHODPrincipal...))
	g.GET("/class/:classId/date/:date", api.forClassDate, roleMiddleware(teacherOnly...))
	g.POST("/bulk", api.mark, roleMiddleware(teacherOnly...))
}

func (api *attendanceApi) forStudent(ctx echo.Context) error {
	var filter attendance.QueryFilter
	if err := bind(ctx, &filter, api.validate); err != nil {
		return err
	}

	att, err := api.svc.ForStudent(ctx.Request().Context(), ctx.Param("studentId"), filter)
	if err != nil {
		return errors.Wrap(err, "querying student attendance")
	}
	return ok(ctx, att)
}

func (api *attendanceApi) forClassDate(ctx echo.Context) error {
	records, err := api.svc.ForClassDate(ctx.Request().Context(), ctx.Param("classId"), ctx.Param("date"))
	if err != nil {
		return err
	}
	return ok(ctx, records)
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	var data attendance.BulkMark
	if err = bind(ctx, &data, api.validate); err != nil {
		return err
	}

	records, err := api.svc.Mark(ctx.Request().Context(), data, claims.UserID)
	if err != nil {
		return err
	}
	return okCount(ctx, records, len(records))
}
