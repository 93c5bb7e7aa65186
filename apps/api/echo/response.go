package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/educore/core"
)

// response is the envelope of every API response.
type response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Meta    *core.PageMeta    `json:"meta,omitempty"`
	Count   *int              `json:"count,omitempty"`
}

func ok(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusOK, response{Success: true, Data: data})
}

func created(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusCreated, response{Success: true, Data: data})
}

func okMessage(ctx echo.Context, msg string, data ...interface{}) error {
	resp := response{Success: true, Message: msg}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	return ctx.JSON(http.StatusOK, resp)
}

func okPage(ctx echo.Context, data interface{}, p core.Pagination, total int) error {
	meta := core.NewPageMeta(p, total)
	return ctx.JSON(http.StatusOK, response{Success: true, Data: data, Meta: &meta})
}

func okCount(ctx echo.Context, data interface{}, count int) error {
	return ctx.JSON(http.StatusOK, response{Success: true, Data: data, Count: &count})
}
