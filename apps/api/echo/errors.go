package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
	"github.com/trezcool/educore/core/auth"
)

const (
	msgValidation     = "Validation error"
	msgRouteNotFound  = "Route not found"
	msgInternal       = "Internal server error"
	msgTooManyRequest = "Too many requests, please try again later."
)

var (
	errNoToken      = echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	errInvalidToken = echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")

	errTooManyRequests = echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyRequest)
)

func errForbiddenRoles(roles []auth.Role) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusForbidden, "Access denied. Required role(s): "+auth.JoinRoles(roles))
}

var domainErrorCodes = map[core.DomainErrorKind]int{
	core.KindNotFound:        http.StatusNotFound,
	core.KindInvalid:         http.StatusBadRequest,
	core.KindUnauthenticated: http.StatusUnauthorized,
	core.KindForbidden:       http.StatusForbidden,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that renders every error in the response envelope.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, production bool, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if err == nil {
			return
		}
		code := http.StatusInternalServerError
		resp := response{Success: false}

		switch origErr := errors.Cause(err).(type) {
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			resp.Message = msgValidation
			resp.Errors = core.FieldErrors(origErr, translator)
		case *core.ValidationError:
			code = http.StatusBadRequest
			resp.Errors = make(map[string]string, len(origErr.Fields))
			if verrs, ok := origErr.Err.(validator.ValidationErrors); ok {
				resp.Errors = core.FieldErrors(verrs, translator)
			}
			for _, fErr := range origErr.Fields {
				resp.Errors[fErr.Field] = fErr.Error
			}
			if len(resp.Errors) > 0 {
				resp.Message = msgValidation
			} else {
				resp.Errors = nil
				resp.Message = origErr.Error()
			}
		case *core.DomainError:
			code = domainErrorCodes[origErr.Kind]
			resp.Message = origErr.Message
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			switch code {
			case http.StatusNotFound:
				resp.Message = msgRouteNotFound
			default:
				resp.Message = fmt.Sprint(origErr.Message)
			}
		default: // any other error is a server error
			resp.Message = msgInternal
			if !production {
				resp.Message = err.Error()
			}

			args := []interface{}{errors.Wrap(err, msgInternal), map[string]interface{}{
				"method": ctx.Request().Method,
				"path":   ctx.Request().URL.Path,
			}}
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				args = append(args, claims)
			}
			logger.Error(msgInternal, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				logger.Error("sending error response", err)
			}
		}
	}
}
