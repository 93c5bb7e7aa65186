package echoapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/educore/core"
)

var errMalformedBody = errors.New("Malformed JSON body")

type validatable interface {
	Validate(validate *validator.Validate) error
}

// bind decodes the request into data, then validates it.
// A value of the wrong type is reported alongside every other violation found on the rest of the body.
func bind(ctx echo.Context, data validatable, validate *validator.Validate) error {
	typeErr, err := decode(ctx, data)
	if err != nil {
		return err
	}
	verr := data.Validate(validate)
	if typeErr == nil {
		return verr
	}

	merged := &core.ValidationError{}
	switch cause := errors.Cause(verr).(type) {
	case nil:
	case validator.ValidationErrors:
		merged.Err = cause
	case *core.ValidationError:
		merged.Fields = append(merged.Fields, cause.Fields...)
	default:
		return verr
	}
	// appended last: it wins over a rule failing on the zero value left behind
	merged.Fields = append(merged.Fields, *typeErr)
	return merged
}

// decode binds the request. A type mismatch is returned as a field error; any other failure as err.
func decode(ctx echo.Context, data interface{}) (*core.FieldError, error) {
	err := ctx.Bind(data)
	if err == nil {
		return nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &core.FieldError{
			Field: field,
			Error: fmt.Sprintf("%s must be of type %s", lastSegment(field), jsonTypeName(typeErr.Type.Kind().String())),
		}, nil
	}
	var bindErr *echo.BindingError
	if errors.As(err, &bindErr) {
		return &core.FieldError{
			Field: bindErr.Field,
			Error: fmt.Sprintf("%s is invalid", bindErr.Field),
		}, nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return nil, core.NewValidationError(errMalformedBody)
	}
	if he, ok := err.(*echo.HTTPError); ok && he.Code < 500 {
		return nil, core.NewValidationError(errors.New(fmt.Sprint(he.Message)))
	}
	return nil, errors.Wrap(err, "binding request")
}

// bindPagination reads the `page` & `limit` query params, applying the defaults & the limit cap.
// Values that are not numbers fall back to the defaults.
func bindPagination(ctx echo.Context) core.Pagination {
	var p core.Pagination
	_ = echo.QueryParamsBinder(ctx).
		FailFast(false).
		Int("page", &p.Page).
		Int("limit", &p.Limit).
		BindErrors()
	p.Clean()
	return p
}

func lastSegment(field string) string {
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		return field[i+1:]
	}
	return field
}

func jsonTypeName(kind string) string {
	switch {
	case strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint"), strings.HasPrefix(kind, "float"):
		return "number"
	case kind == "bool":
		return "boolean"
	case kind == "slice", kind == "array":
		return "array"
	case kind == "struct", kind == "map":
		return "object"
	default:
		return kind
	}
}
