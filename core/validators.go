package core

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const DateLayout = "2006-01-02"

var (
	// custom validation tags & texts
	isoDateTag   = "isodate"
	isoDateText  = "{0} must be a date in YYYY-MM-DD format"
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	clockTag   = "hhmm"
	clockText  = "{0} must be a time in HH:MM format"
	clockRegex = regexp.MustCompile(`^\d{2}:\d{2}$`)

	academicYearTag   = "acadyear"
	academicYearText  = "{0} must look like 2024-25"
	academicYearRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(isoDateTag, isoDateValidation)
	RegisterCustomTranslation(validate, translator, isoDateTag, isoDateText)

	_ = validate.RegisterValidation(clockTag, clockValidation)
	RegisterCustomTranslation(validate, translator, clockTag, clockText)

	_ = validate.RegisterValidation(academicYearTag, academicYearValidation)
	RegisterCustomTranslation(validate, translator, academicYearTag, academicYearText)

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// FieldErrors flattens validator errors into a map keyed by the JSON path of each field,
// e.g. "records[1].student_id".
func FieldErrors(errs validator.ValidationErrors, translator ut.Translator) map[string]string {
	fldErrs := make(map[string]string, len(errs))
	for _, fe := range errs {
		key := fe.Namespace()
		if i := strings.IndexByte(key, '.'); i >= 0 {
			key = key[i+1:] // drop the root struct name
		}
		fldErrs[key] = fe.Translate(translator)
	}
	return fldErrs
}

// Custom Global Validators

func isoDateValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !isoDateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func clockValidation(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !clockRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func academicYearValidation(fl validator.FieldLevel) bool {
	return academicYearRegex.MatchString(fl.Field().String())
}

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
