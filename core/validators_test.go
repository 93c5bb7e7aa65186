package core

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Date   string   `json:"date" validate:"required,isodate"`
	Start  string   `json:"start_time" validate:"omitempty,hhmm"`
	Year   string   `json:"academic_year" validate:"omitempty,acadyear"`
	Topic  string   `json:"topic" validate:"omitempty,notblank"`
	Tags   []string `json:"tags" validate:"omitempty,dive,notblank"`
	Secret string   `json:"-" validate:"omitempty,min=3"`
}

func newValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	english := en.New()
	translator, found := ut.New(english, english).GetTranslator("en")
	require.True(t, found)
	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
}

func TestValidators(t *testing.T) {
	validate, translator := newValidator(t)

	tests := []struct {
		name      string
		data      sample
		wantField string
		wantMsg   string
	}{
		{name: "valid", data: sample{Date: "2024-02-29", Start: "08:05", Year: "2024-25", Topic: "x", Tags: []string{"a"}}},
		{name: "missing date", data: sample{}, wantField: "date", wantMsg: "date is required"},
		{name: "impossible date", data: sample{Date: "2023-02-29"}, wantField: "date", wantMsg: "date must be a date in YYYY-MM-DD format"},
		{name: "datetime is not a date", data: sample{Date: "2024-01-01T00:00:00Z"}, wantField: "date"},
		{name: "clock out of range", data: sample{Date: "2024-01-01", Start: "24:00"}, wantField: "start_time", wantMsg: "start_time must be a time in HH:MM format"},
		{name: "clock without padding", data: sample{Date: "2024-01-01", Start: "8:00"}, wantField: "start_time"},
		{name: "long academic year", data: sample{Date: "2024-01-01", Year: "2024-2025"}, wantField: "academic_year", wantMsg: "academic_year must look like 2024-25"},
		{name: "blank topic", data: sample{Date: "2024-01-01", Topic: "   "}, wantField: "topic", wantMsg: "topic must not be blank"},
		{name: "blank tag", data: sample{Date: "2024-01-01", Tags: []string{"a", " "}}, wantField: "tags[1]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validate.Struct(tc.data)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := FieldErrors(verrs, translator)
			require.Contains(t, fields, tc.wantField)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, fields[tc.wantField])
			}
		})
	}
}

func TestStringList(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["Maths","Physics"]`)))
	assert.True(t, l.Contains("Physics"))
	assert.False(t, l.Contains("physics"))

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)
	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("not json"))
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: `12.5`, want: 12.5},
		{in: `"250.50"`, want: 250.5},
		{in: `" 7 "`, want: 7},
		{in: `null`, want: 0},
		{in: `"abc"`, wantErr: true},
		{in: `true`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var n Number
			err := n.UnmarshalJSON([]byte(tc.in))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, n.Float64())
		})
	}
}

func TestPagination(t *testing.T) {
	p := Pagination{Page: 0, Limit: 500}
	p.Clean()
	assert.Equal(t, Pagination{Page: 1, Limit: MaxPageLimit}, p)

	p = Pagination{Page: 3}
	p.Clean()
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, 40, p.Offset())

	meta := NewPageMeta(Pagination{Page: 2, Limit: 20}, 41)
	assert.Equal(t, PageMeta{Page: 2, Limit: 20, Total: 41, TotalPages: 3}, meta)
	assert.Equal(t, 0, NewPageMeta(Pagination{Page: 1, Limit: 20}, 0).TotalPages)
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Ada", CleanString("  Ada \n"))
	assert.Equal(t, "ada@school.test", CleanString(" Ada@School.test ", true))
	assert.Nil(t, CleanStringPtr(nil))
	s := " x "
	assert.Equal(t, "x", *CleanStringPtr(&s))
}
