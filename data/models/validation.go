package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// digitsRegexp matches strings made of ASCII digits only.
var digitsRegexp = regexp.MustCompile(`^\d+$`)

// earliestEventDate is the first day the date picker allows.
var earliestEventDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// now is swapped in tests.
var now = time.Now

// go-playground/validator suggests using a single instance of the validator.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their JSON name, the name the form knows them by
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("digits", isDigits); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("eventdate", isEventDate); err != nil {
		panic(err)
	}
	return v
}

func isDigits(fl validator.FieldLevel) bool {
	return digitsRegexp.MatchString(fl.Field().String())
}

// isEventDate accepts YYYY-MM-DD dates between 1900-01-01 and today, both inclusive.
func isEventDate(fl validator.FieldLevel) bool {
	d, err := time.Parse(InputDateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	t := now()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(earliestEventDate) && !d.After(today)
}

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, fe[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// ValidateForm checks every field of the form at once and returns one error
// per failing field, or nil when the form can be submitted.
func ValidateForm(f AttendanceForm) FieldErrors {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}

	fe := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		if _, seen := fe[e.Field()]; seen {
			continue
		}
		fe[e.Field()] = fieldMessage(e.Tag())
	}
	return fe
}

func fieldMessage(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "digits":
		return "must contain only digits"
	case "eventdate":
		return "must be a valid date between 1900-01-01 and today"
	default:
		return "invalid value"
	}
}
