package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validForm() AttendanceForm {
	return AttendanceForm{
		AttendanceFields: AttendanceFields{
			Title:                 "Semana de Computação",
			Date:                  "2024-03-05",
			Location:              "Universidade Federal Fluminense",
			AdditionalHours:       "5",
			SpeakerRegistration:   "1234",
			OrganizerRegistration: "0042",
		},
		File: &Attachment{Name: "presenca.csv", ContentType: "text/csv", Data: []byte("nome\nAna\n")},
	}
}

func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestValidateForm_Valid(t *testing.T) {
	assert.Nil(t, ValidateForm(validForm()))
}

func TestValidateForm_DigitFields(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "single digit", value: "5", valid: true},
		{name: "leading zeros", value: "000123", valid: true},
		{name: "long number", value: "20241234567890", valid: true},
		{name: "empty", value: "", valid: false},
		{name: "negative", value: "-1", valid: false},
		{name: "decimal", value: "1.5", valid: false},
		{name: "letters", value: "12a", valid: false},
		{name: "space", value: "1 2", valid: false},
		{name: "trailing newline", value: "12\n", valid: false},
		{name: "non ascii digit", value: "١٢", valid: false},
	}

	setters := map[string]func(*AttendanceForm, string){
		"additionalHours":       func(f *AttendanceForm, v string) { f.AdditionalHours = v },
		"speakerRegistration":   func(f *AttendanceForm, v string) { f.SpeakerRegistration = v },
		"organizerRegistration": func(f *AttendanceForm, v string) { f.OrganizerRegistration = v },
	}

	for field, set := range setters {
		for _, tt := range tests {
			t.Run(field+"/"+tt.name, func(t *testing.T) {
				f := validForm()
				set(&f, tt.value)

				errs := ValidateForm(f)
				if tt.valid {
					assert.Nil(t, errs)
					return
				}
				assert.Equal(t, FieldErrors{field: "must contain only digits"}, errs)
			})
		}
	}
}

func TestValidateForm_Date(t *testing.T) {
	freezeNow(t, time.Date(2026, time.October, 17, 15, 0, 0, 0, time.UTC))

	tests := []struct {
		name  string
		date  string
		error string
	}{
		{name: "lower bound", date: "1900-01-01"},
		{name: "today", date: "2026-10-17"},
		{name: "before lower bound", date: "1899-12-31", error: "must be a valid date between 1900-01-01 and today"},
		{name: "tomorrow", date: "2026-10-18", error: "must be a valid date between 1900-01-01 and today"},
		{name: "not a date", date: "2024-02-30", error: "must be a valid date between 1900-01-01 and today"},
		{name: "wrong layout", date: "03/05/2024", error: "must be a valid date between 1900-01-01 and today"},
		{name: "missing", date: "", error: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			f.Date = tt.date

			errs := ValidateForm(f)
			if tt.error == "" {
				assert.Nil(t, errs)
			} else {
				assert.Equal(t, FieldErrors{"date": tt.error}, errs)
			}
		})
	}
}

func TestValidateForm_AllFieldsMissing(t *testing.T) {
	errs := ValidateForm(AttendanceForm{})

	assert.Equal(t, FieldErrors{
		"title":                 "required",
		"date":                  "required",
		"location":              "required",
		"additionalHours":       "must contain only digits",
		"speakerRegistration":   "must contain only digits",
		"organizerRegistration": "must contain only digits",
		"file":                  "required",
	}, errs)
}

func TestValidateForm_AnyFileAccepted(t *testing.T) {
	f := validForm()
	f.File = &Attachment{}
	assert.Nil(t, ValidateForm(f))
}

func TestValidateForm_Idempotent(t *testing.T) {
	f := validForm()
	f.Title = ""
	f.SpeakerRegistration = "abc"

	first := ValidateForm(f)
	second := ValidateForm(f)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{"title": "required", "date": "required"}
	assert.EqualError(t, fe, "invalid form: date: required; title: required")
}
