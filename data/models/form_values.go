package models

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// FormValue is one text part of a multipart form.
type FormValue struct {
	Name  string
	Value string
}

// GetFormValues returns the text parts of a form, in field declaration order,
// named after each field's form tag. Embedded structs are flattened. Fields
// tagged with the file option are left to the caller; fields tagged with the
// date option are converted from InputDateLayout to FormDateLayout.
func GetFormValues(form interface{}) ([]FormValue, error) {
	val := structValue(form)
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %T", form)
	}
	return appendFormValues(nil, val)
}

func appendFormValues(values []FormValue, val reflect.Value) ([]FormValue, error) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			var err error
			if values, err = appendFormValues(values, val.Field(i)); err != nil {
				return nil, err
			}
			continue
		}

		tag := field.Tag.Get("form")
		if tag == "" || tag == "-" {
			continue
		}
		name, option, _ := strings.Cut(tag, ",")

		switch option {
		case "file":
			continue
		case "date":
			d, err := time.Parse(InputDateLayout, val.Field(i).String())
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			values = append(values, FormValue{Name: name, Value: d.Format(FormDateLayout)})
		default:
			values = append(values, FormValue{Name: name, Value: fmt.Sprint(val.Field(i).Interface())})
		}
	}
	return values, nil
}
