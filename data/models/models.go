package models

import (
	"fmt"
	"reflect"
)

// Model is a row of a journal table.
type Model interface {
	TableName() string
	GetID() int64
	EmptySlice() interface{}
}

// RowScanner is satisfied by both *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// ValidateModel validates a model using the go-playground/validator package. It
// returns an error if the provided argument does not implement the Model
// interface.
func ValidateModel(model interface{}) error {
	m, ok := model.(Model)
	if !ok {
		return fmt.Errorf("expected model, got %T", model)
	}

	if err := validate.Struct(m); err != nil {
		return err
	}
	return nil
}

// GetValsFromModel returns the writable field values of a model, in the order
// of its writable column names. Validate the model before writing it.
func GetValsFromModel(m Model) []interface{} {
	val := structValue(m)
	typ := val.Type()

	vals := make([]interface{}, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Tag.Get("readOnly") == "true" {
			continue
		}
		vals = append(vals, val.Field(i).Interface())
	}
	return vals
}

// ScanRowToModel scans a single row into a model passed as a pointer. Columns
// must come back in the order the model's fields are declared.
func ScanRowToModel(m Model, r RowScanner) error {
	val := reflect.ValueOf(m)
	if val.Kind() != reflect.Ptr {
		return fmt.Errorf("expected pointer to model, got %T", m)
	}

	if err := r.Scan(fieldPointers(val.Elem())...); err != nil {
		return err
	}
	return nil
}

// Rows is the subset of *sql.Rows needed to collect a result set.
type Rows interface {
	RowScanner
	Next() bool
	Err() error
}

// ScanRowsToSliceOfModels collects every row into a new slice of the model's
// type, returned as a pointer to that slice.
func ScanRowsToSliceOfModels(m Model, rows Rows, expectedRows int) (interface{}, error) {
	// EmptySlice gives a pointer to an empty slice of the model type
	modelsSlice := m.EmptySlice()

	sliceVal := reflect.ValueOf(modelsSlice).Elem()
	if sliceVal.Kind() != reflect.Slice {
		return nil, fmt.Errorf("expected slice, got %s", sliceVal.Kind())
	}
	elemType := sliceVal.Type().Elem()

	sliceVal.Set(reflect.MakeSlice(sliceVal.Type(), 0, determineInitialCapacity(expectedRows)))

	for rows.Next() {
		model := reflect.New(elemType).Elem()
		if err := rows.Scan(fieldPointers(model)...); err != nil {
			return nil, err
		}
		sliceVal.Set(reflect.Append(sliceVal, model))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return modelsSlice, nil
}

// GetColumnNames returns the model's column names in declaration order.
func GetColumnNames(m Model, excludeReadOnlyFields bool) []string {
	typ := structValue(m).Type()

	var columnNames []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if excludeReadOnlyFields && field.Tag.Get("readOnly") == "true" {
			continue
		}
		columnNames = append(columnNames, field.Tag.Get("db"))
	}
	return columnNames
}

// MapJsonTagsToDB returns a map of the model's field tags where key is JSON and value is DB
func MapJsonTagsToDB(m Model) map[string]string {
	typ := structValue(m).Type()

	tagMap := make(map[string]string, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tagMap[field.Tag.Get("json")] = field.Tag.Get("db")
	}
	return tagMap
}

func structValue(m interface{}) reflect.Value {
	val := reflect.ValueOf(m)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	return val
}

func fieldPointers(val reflect.Value) []interface{} {
	ptrs := make([]interface{}, val.NumField())
	for i := range ptrs {
		ptrs[i] = val.Field(i).Addr().Interface()
	}
	return ptrs
}

// determineInitialCapacity guesses a slice capacity from the expected number
// of rows (usually the limit of the listing query).
func determineInitialCapacity(expectedRows int) int {
	switch {
	case expectedRows <= 10:
		return 10
	case expectedRows <= 25:
		return 20
	case expectedRows <= 50:
		return 35
	case expectedRows <= 100:
		return 75
	case expectedRows <= 200:
		return 150
	default:
		return 200
	}
}
