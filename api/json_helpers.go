package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"attendance-app/data/models"
)

type successJSON struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

type errorJSON struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type validationJSON struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Errors  models.FieldErrors `json:"errors"`
}

func marshalAndSend(w http.ResponseWriter, jsonRes interface{}, statusCode int) error {
	switch jsonRes.(type) {
	case successJSON, errorJSON, validationJSON:
		payload, err := json.Marshal(jsonRes)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		_, err = w.Write(payload)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported type: %T", jsonRes)
	}
	return nil
}

func (app *application) SendSuccessJSON(w http.ResponseWriter, statusCode int, data interface{}, wrap ...string) error {
	jsonRes := successJSON{
		Status: "success",
	}

	if len(wrap) > 0 {
		jsonRes.Data = map[string]interface{}{wrap[0]: data}
	} else {
		jsonRes.Data = data
	}

	return marshalAndSend(w, jsonRes, statusCode)
}

// SendErrorJSON writes err as a fail (4xx) or error (5xx) response. An
// optional data value is sent alongside the message.
func (app *application) SendErrorJSON(w http.ResponseWriter, statusCode int, err error, data ...interface{}) error {
	jsonRes := errorJSON{}
	if statusCode >= 500 {
		jsonRes.Status = "error"
	} else {
		jsonRes.Status = "fail"
	}

	jsonRes.Message = err.Error()
	if len(data) > 0 {
		jsonRes.Data = data[0]
	}

	return marshalAndSend(w, jsonRes, statusCode)
}

// SendValidationJSON writes the field errors of a rejected form.
func (app *application) SendValidationJSON(w http.ResponseWriter, fe models.FieldErrors) error {
	return marshalAndSend(w, validationJSON{
		Status:  "fail",
		Message: "validation failed",
		Errors:  fe,
	}, http.StatusUnprocessableEntity)
}

func (app *application) ReadJSON(w http.ResponseWriter, r *http.Request, data interface{}) error {
	maxBytes := 1024 * 1024 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(data)
	if err != nil {
		return err
	}

	// make sure only one JSON value in payload
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}
