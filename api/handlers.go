package main

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"attendance-app/data/attachments"
	"attendance-app/data/form"
	"attendance-app/data/models"
	"attendance-app/data/repository"
)

// multipart overhead allowed on top of the file limit
const multipartSlack = 1 << 20

var errJournalDisabled = errors.New("submission journal is not configured")

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	_ = app.SendSuccessJSON(w, http.StatusOK, "ok")
}

// formFromRequest resolves the {id} path value, writing a 404 when the form
// does not exist.
func (app *application) formFromRequest(w http.ResponseWriter, r *http.Request) (*form.Controller, bool) {
	ctrl, err := app.Forms.Get(r.PathValue("id"))
	if err != nil {
		_ = app.SendErrorJSON(w, http.StatusNotFound, err)
		return nil, false
	}
	return ctrl, true
}

func (app *application) openForm(w http.ResponseWriter, r *http.Request) {
	ctrl := app.Forms.Open()
	slog.InfoContext(r.Context(), "form opened", "form_id", ctrl.ID())
	_ = app.SendSuccessJSON(w, http.StatusCreated, ctrl.Snapshot(), "form")
}

func (app *application) getForm(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := app.formFromRequest(w, r)
	if !ok {
		return
	}
	_ = app.SendSuccessJSON(w, http.StatusOK, ctrl.Snapshot(), "form")
}

func (app *application) discardForm(w http.ResponseWriter, r *http.Request) {
	if err := app.Forms.Discard(r.PathValue("id")); err != nil {
		_ = app.SendErrorJSON(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) resetForm(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := app.formFromRequest(w, r)
	if !ok {
		return
	}
	ctrl.Reset()
	_ = app.SendSuccessJSON(w, http.StatusOK, ctrl.Snapshot(), "form")
}

func (app *application) addAttachment(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := app.formFromRequest(w, r)
	if !ok {
		return
	}
	ctx := appendCtx(r.Context(), slog.String("form_id", ctrl.ID()))

	r.Body = http.MaxBytesReader(w, r.Body, app.Config.MaxUploadBytes+multipartSlack)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			_ = app.SendErrorJSON(w, http.StatusRequestEntityTooLarge, attachments.ErrFileTooLarge)
			return
		}
		_ = app.SendErrorJSON(w, http.StatusBadRequest, fmt.Errorf("missing file part: %w", err))
		return
	}
	defer file.Close()

	sheet, err := attachments.ReadSheet(header.Filename, header.Header.Get("Content-Type"), file, app.Config.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, attachments.ErrFileTooLarge) {
			_ = app.SendErrorJSON(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		slog.WarnContext(ctx, "rejected attachment", "file", header.Filename, "error", err)
		_ = app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}

	entry := ctrl.AddAttachment(sheet.File, sheet)
	slog.InfoContext(ctx, "attachment added",
		"file", sheet.File.Name,
		"size", sheet.File.Size,
		"columns", len(sheet.Columns),
		"rows", len(sheet.Rows),
	)

	_ = app.SendSuccessJSON(w, http.StatusCreated, map[string]interface{}{
		"entry":       entry,
		"attachments": ctrl.Snapshot().Attachments,
	})
}

func (app *application) getAttachment(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := app.formFromRequest(w, r)
	if !ok {
		return
	}

	f, ok := ctrl.Attachment(r.PathValue("key"))
	if !ok {
		_ = app.SendErrorJSON(w, http.StatusNotFound, errors.New("attachment not found"))
		return
	}

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": f.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

func (app *application) removeAttachment(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := app.formFromRequest(w, r)
	if !ok {
		return
	}

	entries := ctrl.RemoveAttachment(r.PathValue("key"))
	_ = app.SendSuccessJSON(w, http.StatusOK, entries, "attachments")
}

func (app *application) submitForm(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := app.formFromRequest(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var fields models.AttendanceFields
	if err := app.ReadJSON(w, r, &fields); err != nil {
		_ = app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}
	fb := &feedback{}
	err := ctrl.SubmitFields(ctx, fields, fb, fb)

	var fe models.FieldErrors
	var transportErr *form.TransportError
	switch {
	case err == nil:
		_ = app.SendSuccessJSON(w, http.StatusOK, fb)
	case errors.As(err, &fe):
		_ = app.SendValidationJSON(w, fe)
	case errors.Is(err, form.ErrSubmitInProgress):
		_ = app.SendErrorJSON(w, http.StatusConflict, err)
	case errors.As(err, &transportErr):
		// the cause stays in the logs, the user gets the notification text
		_ = app.SendErrorJSON(w, http.StatusBadGateway, errors.New(fb.Notification.Description), fb)
	default:
		slog.ErrorContext(ctx, "unexpected submit error", "form_id", ctrl.ID(), "error", err)
		_ = app.SendErrorJSON(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (app *application) listSubmissions(w http.ResponseWriter, r *http.Request) {
	if app.Repo == nil {
		_ = app.SendErrorJSON(w, http.StatusServiceUnavailable, errJournalDisabled)
		return
	}

	params := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	subs, err := app.Repo.ListSubmissions(params)
	if errors.Is(err, repository.ErrInvalidQuery) {
		_ = app.SendErrorJSON(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list submissions", "error", err)
		_ = app.SendErrorJSON(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	_ = app.SendSuccessJSON(w, http.StatusOK, subs, "submissions")
}

func (app *application) getSubmission(w http.ResponseWriter, r *http.Request) {
	if app.Repo == nil {
		_ = app.SendErrorJSON(w, http.StatusServiceUnavailable, errJournalDisabled)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		_ = app.SendErrorJSON(w, http.StatusBadRequest, errors.New("invalid submission id"))
		return
	}

	s, err := app.Repo.GetSubmissionByID(id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		_ = app.SendErrorJSON(w, http.StatusNotFound, err)
	case err != nil:
		slog.ErrorContext(r.Context(), "failed to read submission", "submission_id", id, "error", err)
		_ = app.SendErrorJSON(w, http.StatusInternalServerError, errors.New("internal error"))
	default:
		_ = app.SendSuccessJSON(w, http.StatusOK, s, "submission")
	}
}
