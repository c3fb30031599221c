package form

import (
	"context"
	"errors"
	"log/slog"

	"attendance-app/data/models"
	"attendance-app/data/remote"
)

// Variant is the severity of a notification.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is the feedback shown to the user after a submit.
type Notification struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

var (
	savedNotification = Notification{
		Variant:     VariantDefault,
		Title:       "Sucesso!",
		Description: "Evento salvo!",
	}
	failedNotification = Notification{
		Variant:     VariantDestructive,
		Title:       "Uh oh! Algo deu errado.",
		Description: "Houve um problema com sua solicitação.",
	}
)

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// Navigator moves the user between views.
type Navigator interface {
	Push(path string)
	Refresh()
}

// Submit validates the form and, when it is valid, saves it on the events
// API. Invalid forms return their models.FieldErrors without any request.
// A failed request notifies the user and returns a *TransportError. A saved
// form notifies the user, refreshes the view and navigates to the dashboard.
// The form is idle again when Submit returns.
func (c *Controller) Submit(ctx context.Context, notifier Notifier, nav Navigator) error {
	return c.submit(ctx, nil, notifier, nav)
}

// SubmitFields replaces the text values and submits them in one step. A
// rejected submit with ErrSubmitInProgress leaves the form untouched.
func (c *Controller) SubmitFields(ctx context.Context, fields models.AttendanceFields, notifier Notifier, nav Navigator) error {
	return c.submit(ctx, &fields, notifier, nav)
}

func (c *Controller) submit(ctx context.Context, fields *models.AttendanceFields, notifier Notifier, nav Navigator) error {
	values, err := c.beginSubmit(fields)
	if err != nil {
		return err
	}
	defer c.endSubmit()

	logger := slog.With("form_id", c.id)
	journalID := c.recordPending(ctx, logger, values)

	res, err := c.deps.API.SaveAttendance(ctx, values)
	if err == nil && !res.OK() {
		err = remote.ErrCreation
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to save attendance", "error", err)
		c.finishJournal(ctx, logger, journalID, models.SubmissionFailed, statusOf(res, err))
		notifier.Notify(failedNotification)
		return &TransportError{Err: err}
	}

	logger.InfoContext(ctx, "attendance saved", "status", res.StatusCode, "title", values.Title)
	c.finishJournal(ctx, logger, journalID, models.SubmissionSuccess, res.StatusCode)
	notifier.Notify(savedNotification)
	nav.Refresh()
	nav.Push(DashboardPath)
	return nil
}

func (c *Controller) beginSubmit(fields *models.AttendanceFields) (models.AttendanceForm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Submitting {
		return models.AttendanceForm{}, ErrSubmitInProgress
	}
	if fields != nil {
		c.fields = *fields
	}
	if fe := c.validateLocked(); fe != nil {
		return models.AttendanceForm{}, fe
	}

	c.state = Submitting
	return c.valuesLocked(), nil
}

func (c *Controller) endSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Idle
}

func (c *Controller) recordPending(ctx context.Context, logger *slog.Logger, values models.AttendanceForm) int64 {
	if c.deps.Journal == nil {
		return 0
	}

	s, err := models.NewPendingSubmission(c.id, values)
	if err == nil {
		var id int64
		if id, err = c.deps.Journal.RecordSubmission(s); err == nil {
			return id
		}
	}
	logger.ErrorContext(ctx, "failed to record submission", "error", err)
	return 0
}

func (c *Controller) finishJournal(ctx context.Context, logger *slog.Logger, id int64, status string, httpStatus int) {
	if c.deps.Journal == nil || id == 0 {
		return
	}
	if err := c.deps.Journal.FinishSubmission(id, status, httpStatus); err != nil {
		logger.ErrorContext(ctx, "failed to update submission", "submission_id", id, "error", err)
	}
}

func statusOf(res *remote.Result, err error) int {
	var statusErr *remote.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	if res != nil {
		return res.StatusCode
	}
	return 0
}
