// Package form holds the state of one attendance form: its field values,
// field errors, attachments and submit state.
package form

import (
	"errors"
	"fmt"
	"sync"

	"attendance-app/data/attachments"
	"attendance-app/data/models"
	"attendance-app/data/remote"
)

// State is the submit state of a form.
type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DashboardPath is where a saved form sends the user.
const DashboardPath = "/dashboard"

// ErrSubmitInProgress is returned when a form is submitted twice at once.
var ErrSubmitInProgress = errors.New("form submission already in progress")

// TransportError wraps a failed call to the events API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "failed to save attendance: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Journal records submission attempts. Errors are logged, never returned to
// the user.
type Journal interface {
	RecordSubmission(s models.Submission) (int64, error)
	FinishSubmission(id int64, status string, httpStatus int) error
}

// Deps are the collaborators shared by every form.
type Deps struct {
	API remote.AttendanceAPI
	// Optional
	Journal Journal
	// Optional: builds preview URLs for attachment keys
	FileURL attachments.URLFunc
}

// Controller owns the state of a single form. It is safe for concurrent use.
type Controller struct {
	id   string
	deps Deps

	mu          sync.Mutex
	state       State
	fields      models.AttendanceFields
	file        *models.Attachment
	fileKey     string
	fieldErrors models.FieldErrors
	attachments *attachments.List
}

// NewController returns an idle, empty form.
func NewController(id string, deps Deps) *Controller {
	return &Controller{
		id:          id,
		deps:        deps,
		attachments: attachments.NewList(deps.FileURL),
	}
}

// ID returns the form identifier.
func (c *Controller) ID() string {
	return c.id
}

// State returns the current submit state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetFields replaces the text values of the form and clears field errors
// left by an earlier validation.
func (c *Controller) SetFields(fields models.AttendanceFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = fields
	c.fieldErrors = nil
}

// AddAttachment attaches a file and binds it as the form's file value.
func (c *Controller) AddAttachment(file *models.Attachment, sheet *attachments.Sheet) attachments.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.attachments.Add(file, sheet)
	c.file = file
	c.fileKey = e.Key
	delete(c.fieldErrors, "file")
	return e
}

// RemoveAttachment detaches the file with the given key. Removing the bound
// file also clears the form's file value.
func (c *Controller) RemoveAttachment(key string) []attachments.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.attachments.Remove(key)
	if key == c.fileKey {
		c.file = nil
		c.fileKey = ""
	}
	return entries
}

// Attachment returns the payload behind an attachment key.
func (c *Controller) Attachment(key string) (*models.Attachment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attachments.File(key)
}

// Validate checks the current values and stores the resulting field errors.
func (c *Controller) Validate() models.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Controller) validateLocked() models.FieldErrors {
	c.fieldErrors = models.ValidateForm(c.valuesLocked())
	return c.fieldErrors
}

func (c *Controller) valuesLocked() models.AttendanceForm {
	return models.AttendanceForm{AttendanceFields: c.fields, File: c.file}
}

// Reset empties the form. A submit in flight is left to finish.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = models.AttendanceFields{}
	c.file = nil
	c.fileKey = ""
	c.fieldErrors = nil
	c.attachments.Clear()
}

// Snapshot is a read-only copy of the form for rendering.
type Snapshot struct {
	ID          string                  `json:"id"`
	State       string                  `json:"state"`
	Fields      models.AttendanceFields `json:"fields"`
	FieldErrors models.FieldErrors      `json:"fieldErrors,omitempty"`
	File        *models.Attachment      `json:"file,omitempty"`
	Attachments []attachments.Entry     `json:"attachments"`
}

// Snapshot copies the current form state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fe models.FieldErrors
	if len(c.fieldErrors) > 0 {
		fe = make(models.FieldErrors, len(c.fieldErrors))
		for k, v := range c.fieldErrors {
			fe[k] = v
		}
	}

	return Snapshot{
		ID:          c.id,
		State:       c.state.String(),
		Fields:      c.fields,
		FieldErrors: fe,
		File:        c.file,
		Attachments: c.attachments.Entries(),
	}
}
