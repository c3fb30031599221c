// Package remote talks to the events API that stores attendance records.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"attendance-app/data/models"
)

const (
	// SaveAttendancePath is the events API route that registers attendance.
	SaveAttendancePath = "/api/Evento/SalvaPresencaEvento"
	// DefaultClientTimeout bounds a single call to the events API.
	DefaultClientTimeout = 30 * time.Second
)

// ErrCreation is returned when the events API answers with a non-2xx status.
var ErrCreation = errors.New("um erro ocorreu durante a criação do registro")

// StatusError carries the status of a rejected request.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrCreation, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrCreation
}

// AttendanceAPI is implemented by Client and by test doubles.
type AttendanceAPI interface {
	SaveAttendance(ctx context.Context, form models.AttendanceForm) (*Result, error)
}

// Result describes an accepted request.
type Result struct {
	StatusCode int
}

// OK reports whether the status is in the 2xx range.
func (r *Result) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Config holds the events API location and client settings.
type Config struct {
	BaseURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: override the HTTP client, mostly for tests
	HTTPClient *http.Client
}

// Client posts attendance forms to the events API.
type Client struct {
	httpClient *http.Client
	config     Config
}

var _ AttendanceAPI = (*Client)(nil)

// NewClient creates a new events API client.
func NewClient(config Config) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		config:     config,
	}
}

// SaveAttendance sends the form as one multipart POST. It is not retried.
func (c *Client) SaveAttendance(ctx context.Context, form models.AttendanceForm) (*Result, error) {
	body, contentType, err := EncodeForm(form)
	if err != nil {
		return nil, err
	}

	url := c.config.BaseURL + SaveAttendancePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach events API: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	slog.DebugContext(ctx, "events API responded",
		"url", url,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	res := &Result{StatusCode: resp.StatusCode}
	if !res.OK() {
		return res, &StatusError{StatusCode: resp.StatusCode}
	}
	return res, nil
}

// EncodeForm writes the form as a multipart body: the text parts in field
// order, then the file part. It returns the body and its Content-Type.
func EncodeForm(form models.AttendanceForm) (*bytes.Buffer, string, error) {
	values, err := models.GetFormValues(form)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, v := range values {
		if err := w.WriteField(v.Name, v.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", v.Name, err)
		}
	}

	if form.File != nil {
		part, err := w.CreatePart(filePartHeader(form.File))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(form.File.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(f *models.Attachment) textproto.MIMEHeader {
	name := f.Name
	if name == "" {
		name = "blob"
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", contentType)
	return h
}
