package models

import "time"

const (
	SubmissionPending = "pending"
	SubmissionSuccess = "success"
	SubmissionFailed  = "failed"
)

// Submission is one journal row: an attempt to save an attendance form on
// the events API. Fields are declared in table column order.
type Submission struct {
	ID         int64     `json:"id" db:"id" readOnly:"true"`
	FormID     string    `validate:"required" json:"formId" db:"form_id"`
	Title      string    `validate:"required" json:"title" db:"title"`
	EventDate  time.Time `validate:"required" json:"eventDate" db:"event_date"`
	Location   string    `json:"location" db:"location"`
	FileName   string    `json:"fileName" db:"file_name"`
	Status     string    `validate:"oneof=pending success failed" json:"status" db:"status"`
	HTTPStatus int       `json:"httpStatus" db:"http_status"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" readOnly:"true"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at" readOnly:"true"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s Submission) GetID() int64 {
	return s.ID
}

func (s Submission) EmptySlice() interface{} {
	return &[]Submission{}
}

// NewPendingSubmission builds the journal row written when a form enters the
// submitting state. The form must be valid.
func NewPendingSubmission(formID string, f AttendanceForm) (Submission, error) {
	date, err := f.EventDate()
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		FormID:    formID,
		Title:     f.Title,
		EventDate: date,
		Location:  f.Location,
		FileName:  f.FileName(),
		Status:    SubmissionPending,
	}, nil
}
