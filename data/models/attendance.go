package models

import "time"

const (
	// InputDateLayout is the layout of the date sent by the form (HTML date input).
	InputDateLayout = "2006-01-02"
	// FormDateLayout is the MM/dd/yyyy layout the events API expects in the Data part.
	FormDateLayout = "01/02/2006"
)

// AttendanceFields holds the text values typed into the attendance form.
type AttendanceFields struct {
	Title                 string `json:"title" form:"Titulo" validate:"required"`
	Date                  string `json:"date" form:"Data,date" validate:"required,eventdate"`
	Location              string `json:"location" form:"Local" validate:"required"`
	AdditionalHours       string `json:"additionalHours" form:"HorasComplementares" validate:"digits"`
	SpeakerRegistration   string `json:"speakerRegistration" form:"MatriculaPalestrante" validate:"digits"`
	OrganizerRegistration string `json:"organizerRegistration" form:"MatriculaOrganizador" validate:"digits"`
}

// AttendanceForm is the full set of values submitted for one event. Only the
// most recently attached file is kept.
type AttendanceForm struct {
	AttendanceFields
	File *Attachment `json:"file,omitempty" form:"file,file" validate:"required"`
}

// Attachment is the binary payload sent in the file part of the request.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// EventDate parses the date field. Call it on validated forms only.
func (f AttendanceFields) EventDate() (time.Time, error) {
	return time.Parse(InputDateLayout, f.Date)
}

// FileName returns the name of the bound file, or an empty string.
func (f AttendanceForm) FileName() string {
	if f.File == nil {
		return ""
	}
	return f.File.Name
}
