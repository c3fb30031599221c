package models

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var (
	testEventDate = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	testCreatedAt = time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)
)

func TestGetValsFromModel(t *testing.T) {
	s := Submission{
		ID:         7,
		FormID:     "form-1",
		Title:      "Semana de Computação",
		EventDate:  testEventDate,
		Location:   "Niterói",
		FileName:   "presenca.csv",
		Status:     SubmissionPending,
		HTTPStatus: 0,
		CreatedAt:  testCreatedAt,
	}

	vals := GetValsFromModel(s)
	expectedVals := []interface{}{"form-1", "Semana de Computação", testEventDate, "Niterói", "presenca.csv", SubmissionPending, 0}

	assert.Equal(t, expectedVals, vals)
}

func TestGetColumnNames(t *testing.T) {
	assert.Equal(t,
		[]string{"form_id", "title", "event_date", "location", "file_name", "status", "http_status"},
		GetColumnNames(Submission{}, true))
	assert.Equal(t,
		[]string{"id", "form_id", "title", "event_date", "location", "file_name", "status", "http_status", "created_at", "updated_at"},
		GetColumnNames(&Submission{}, false))
}

func TestMapJsonTagsToDB(t *testing.T) {
	m := MapJsonTagsToDB(Submission{})

	assert.Equal(t, "event_date", m["eventDate"])
	assert.Equal(t, "created_at", m["createdAt"])
	assert.Equal(t, "", m["unknown"])
}

func TestValidateModel(t *testing.T) {
	valid := Submission{FormID: "f", Title: "t", EventDate: testEventDate, Status: SubmissionSuccess}
	assert.NoError(t, ValidateModel(valid))

	invalid := valid
	invalid.Status = "lost"
	assert.Error(t, ValidateModel(invalid))

	assert.EqualError(t, ValidateModel("not a model"), "expected model, got string")
}

func submissionRow() []string {
	return []string{"id", "form_id", "title", "event_date", "location", "file_name", "status", "http_status", "created_at", "updated_at"}
}

func TestScanRowToModel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(submissionRow()).
		AddRow(1, "form-1", "Semana", testEventDate, "UFF", "p.csv", SubmissionSuccess, 201, testCreatedAt, testCreatedAt)
	mock.ExpectQuery("SELECT \\* FROM submissions WHERE id = \\$1").WillReturnRows(rows)

	row := db.QueryRow("SELECT * FROM submissions WHERE id = $1", 1)

	var s Submission
	err = ScanRowToModel(&s, row)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, "Semana", s.Title)
	assert.Equal(t, 201, s.HTTPStatus)
	assert.Equal(t, testEventDate, s.EventDate)

	err = ScanRowToModel(Submission{}, row)
	assert.EqualError(t, err, "expected pointer to model, got models.Submission")
}

func TestScanRowsToSliceOfModels(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(submissionRow()).
		AddRow(1, "form-1", "A", testEventDate, "UFF", "a.csv", SubmissionSuccess, 200, testCreatedAt, testCreatedAt).
		AddRow(2, "form-2", "B", testEventDate, "UFF", "b.csv", SubmissionFailed, 500, testCreatedAt, testCreatedAt)
	mock.ExpectQuery("SELECT \\* FROM submissions").WillReturnRows(rows)

	r, err := db.Query("SELECT * FROM submissions")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	result, err := ScanRowsToSliceOfModels(Submission{}, r, 2)
	assert.NoError(t, err)

	subs, ok := result.(*[]Submission)
	if !ok {
		t.Fatalf("expected *[]Submission, got %T", result)
	}
	assert.Len(t, *subs, 2)
	assert.Equal(t, "B", (*subs)[1].Title)
	assert.Equal(t, SubmissionFailed, (*subs)[1].Status)
}

func TestDetermineInitialCapacity(t *testing.T) {
	assert.Equal(t, 10, determineInitialCapacity(0))
	assert.Equal(t, 35, determineInitialCapacity(50))
	assert.Equal(t, 200, determineInitialCapacity(5000))
}

func TestNewPendingSubmission(t *testing.T) {
	f := AttendanceForm{
		AttendanceFields: AttendanceFields{Title: "Semana", Date: "2024-03-05", Location: "UFF"},
		File:             &Attachment{Name: "presenca.csv"},
	}

	s, err := NewPendingSubmission("form-1", f)
	assert.NoError(t, err)
	assert.Equal(t, SubmissionPending, s.Status)
	assert.Equal(t, testEventDate, s.EventDate)
	assert.Equal(t, "presenca.csv", s.FileName)

	f.Date = "05/03/2024"
	_, err = NewPendingSubmission("form-1", f)
	assert.Error(t, err)
}
