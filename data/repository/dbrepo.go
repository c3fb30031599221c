package repository

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"attendance-app/data/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/pgx"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidQuery is returned for listing parameters that cannot be turned into SQL.
	ErrInvalidQuery = errors.New("invalid query")
)

// DBRepo is the submission journal.
type DBRepo interface {
	Connection() *sql.DB
	RunMigrations(dbName string) error
	Create(m models.Model) (id int64, err error)
	Update(m models.Model) error
	GetModelByID(m models.Model, id int64) (models.Model, error)
	RecordSubmission(s models.Submission) (int64, error)
	FinishSubmission(id int64, status string, httpStatus int) error
	GetSubmissionByID(id int64) (models.Submission, error)
	ListSubmissions(queryParams map[string]string) ([]models.Submission, error)
}

type SqlRepo struct {
	DB *sql.DB
}

var _ DBRepo = (*SqlRepo)(nil)

func (sr *SqlRepo) Connection() *sql.DB {
	return sr.DB
}

// RunMigrations applies the embedded migrations to the journal database.
func (sr *SqlRepo) RunMigrations(dbName string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := pgx.WithInstance(sr.DB, &pgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("migrations complete", "database", dbName)
	return nil
}

// Create inserts a model into the corresponding db table and returns id of the
// newly created record.
func (sr *SqlRepo) Create(m models.Model) (id int64, err error) {
	vals := models.GetValsFromModel(m)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		m.TableName(),
		strings.Join(models.GetColumnNames(m, true), ", "),
		placeholders(len(vals)))

	stmt, err := sr.DB.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("error preparing query: %w", err)
	}
	defer stmt.Close()

	if err := stmt.QueryRow(vals...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// Update writes every writable column of the model back to its row, and
// touches updated_at when the table has one.
func (sr *SqlRepo) Update(m models.Model) error {
	columns := models.GetColumnNames(m, true)

	setClause := make([]string, 0, len(columns)+1)
	for i, c := range columns {
		setClause = append(setClause, fmt.Sprintf("%s = $%d", c, i+1))
	}
	if hasColumn(m, "updated_at") {
		setClause = append(setClause, "updated_at = now()")
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		m.TableName(),
		strings.Join(setClause, ", "),
		len(columns)+1)

	stmt, err := sr.DB.Prepare(query)
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer stmt.Close()

	vals := append(models.GetValsFromModel(m), m.GetID())
	res, err := stmt.Exec(vals...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetModelByID retrieves a model from the db by its ID and returns it. The
// model must be passed as a pointer to the desired model type.
func (sr *SqlRepo) GetModelByID(m models.Model, id int64) (models.Model, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", m.TableName())
	r := sr.DB.QueryRow(query, id)

	if err := models.ScanRowToModel(m, r); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// RecordSubmission validates and stores a new journal row.
func (sr *SqlRepo) RecordSubmission(s models.Submission) (int64, error) {
	if err := models.ValidateModel(s); err != nil {
		return 0, fmt.Errorf("invalid submission: %w", err)
	}
	return sr.Create(s)
}

// FinishSubmission stores the outcome of a pending submission.
func (sr *SqlRepo) FinishSubmission(id int64, status string, httpStatus int) error {
	s, err := sr.GetSubmissionByID(id)
	if err != nil {
		return err
	}

	s.Status = status
	s.HTTPStatus = httpStatus
	if err := models.ValidateModel(s); err != nil {
		return fmt.Errorf("invalid submission: %w", err)
	}
	return sr.Update(s)
}

func (sr *SqlRepo) GetSubmissionByID(id int64) (models.Submission, error) {
	model, err := sr.GetModelByID(&models.Submission{}, id)
	if err != nil {
		return models.Submission{}, err
	}

	s, ok := model.(*models.Submission)
	if !ok {
		return models.Submission{}, fmt.Errorf("type assertion to Submission failed")
	}

	return *s, nil
}

// ListSubmissions returns journal rows filtered, sorted and paginated by the
// given query parameters.
func (sr *SqlRepo) ListSubmissions(queryParams map[string]string) ([]models.Submission, error) {
	m := models.Submission{}
	clauses, values, limit, err := buildQueryClauses(queryParams, m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	query := fmt.Sprintf("SELECT * FROM %s %s", m.TableName(), clauses)
	rows, err := sr.DB.Query(query, values...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	result, err := models.ScanRowsToSliceOfModels(m, rows, limit)
	if err != nil {
		return nil, err
	}

	subs, ok := result.(*[]models.Submission)
	if !ok {
		return nil, fmt.Errorf("type assertion to []Submission failed")
	}
	return *subs, nil
}

func hasColumn(m models.Model, column string) bool {
	for _, c := range models.GetColumnNames(m, false) {
		if c == column {
			return true
		}
	}
	return false
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := 1; i <= n; i++ {
		ph[i-1] = fmt.Sprintf("$%d", i)
	}
	return strings.Join(ph, ", ")
}
