//go:build integration

package repository

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"attendance-app/data/models"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
)

var (
	host     = "localhost"
	user     = "user"
	password = "password"
	dbname   = "test_db"
	port     = "5435"
	dsn      = "host=%s port=%s user=%s password=%s dbname=%s sslmode=disable"
)

var resource *dockertest.Resource
var pool *dockertest.Pool
var testDB *sql.DB
var testRepo DBRepo

func cleanup() {
	if resource != nil {
		if err := pool.Purge(resource); err != nil {
			log.Printf("Could not purge resource: %s", err)
		}
	}
	if testDB != nil {
		if err := testDB.Close(); err != nil {
			log.Printf("Could not close testDB: %s", err)
		}
	}
}

func TestMain(m *testing.M) {
	var code int
	defer func() {
		cleanup()
		os.Exit(code)
	}()

	var err error
	pool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	opts := dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + dbname,
		},
		ExposedPorts: []string{"5432"},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432": {
				{HostIP: "", HostPort: port},
			},
		},
	}

	if resource, err = pool.RunWithOptions(&opts, func(conf *docker.HostConfig) {
		conf.AutoRemove = true
	}); err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}

	if err := pool.Retry(func() error {
		var err error
		testDB, err = sql.Open("pgx", fmt.Sprintf(dsn, host, port, user, password, dbname))
		if err != nil {
			return err
		}
		return testDB.Ping()
	}); err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	testRepo = &SqlRepo{DB: testDB}
	if err = testRepo.RunMigrations(dbname); err != nil {
		log.Fatal(err.Error())
	}

	code = m.Run()
}

func fakeSubmission() models.Submission {
	return models.Submission{
		FormID:    gofakeit.UUID(),
		Title:     gofakeit.LoremIpsumSentence(4),
		EventDate: gofakeit.PastDate().UTC().Truncate(24 * time.Hour),
		Location:  gofakeit.City(),
		FileName:  gofakeit.Word() + ".csv",
		Status:    models.SubmissionPending,
	}
}

func TestJournalLifecycle(t *testing.T) {
	s := fakeSubmission()
	s.Title = "Semana de Computação"

	id, err := testRepo.RecordSubmission(s)
	assert.NoError(t, err)
	assert.NotZero(t, id)

	assert.NoError(t, testRepo.FinishSubmission(id, models.SubmissionSuccess, 201))

	got, err := testRepo.GetSubmissionByID(id)
	assert.NoError(t, err)
	assert.Equal(t, models.SubmissionSuccess, got.Status)
	assert.Equal(t, 201, got.HTTPStatus)
	assert.Equal(t, s.FormID, got.FormID)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	list, err := testRepo.ListSubmissions(map[string]string{"title_contains": "computação", "status": "success"})
	assert.NoError(t, err)
	if assert.Len(t, list, 1) {
		assert.Equal(t, id, list[0].ID)
	}

	_, err = testRepo.GetSubmissionByID(id + 1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunMigrationsTwice(t *testing.T) {
	assert.NoError(t, testRepo.RunMigrations(dbname))
}

func BenchmarkRecordSubmission(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := testRepo.RecordSubmission(fakeSubmission()); err != nil {
			b.Fatalf("Could not record submission: %s", err)
		}
	}
}

func BenchmarkListSubmissions(b *testing.B) {
	for i := 0; i < 500; i++ {
		if _, err := testRepo.RecordSubmission(fakeSubmission()); err != nil {
			b.Fatalf("Could not seed DB: %s", err)
		}
	}
	params := map[string]string{"sortBy": "-createdAt", "limit": "50"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := testRepo.ListSubmissions(params); err != nil {
			b.Fatal(err)
		}
	}
}
