package applications

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateMapsDuplicatePair(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO applications").
		WithArgs("app-1", "job-1", "google:seeker-1", StatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_job_id_applicant_identity_key"})

	first := Application{ID: "app-1", JobID: "job-1", ApplicantIdentity: "google:seeker-1", Status: StatusPending}
	if err := repo.Create(context.Background(), first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := first
	second.ID = "app-2"
	if err := repo.Create(context.Background(), second); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Create duplicate = %v, want ErrDuplicate", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCountPendingExpandsJobIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM applications WHERE job_id IN \(\$1, \$2\) AND status = \$3`).
		WithArgs("job-1", "job-2", StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountPendingByJobIDs(context.Background(), []string{"job-1", "job-2"})
	if err != nil {
		t.Fatalf("CountPendingByJobIDs: %v", err)
	}
	if count != 3 {
		t.Fatalf("pending count = %d, want 3", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCountPendingSkipsEmptyInput(t *testing.T) {
	repo, mock := newMockRepo(t)

	count, err := repo.CountPendingByJobIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("CountPendingByJobIDs: %v", err)
	}
	if count != 0 {
		t.Fatalf("pending count for no jobs = %d, want 0", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateStatusRequiresRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE applications SET status").
		WithArgs("app-1", StatusAccepted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE applications SET status").
		WithArgs("app-gone", StatusAccepted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateStatus(context.Background(), "app-1", StatusAccepted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := repo.UpdateStatus(context.Background(), "app-gone", StatusAccepted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateStatus missing = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
