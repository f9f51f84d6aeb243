package companies

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

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

func TestPGRepoCreateStoresNullableOwnership(t *testing.T) {
	repo, mock := newMockRepo(t)

	company := Company{
		ID:           "co-1",
		Name:         "Acme",
		Email:        "hr@acme.test",
		PasswordHash: "$2a$10$hash",
	}

	// Self-signed companies carry no logo and no owning institution.
	mock.ExpectExec("INSERT INTO companies").
		WithArgs(company.ID, company.Name, company.Email, company.PasswordHash, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), company); err != nil {
		t.Fatalf("Create: %v", err)
	}

	company.ID = "co-2"
	company.Email = "jobs@roster.test"
	company.InstitutionID = "inst-1"
	mock.ExpectExec("INSERT INTO companies").
		WithArgs(company.ID, company.Name, company.Email, company.PasswordHash, nil, "inst-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), company); err != nil {
		t.Fatalf("Create with institution: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO companies").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "companies_email_key"})

	err := repo.Create(context.Background(), Company{ID: "co-1", Email: "dup@acme.test"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("Create duplicate = %v, want ErrDuplicateEmail", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByEmailIsCaseInsensitive(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "logo_key", "institution_id", "created_at", "updated_at",
	}).AddRow("co-1", "Acme", "hr@acme.test", "$2a$10$hash", nil, "inst-1", now, now)

	mock.ExpectQuery(`lower\(email\) = lower\(\$1\)`).
		WithArgs("HR@Acme.test").
		WillReturnRows(rows)

	company, err := repo.GetByEmail(context.Background(), "HR@Acme.test")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if company.ID != "co-1" || company.InstitutionID != "inst-1" || company.LogoKey != "" {
		t.Fatalf("unexpected company: %+v", company)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM companies").
		WithArgs("co-gone").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "co-gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID missing = %v, want ErrNotFound", err)
	}
}

func TestPGRepoDeleteRequiresRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM companies").
		WithArgs("co-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "co-gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete missing = %v, want ErrNotFound", err)
	}
}

func TestPGRepoInstitutionIDNullMeansUnowned(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT institution_id FROM companies").
		WithArgs("co-free").
		WillReturnRows(sqlmock.NewRows([]string{"institution_id"}).AddRow(nil))

	owner, err := repo.InstitutionID(context.Background(), "co-free")
	if err != nil {
		t.Fatalf("InstitutionID: %v", err)
	}
	if owner != "" {
		t.Fatalf("unowned company owner = %q, want empty", owner)
	}
}
