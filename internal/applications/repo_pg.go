package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `id, job_id, applicant_identity, status, applied_at`

func (r *PGRepo) Create(ctx context.Context, application Application) error {
	const query = `
INSERT INTO applications (id, job_id, applicant_identity, status, applied_at)
VALUES ($1, $2, $3, $4, now())`
	_, err := r.DB.ExecContext(ctx, query,
		application.ID,
		application.JobID,
		application.ApplicantIdentity,
		application.Status,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 LIMIT 1`
	application, err := scanApplication(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return application, nil
}

func (r *PGRepo) ListByApplicant(ctx context.Context, applicantIdentity string) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE applicant_identity = $1 ORDER BY applied_at DESC`
	return r.list(ctx, query, applicantIdentity)
}

func (r *PGRepo) ListByJobIDs(ctx context.Context, jobIDs []string) ([]Application, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	placeholders, args := expand(jobIDs)
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id IN (` + placeholders + `) ORDER BY applied_at DESC`
	return r.list(ctx, query, args...)
}

func (r *PGRepo) CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error) {
	out := make(map[string]int)
	if len(jobIDs) == 0 {
		return out, nil
	}
	placeholders, args := expand(jobIDs)
	query := `SELECT job_id, count(*) FROM applications WHERE job_id IN (` + placeholders + `) GROUP BY job_id`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var jobID string
		var count int
		if err := rows.Scan(&jobID, &count); err != nil {
			return nil, err
		}
		out[jobID] = count
	}
	return out, rows.Err()
}

func (r *PGRepo) CountPendingByJobIDs(ctx context.Context, jobIDs []string) (int, error) {
	if len(jobIDs) == 0 {
		return 0, nil
	}
	placeholders, args := expand(jobIDs)
	args = append(args, StatusPending)
	query := fmt.Sprintf(
		`SELECT count(*) FROM applications WHERE job_id IN (%s) AND status = $%d`,
		placeholders, len(args),
	)
	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Refs(ctx context.Context, id string) (string, string, error) {
	var jobID, applicant string
	err := r.DB.QueryRowContext(ctx,
		`SELECT job_id, applicant_identity FROM applications WHERE id = $1 LIMIT 1`, id,
	).Scan(&jobID, &applicant)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	return jobID, applicant, nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, application)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var application Application
	err := row.Scan(
		&application.ID,
		&application.JobID,
		&application.ApplicantIdentity,
		&application.Status,
		&application.AppliedAt,
	)
	return application, err
}

func expand(ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
