package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, title, description, category, location, level, salary, visible, company_id, created_at`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, title, description, category, location, level, salary, visible, company_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Description,
		job.Category,
		job.Location,
		job.Level,
		job.Salary,
		job.Visible,
		job.CompanyID,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 LIMIT 1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) SetVisible(ctx context.Context, id string, visible bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE jobs SET visible = $2 WHERE id = $1`, id, visible)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) ListPublic(ctx context.Context, filter Filter) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE visible = TRUE`
	args := []any{}
	if title := strings.TrimSpace(filter.Title); title != "" {
		args = append(args, "%"+title+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		args = append(args, "%"+location+"%")
		query += fmt.Sprintf(" AND location ILIKE $%d", len(args))
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *PGRepo) ListByCompany(ctx context.Context, companyID string) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, companyID)
}

func (r *PGRepo) ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]Job, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(companyIDs))
	args := make([]any, len(companyIDs))
	for i, id := range companyIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *PGRepo) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT category FROM jobs WHERE visible = TRUE AND category <> '' ORDER BY category`)
}

func (r *PGRepo) Locations(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT location FROM jobs WHERE visible = TRUE AND location <> '' ORDER BY location`)
}

func (r *PGRepo) CompanyID(ctx context.Context, jobID string) (string, error) {
	var companyID string
	err := r.DB.QueryRowContext(ctx, `SELECT company_id FROM jobs WHERE id = $1 LIMIT 1`, jobID).Scan(&companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return companyID, nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Job, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Category,
		&job.Location,
		&job.Level,
		&job.Salary,
		&job.Visible,
		&job.CompanyID,
		&job.CreatedAt,
	)
	return job, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
