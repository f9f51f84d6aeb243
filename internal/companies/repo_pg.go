package companies

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, company Company) error {
	const query = `
INSERT INTO companies (id, name, email, password_hash, logo_key, institution_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		company.ID,
		company.Name,
		company.Email,
		company.PasswordHash,
		nullableString(company.LogoKey),
		nullableString(company.InstitutionID),
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Company, error) {
	const query = `
SELECT id, name, email, password_hash, logo_key, institution_id, created_at, updated_at
FROM companies
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Company, error) {
	const query = `
SELECT id, name, email, password_hash, logo_key, institution_id, created_at, updated_at
FROM companies
WHERE lower(email) = lower($1)
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) Update(ctx context.Context, company Company) error {
	const query = `
UPDATE companies
SET name = $2, email = $3, password_hash = $4, logo_key = $5, institution_id = $6, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		company.ID,
		company.Name,
		company.Email,
		company.PasswordHash,
		nullableString(company.LogoKey),
		nullableString(company.InstitutionID),
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) ListByInstitution(ctx context.Context, institutionID string) ([]Company, error) {
	const query = `
SELECT id, name, email, password_hash, logo_key, institution_id, created_at, updated_at
FROM companies
WHERE institution_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, institutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, company)
	}
	return out, rows.Err()
}

func (r *PGRepo) InstitutionID(ctx context.Context, companyID string) (string, error) {
	const query = `SELECT institution_id FROM companies WHERE id = $1 LIMIT 1`
	var institutionID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, companyID).Scan(&institutionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if institutionID.Valid {
		return institutionID.String, nil
	}
	return "", nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Company, error) {
	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return company, nil
}

func scanCompany(row rowScanner) (Company, error) {
	var company Company
	var logoKey sql.NullString
	var institutionID sql.NullString
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.Email,
		&company.PasswordHash,
		&logoKey,
		&institutionID,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		return Company{}, err
	}
	if logoKey.Valid {
		company.LogoKey = logoKey.String
	}
	if institutionID.Valid {
		company.InstitutionID = institutionID.String
	}
	return company, nil
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
