package institutions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, institution Institution) error {
	const query = `
INSERT INTO institutions (id, name, email, password_hash, logo_key, address, phone, website, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		institution.ID,
		institution.Name,
		institution.Email,
		institution.PasswordHash,
		nullableString(institution.LogoKey),
		nullableString(institution.Address),
		nullableString(institution.Phone),
		nullableString(institution.Website),
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Institution, error) {
	const query = `
SELECT id, name, email, password_hash, logo_key, address, phone, website, created_at, updated_at
FROM institutions
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Institution, error) {
	const query = `
SELECT id, name, email, password_hash, logo_key, address, phone, website, created_at, updated_at
FROM institutions
WHERE lower(email) = lower($1)
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) Update(ctx context.Context, institution Institution) error {
	const query = `
UPDATE institutions
SET name = $2, email = $3, password_hash = $4, logo_key = $5, address = $6, phone = $7, website = $8, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		institution.ID,
		institution.Name,
		institution.Email,
		institution.PasswordHash,
		nullableString(institution.LogoKey),
		nullableString(institution.Address),
		nullableString(institution.Phone),
		nullableString(institution.Website),
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
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

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Institution, error) {
	var institution Institution
	var logoKey, address, phone, website sql.NullString
	err := row.Scan(
		&institution.ID,
		&institution.Name,
		&institution.Email,
		&institution.PasswordHash,
		&logoKey,
		&address,
		&phone,
		&website,
		&institution.CreatedAt,
		&institution.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Institution{}, ErrNotFound
		}
		return Institution{}, err
	}
	if logoKey.Valid {
		institution.LogoKey = logoKey.String
	}
	if address.Valid {
		institution.Address = address.String
	}
	if phone.Valid {
		institution.Phone = phone.String
	}
	if website.Valid {
		institution.Website = website.String
	}
	return institution, nil
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
