package seekers

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, seeker Seeker) error {
	const query = `
INSERT INTO seekers (identity, name, email, phone, location, bio, photo_url, resume_key, resume_link, resume_text, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
ON CONFLICT (identity) DO UPDATE SET
  name = EXCLUDED.name,
  email = EXCLUDED.email,
  phone = EXCLUDED.phone,
  location = EXCLUDED.location,
  bio = EXCLUDED.bio,
  photo_url = EXCLUDED.photo_url,
  resume_key = EXCLUDED.resume_key,
  resume_link = EXCLUDED.resume_link,
  resume_text = EXCLUDED.resume_text,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		seeker.Identity,
		seeker.Name,
		seeker.Email,
		seeker.Phone,
		seeker.Location,
		seeker.Bio,
		seeker.PhotoURL,
		seeker.ResumeKey,
		seeker.ResumeLink,
		seeker.ResumeText,
	)
	return err
}

func (r *PGRepo) GetByIdentity(ctx context.Context, identity string) (Seeker, error) {
	const query = `
SELECT identity, name, email, phone, location, bio, photo_url, resume_key, resume_link, resume_text, created_at, updated_at
FROM seekers
WHERE identity = $1
LIMIT 1`
	var seeker Seeker
	err := r.DB.QueryRowContext(ctx, query, identity).Scan(
		&seeker.Identity,
		&seeker.Name,
		&seeker.Email,
		&seeker.Phone,
		&seeker.Location,
		&seeker.Bio,
		&seeker.PhotoURL,
		&seeker.ResumeKey,
		&seeker.ResumeLink,
		&seeker.ResumeText,
		&seeker.CreatedAt,
		&seeker.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Seeker{}, ErrNotFound
		}
		return Seeker{}, err
	}
	return seeker, nil
}
