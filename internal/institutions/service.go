package institutions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/credentials"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// SignUp registers a new institution. The caller issues the session token.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (Institution, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return Institution{}, ErrInvalidInput
	}
	hash, err := credentials.HashPassword(password)
	if err != nil {
		return Institution{}, ErrInvalidInput
	}
	institution := Institution{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, institution); err != nil {
		return Institution{}, err
	}
	return institution, nil
}

// Get returns the institution's own profile. Institutions only ever see
// themselves, so the check is a kind+identity match rather than a graph walk.
func (s *Service) Get(ctx context.Context, p authz.Principal, institutionID string) (Institution, error) {
	if err := selfOnly(p, institutionID); err != nil {
		return Institution{}, err
	}
	return s.Repo.GetByID(ctx, institutionID)
}

// UpdateProfile updates the institution's own profile fields; empty fields
// are left unchanged, a non-empty password rotates the credential.
func (s *Service) UpdateProfile(ctx context.Context, p authz.Principal, institutionID string, upd ProfileUpdate) (Institution, error) {
	if err := selfOnly(p, institutionID); err != nil {
		return Institution{}, err
	}
	institution, err := s.Repo.GetByID(ctx, institutionID)
	if err != nil {
		return Institution{}, err
	}
	if v := strings.TrimSpace(upd.Name); v != "" {
		institution.Name = v
	}
	if v := normalizeEmail(upd.Email); v != "" {
		institution.Email = v
	}
	if v := strings.TrimSpace(upd.Address); v != "" {
		institution.Address = v
	}
	if v := strings.TrimSpace(upd.Phone); v != "" {
		institution.Phone = v
	}
	if v := strings.TrimSpace(upd.Website); v != "" {
		institution.Website = v
	}
	if upd.Password != "" {
		hash, err := credentials.HashPassword(upd.Password)
		if err != nil {
			return Institution{}, ErrInvalidInput
		}
		institution.PasswordHash = hash
	}
	if err := s.Repo.Update(ctx, institution); err != nil {
		return Institution{}, err
	}
	return institution, nil
}

// SetLogo records the storage key of an uploaded logo.
func (s *Service) SetLogo(ctx context.Context, p authz.Principal, institutionID, storageKey string) (Institution, error) {
	if err := selfOnly(p, institutionID); err != nil {
		return Institution{}, err
	}
	institution, err := s.Repo.GetByID(ctx, institutionID)
	if err != nil {
		return Institution{}, err
	}
	institution.LogoKey = storageKey
	if err := s.Repo.Update(ctx, institution); err != nil {
		return Institution{}, err
	}
	return institution, nil
}

// CredentialByEmail lets the credential verifier resolve institution logins.
func (s *Service) CredentialByEmail(ctx context.Context, email string) (string, string, error) {
	institution, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	return institution.ID, institution.PasswordHash, nil
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Name     string
	Email    string
	Address  string
	Phone    string
	Website  string
	Password string
}

func selfOnly(p authz.Principal, institutionID string) error {
	if !p.Authenticated() {
		return authz.ErrUnauthenticated
	}
	if p.Kind != authz.KindInstitution || p.ID != institutionID {
		return authz.ErrNotOwner
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
