package companies

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/credentials"
)

// ErrHasPendingApplications refuses company deletion while applicants are
// still waiting on a decision.
var ErrHasPendingApplications = errors.New("company has pending applications")

var ErrInvalidInput = errors.New("invalid input")

// PendingCounter reports how many applications to the company's jobs are
// still Pending. Wired in bootstrap across the jobs and applications stores.
type PendingCounter interface {
	CountPendingByCompany(ctx context.Context, companyID string) (int, error)
}

type Service struct {
	Repo    Repo
	Guard   *authz.Guard
	Pending PendingCounter
}

func NewService(repo Repo, guard *authz.Guard, pending PendingCounter) *Service {
	return &Service{Repo: repo, Guard: guard, Pending: pending}
}

// SignUp registers a self-owned company. The caller issues the session token.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (Company, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return Company{}, ErrInvalidInput
	}
	hash, err := credentials.HashPassword(password)
	if err != nil {
		return Company{}, ErrInvalidInput
	}
	company := Company{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, company); err != nil {
		return Company{}, err
	}
	return company, nil
}

// CreateUnderInstitution registers a company owned by the calling institution.
func (s *Service) CreateUnderInstitution(ctx context.Context, p authz.Principal, name, email, password string) (Company, error) {
	if err := s.Guard.ForRequest().CanCreateCompany(ctx, p); err != nil {
		return Company{}, err
	}
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return Company{}, ErrInvalidInput
	}
	hash, err := credentials.HashPassword(password)
	if err != nil {
		return Company{}, ErrInvalidInput
	}
	company := Company{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		InstitutionID: p.ID,
	}
	if err := s.Repo.Create(ctx, company); err != nil {
		return Company{}, err
	}
	return company, nil
}

// Get returns a company profile to its owner (the company itself or its
// owning institution).
func (s *Service) Get(ctx context.Context, p authz.Principal, companyID string) (Company, error) {
	if err := s.Guard.ForRequest().CanManageCompany(ctx, p, companyID); err != nil {
		return Company{}, err
	}
	return s.Repo.GetByID(ctx, companyID)
}

// UpdateProfile updates name/email and, when password is non-empty, rotates
// the credential.
func (s *Service) UpdateProfile(ctx context.Context, p authz.Principal, companyID, name, email, password string) (Company, error) {
	if err := s.Guard.ForRequest().CanManageCompany(ctx, p, companyID); err != nil {
		return Company{}, err
	}
	company, err := s.Repo.GetByID(ctx, companyID)
	if err != nil {
		return Company{}, err
	}
	if name = strings.TrimSpace(name); name != "" {
		company.Name = name
	}
	if email = normalizeEmail(email); email != "" {
		company.Email = email
	}
	if password != "" {
		hash, err := credentials.HashPassword(password)
		if err != nil {
			return Company{}, ErrInvalidInput
		}
		company.PasswordHash = hash
	}
	if err := s.Repo.Update(ctx, company); err != nil {
		return Company{}, err
	}
	return company, nil
}

// SetLogo records the storage key of an uploaded logo.
func (s *Service) SetLogo(ctx context.Context, p authz.Principal, companyID, storageKey string) (Company, error) {
	if err := s.Guard.ForRequest().CanManageCompany(ctx, p, companyID); err != nil {
		return Company{}, err
	}
	company, err := s.Repo.GetByID(ctx, companyID)
	if err != nil {
		return Company{}, err
	}
	company.LogoKey = storageKey
	if err := s.Repo.Update(ctx, company); err != nil {
		return Company{}, err
	}
	return company, nil
}

// Delete removes a company. Refused while any of its jobs still has Pending
// applications; otherwise jobs and applications go with it.
func (s *Service) Delete(ctx context.Context, p authz.Principal, companyID string) error {
	if err := s.Guard.ForRequest().CanManageCompany(ctx, p, companyID); err != nil {
		return err
	}
	if s.Pending != nil {
		pending, err := s.Pending.CountPendingByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return ErrHasPendingApplications
		}
	}
	return s.Repo.Delete(ctx, companyID)
}

// ListForInstitution returns the calling institution's company roster.
func (s *Service) ListForInstitution(ctx context.Context, p authz.Principal) ([]Company, error) {
	if !p.Authenticated() {
		return nil, authz.ErrUnauthenticated
	}
	if p.Kind != authz.KindInstitution {
		return nil, authz.ErrNotOwner
	}
	return s.Repo.ListByInstitution(ctx, p.ID)
}

// CredentialByEmail lets the credential verifier resolve company logins.
func (s *Service) CredentialByEmail(ctx context.Context, email string) (string, string, error) {
	company, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	return company.ID, company.PasswordHash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
