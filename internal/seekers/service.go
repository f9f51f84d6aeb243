package seekers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/extract"
	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store}
}

// Profile returns the seeker's profile, creating an empty one on first
// read so clients never see 404 for their own identity.
func (s *Service) Profile(ctx context.Context, p authz.Principal) (Seeker, error) {
	if err := seekerOnly(p); err != nil {
		return Seeker{}, err
	}
	seeker, err := s.Repo.GetByIdentity(ctx, p.ID)
	if err == nil {
		return seeker, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Seeker{}, err
	}
	seeker = Seeker{Identity: p.ID}
	if err := s.Repo.Upsert(ctx, seeker); err != nil {
		return Seeker{}, err
	}
	return s.Repo.GetByIdentity(ctx, p.ID)
}

// ProfileUpdate carries the mutable seeker profile fields.
type ProfileUpdate struct {
	Name     string
	Email    string
	Phone    string
	Location string
	Bio      string
	PhotoURL string
}

// UpdateProfile merges non-empty fields into the profile.
func (s *Service) UpdateProfile(ctx context.Context, p authz.Principal, upd ProfileUpdate) (Seeker, error) {
	seeker, err := s.Profile(ctx, p)
	if err != nil {
		return Seeker{}, err
	}
	if v := strings.TrimSpace(upd.Name); v != "" {
		seeker.Name = v
	}
	if v := strings.TrimSpace(upd.Email); v != "" {
		seeker.Email = strings.ToLower(v)
	}
	if v := strings.TrimSpace(upd.Phone); v != "" {
		seeker.Phone = v
	}
	if v := strings.TrimSpace(upd.Location); v != "" {
		seeker.Location = v
	}
	if v := strings.TrimSpace(upd.Bio); v != "" {
		seeker.Bio = v
	}
	if v := strings.TrimSpace(upd.PhotoURL); v != "" {
		seeker.PhotoURL = v
	}
	if err := s.Repo.Upsert(ctx, seeker); err != nil {
		return Seeker{}, err
	}
	return s.Repo.GetByIdentity(ctx, p.ID)
}

// UpsertFromIdP records the identity-provider profile after an external
// login, filling name/email/photo without touching seeker-entered fields.
func (s *Service) UpsertFromIdP(ctx context.Context, identity, name, email, photoURL string) error {
	if strings.TrimSpace(identity) == "" {
		return ErrInvalidInput
	}
	seeker, err := s.Repo.GetByIdentity(ctx, identity)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		seeker = Seeker{Identity: identity}
	}
	if seeker.Name == "" {
		seeker.Name = strings.TrimSpace(name)
	}
	if seeker.Email == "" {
		seeker.Email = strings.ToLower(strings.TrimSpace(email))
	}
	if seeker.PhotoURL == "" {
		seeker.PhotoURL = strings.TrimSpace(photoURL)
	}
	return s.Repo.Upsert(ctx, seeker)
}

// UploadResume stores the resume in the object store and keeps a plain-text
// snapshot alongside the profile. Extraction failures are logged, not fatal:
// the file is still stored and linked.
func (s *Service) UploadResume(ctx context.Context, p authz.Principal, fileName string, r io.Reader) (Seeker, error) {
	seeker, err := s.Profile(ctx, p)
	if err != nil {
		return Seeker{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Seeker{}, err
	}
	if len(data) == 0 {
		return Seeker{}, ErrInvalidInput
	}

	storageKey, _, mimeType, err := s.Store.Save(ctx, p.ID, fileName, bytes.NewReader(data))
	if err != nil {
		return Seeker{}, err
	}

	text, err := extract.ResumeText(ctx, data, mimeType, fileName)
	if err != nil {
		telemetry.Error("resume.extract_failed", map[string]any{
			"identity": p.ID,
			"mimeType": mimeType,
			"error":    err.Error(),
		})
		text = ""
	}

	seeker.ResumeKey = storageKey
	seeker.ResumeLink = "/assets/" + storageKey
	seeker.ResumeText = text
	if err := s.Repo.Upsert(ctx, seeker); err != nil {
		return Seeker{}, err
	}
	return s.Repo.GetByIdentity(ctx, p.ID)
}

// Info exposes the applicant summary for application reviews.
func (s *Service) Info(ctx context.Context, identity string) (Seeker, error) {
	return s.Repo.GetByIdentity(ctx, identity)
}

func seekerOnly(p authz.Principal) error {
	if !p.Authenticated() {
		return authz.ErrUnauthenticated
	}
	if p.Kind != authz.KindSeeker {
		return authz.ErrNotOwner
	}
	return nil
}
