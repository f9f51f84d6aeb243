package jobs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/authz"
)

var ErrInvalidInput = errors.New("invalid input")

// CompanyInfo is the slice of company data job listings embed.
type CompanyInfo struct {
	ID      string
	Name    string
	LogoKey string
}

// CompanySource resolves company details for listings and the institution
// roster scope. Wired in bootstrap over the companies store.
type CompanySource interface {
	Info(ctx context.Context, companyID string) (CompanyInfo, error)
	IDsByInstitution(ctx context.Context, institutionID string) ([]string, error)
}

// ApplicationCounter reports per-job application counts for owner listings.
type ApplicationCounter interface {
	CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error)
}

type Service struct {
	Repo      Repo
	Guard     *authz.Guard
	Companies CompanySource
	Counts    ApplicationCounter
}

func NewService(repo Repo, guard *authz.Guard, companies CompanySource, counts ApplicationCounter) *Service {
	return &Service{Repo: repo, Guard: guard, Companies: companies, Counts: counts}
}

// NewJobInput carries the fields of a job posting.
type NewJobInput struct {
	Title       string
	Description string
	Category    string
	Location    string
	Level       string
	Salary      int64
}

// Create posts a new job owned by the calling company.
func (s *Service) Create(ctx context.Context, p authz.Principal, in NewJobInput) (Job, error) {
	if err := s.Guard.ForRequest().CanCreateJob(ctx, p); err != nil {
		return Job{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || !validLevel(in.Level) || in.Salary < 0 {
		return Job{}, ErrInvalidInput
	}
	job := Job{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    strings.TrimSpace(in.Category),
		Location:    strings.TrimSpace(in.Location),
		Level:       in.Level,
		Salary:      in.Salary,
		Visible:     true,
		CompanyID:   p.ID,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns a job. Hidden jobs are visible only to their owner chain;
// everyone else gets not-found, so hiding a posting removes it entirely.
func (s *Service) Get(ctx context.Context, p authz.Principal, jobID string) (Job, error) {
	job, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return Job{}, err
	}
	if job.Visible {
		return job, nil
	}
	if err := s.Guard.ForRequest().CanManageJob(ctx, p, jobID); err != nil {
		return Job{}, authz.ErrNoSuchResource
	}
	return job, nil
}

// Delete removes a job; applications to it go with it.
func (s *Service) Delete(ctx context.Context, p authz.Principal, jobID string) error {
	if err := s.Guard.ForRequest().CanManageJob(ctx, p, jobID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, jobID)
}

// SetVisibility toggles whether a job appears in public listings.
func (s *Service) SetVisibility(ctx context.Context, p authz.Principal, jobID string, visible bool) (Job, error) {
	if err := s.Guard.ForRequest().CanManageJob(ctx, p, jobID); err != nil {
		return Job{}, err
	}
	if err := s.Repo.SetVisible(ctx, jobID, visible); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, jobID)
}

// Search lists visible jobs matching the public filters.
func (s *Service) Search(ctx context.Context, filter Filter) ([]Job, error) {
	return s.Repo.ListPublic(ctx, filter)
}

// ListForCompany returns the calling company's own jobs, hidden included.
func (s *Service) ListForCompany(ctx context.Context, p authz.Principal) ([]Job, error) {
	if !p.Authenticated() {
		return nil, authz.ErrUnauthenticated
	}
	if p.Kind != authz.KindCompany {
		return nil, authz.ErrNotOwner
	}
	return s.Repo.ListByCompany(ctx, p.ID)
}

// ListForInstitution returns jobs across the institution's company roster.
func (s *Service) ListForInstitution(ctx context.Context, p authz.Principal) ([]Job, error) {
	if !p.Authenticated() {
		return nil, authz.ErrUnauthenticated
	}
	if p.Kind != authz.KindInstitution {
		return nil, authz.ErrNotOwner
	}
	companyIDs, err := s.Companies.IDsByInstitution(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByCompanyIDs(ctx, companyIDs)
}

// Categories lists the distinct categories over visible jobs.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.Repo.Categories(ctx)
}

// Locations lists the distinct locations over visible jobs.
func (s *Service) Locations(ctx context.Context) ([]string, error) {
	return s.Repo.Locations(ctx)
}

// CompanyInfoFor resolves embedded company details, tolerating gaps: a
// listing never fails because one company row is missing.
func (s *Service) CompanyInfoFor(ctx context.Context, companyID string) CompanyInfo {
	if s.Companies == nil {
		return CompanyInfo{ID: companyID}
	}
	info, err := s.Companies.Info(ctx, companyID)
	if err != nil {
		return CompanyInfo{ID: companyID}
	}
	return info
}

// ApplicationCounts returns per-job application totals for owner listings.
func (s *Service) ApplicationCounts(ctx context.Context, list []Job) map[string]int {
	if s.Counts == nil || len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	for _, job := range list {
		ids = append(ids, job.ID)
	}
	counts, err := s.Counts.CountByJobIDs(ctx, ids)
	if err != nil {
		return nil
	}
	return counts
}
