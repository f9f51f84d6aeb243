package applications

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/shared/metrics"
)

var ErrInvalidStatus = errors.New("invalid application status")

// JobInfo is the slice of job data application listings embed.
type JobInfo struct {
	ID          string
	Title       string
	Location    string
	Category    string
	CompanyID   string
	CompanyName string
}

// JobSource resolves job details and owner scopes. Wired in bootstrap over
// the jobs and companies stores.
type JobSource interface {
	Info(ctx context.Context, jobID string) (JobInfo, error)
	IDsByCompany(ctx context.Context, companyID string) ([]string, error)
	IDsByInstitution(ctx context.Context, institutionID string) ([]string, error)
}

// ApplicantInfo is the applicant summary reviewers see.
type ApplicantInfo struct {
	Identity   string
	Name       string
	Email      string
	PhotoURL   string
	ResumeLink string
}

// ApplicantSource resolves applicant profiles, best effort: a missing
// profile never fails a listing.
type ApplicantSource interface {
	Info(ctx context.Context, identity string) (ApplicantInfo, error)
}

type Service struct {
	Repo       Repo
	Guard      *authz.Guard
	Jobs       JobSource
	Applicants ApplicantSource
}

func NewService(repo Repo, guard *authz.Guard, jobs JobSource, applicants ApplicantSource) *Service {
	return &Service{Repo: repo, Guard: guard, Jobs: jobs, Applicants: applicants}
}

// Apply creates an application by the calling seeker for the given job.
// The storage layer serializes duplicates: only the first of two racing
// attempts wins, the other returns ErrDuplicate.
func (s *Service) Apply(ctx context.Context, p authz.Principal, jobID string) (Application, error) {
	if err := s.Guard.ForRequest().CanCreateApplication(ctx, p, jobID); err != nil {
		return Application{}, err
	}
	application := Application{
		ID:                uuid.NewString(),
		JobID:             jobID,
		ApplicantIdentity: p.ID,
		Status:            StatusPending,
	}
	if err := s.Repo.Create(ctx, application); err != nil {
		if errors.Is(err, ErrDuplicate) {
			metrics.IncApplicationDuplicate()
		}
		return Application{}, err
	}
	metrics.IncApplicationCreated()
	return application, nil
}

// ListForApplicant returns the calling seeker's own applications.
func (s *Service) ListForApplicant(ctx context.Context, p authz.Principal) ([]Application, error) {
	if !p.Authenticated() {
		return nil, authz.ErrUnauthenticated
	}
	if p.Kind != authz.KindSeeker {
		return nil, authz.ErrNotOwner
	}
	return s.Repo.ListByApplicant(ctx, p.ID)
}

// ListForCompany returns applications to the calling company's jobs.
func (s *Service) ListForCompany(ctx context.Context, p authz.Principal) ([]Application, error) {
	if !p.Authenticated() {
		return nil, authz.ErrUnauthenticated
	}
	if p.Kind != authz.KindCompany {
		return nil, authz.ErrNotOwner
	}
	jobIDs, err := s.Jobs.IDsByCompany(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByJobIDs(ctx, jobIDs)
}

// ListForInstitution returns applications across the institution's roster.
func (s *Service) ListForInstitution(ctx context.Context, p authz.Principal) ([]Application, error) {
	if !p.Authenticated() {
		return nil, authz.ErrUnauthenticated
	}
	if p.Kind != authz.KindInstitution {
		return nil, authz.ErrNotOwner
	}
	jobIDs, err := s.Jobs.IDsByInstitution(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByJobIDs(ctx, jobIDs)
}

// UpdateStatus moves an application between Pending/Accepted/Rejected.
// Last commit wins under concurrent updates.
func (s *Service) UpdateStatus(ctx context.Context, p authz.Principal, applicationID, status string) (Application, error) {
	if !validStatus(status) {
		return Application{}, ErrInvalidStatus
	}
	if err := s.Guard.ForRequest().CanManageApplication(ctx, p, applicationID); err != nil {
		return Application{}, err
	}
	if err := s.Repo.UpdateStatus(ctx, applicationID, status); err != nil {
		return Application{}, err
	}
	return s.Repo.GetByID(ctx, applicationID)
}

// JobInfoFor resolves embedded job details, tolerating missing rows.
func (s *Service) JobInfoFor(ctx context.Context, jobID string) JobInfo {
	if s.Jobs == nil {
		return JobInfo{ID: jobID}
	}
	info, err := s.Jobs.Info(ctx, jobID)
	if err != nil {
		return JobInfo{ID: jobID}
	}
	return info
}

// ApplicantInfoFor resolves the applicant summary, tolerating missing rows.
func (s *Service) ApplicantInfoFor(ctx context.Context, identity string) ApplicantInfo {
	if s.Applicants == nil {
		return ApplicantInfo{Identity: identity}
	}
	info, err := s.Applicants.Info(ctx, identity)
	if err != nil {
		return ApplicantInfo{Identity: identity}
	}
	return info
}
