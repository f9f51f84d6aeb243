package applications

import "context"

var (
	ErrNotFound  = errNotFound{}
	ErrDuplicate = errDuplicate{}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "application not found" }

type errDuplicate struct{}

func (errDuplicate) Error() string { return "application already exists for this job and applicant" }

type Repo interface {
	// Create persists a new application. The (job, applicant) pair is
	// unique; a second attempt returns ErrDuplicate and leaves the first
	// row untouched.
	Create(ctx context.Context, application Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	ListByApplicant(ctx context.Context, applicantIdentity string) ([]Application, error)
	ListByJobIDs(ctx context.Context, jobIDs []string) ([]Application, error)
	CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error)
	CountPendingByJobIDs(ctx context.Context, jobIDs []string) (int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// Refs resolves the job and applicant for the ownership graph.
	Refs(ctx context.Context, id string) (jobID, applicantIdentity string, err error)
}
