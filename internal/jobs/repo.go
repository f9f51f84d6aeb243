package jobs

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "job not found" }

// Filter narrows public job search. Title and Location match as
// case-insensitive substrings, Category matches exactly.
type Filter struct {
	Title    string
	Location string
	Category string
}

type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, id string) (Job, error)
	Delete(ctx context.Context, id string) error
	SetVisible(ctx context.Context, id string, visible bool) error
	// ListPublic returns visible jobs matching the filter, newest first.
	ListPublic(ctx context.Context, filter Filter) ([]Job, error)
	ListByCompany(ctx context.Context, companyID string) ([]Job, error)
	ListByCompanyIDs(ctx context.Context, companyIDs []string) ([]Job, error)
	Categories(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
	// CompanyID resolves the owning company for the ownership graph.
	CompanyID(ctx context.Context, jobID string) (string, error)
}
