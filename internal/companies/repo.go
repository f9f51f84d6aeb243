package companies

import "context"

var (
	ErrNotFound       = errNotFound{}
	ErrDuplicateEmail = errDuplicateEmail{}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "company not found" }

type errDuplicateEmail struct{}

func (errDuplicateEmail) Error() string { return "company email already registered" }

type Repo interface {
	Create(ctx context.Context, company Company) error
	GetByID(ctx context.Context, id string) (Company, error)
	GetByEmail(ctx context.Context, email string) (Company, error)
	Update(ctx context.Context, company Company) error
	Delete(ctx context.Context, id string) error
	ListByInstitution(ctx context.Context, institutionID string) ([]Company, error)
	// InstitutionID resolves the owning institution for the ownership graph;
	// "" means the company is self-registered and unowned.
	InstitutionID(ctx context.Context, companyID string) (string, error)
}
