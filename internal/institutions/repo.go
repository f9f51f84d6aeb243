package institutions

import "context"

var (
	ErrNotFound       = errNotFound{}
	ErrDuplicateEmail = errDuplicateEmail{}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "institution not found" }

type errDuplicateEmail struct{}

func (errDuplicateEmail) Error() string { return "institution email already registered" }

type Repo interface {
	Create(ctx context.Context, institution Institution) error
	GetByID(ctx context.Context, id string) (Institution, error)
	GetByEmail(ctx context.Context, email string) (Institution, error)
	Update(ctx context.Context, institution Institution) error
}
