package seekers

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "seeker not found" }

type Repo interface {
	Upsert(ctx context.Context, seeker Seeker) error
	GetByIdentity(ctx context.Context, identity string) (Seeker, error)
}
