package authz

// Reason classifies why the Guard denied an operation.
type Reason string

const (
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotOwner        Reason = "not_owner"
	ReasonNoSuchResource  Reason = "no_such_resource"
)

// Denial is the error returned for every denied decision. Callers map it
// to HTTP status codes; reads use 404 for both NotOwner and NoSuchResource
// so resource existence is not leaked to non-owners.
type Denial struct {
	Reason Reason
}

func (d Denial) Error() string {
	return "authorization denied: " + string(d.Reason)
}

var (
	ErrUnauthenticated = Denial{Reason: ReasonUnauthenticated}
	ErrNotOwner        = Denial{Reason: ReasonNotOwner}
	ErrNoSuchResource  = Denial{Reason: ReasonNoSuchResource}
)
