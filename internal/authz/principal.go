package authz

// Kind identifies the class of an authenticated actor.
type Kind string

const (
	KindAnonymous   Kind = ""
	KindSeeker      Kind = "seeker"
	KindCompany     Kind = "company"
	KindInstitution Kind = "institution"
)

// Principal is the single tagged identity consumed by the Guard. Seekers
// carry the opaque identity string issued by the external identity
// provider; companies and institutions carry their row IDs.
type Principal struct {
	Kind Kind
	ID   string
}

// Anonymous is the zero principal for unauthenticated requests.
var Anonymous = Principal{}

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool {
	return p.Kind != KindAnonymous && p.ID != ""
}
