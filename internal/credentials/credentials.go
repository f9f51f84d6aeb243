package credentials

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Kind names a local credential namespace. Companies and institutions have
// independent email namespaces; seekers never have local credentials.
type Kind string

const (
	KindCompany     Kind = "company"
	KindInstitution Kind = "institution"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so login failures don't reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail indicates the email is already registered for the kind.
	ErrDuplicateEmail = errors.New("email already registered")
)

// HashPassword returns a salted bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash against a candidate password.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Source resolves a stored credential by email within one kind's namespace.
type Source interface {
	CredentialByEmail(ctx context.Context, email string) (principalID, passwordHash string, err error)
}

// Verifier is the credential store's verify side: one lookup path for every
// local principal kind.
type Verifier struct {
	sources map[Kind]Source
}

// NewVerifier builds a Verifier with no registered sources.
func NewVerifier() *Verifier {
	return &Verifier{sources: make(map[Kind]Source)}
}

// Register attaches the credential source for a kind.
func (v *Verifier) Register(kind Kind, src Source) {
	v.sources[kind] = src
}

// Verify checks email+password for the given kind and returns the principal
// ID on success. All failures surface as ErrInvalidCredentials.
func (v *Verifier) Verify(ctx context.Context, kind Kind, email, password string) (string, error) {
	src, ok := v.sources[kind]
	if !ok {
		return "", ErrInvalidCredentials
	}
	id, hash, err := src.CredentialByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := CheckPassword(hash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return id, nil
}
