package credentials

import (
	"context"
	"errors"
	"testing"
)

type staticSource struct {
	email string
	id    string
	hash  string
}

func (s staticSource) CredentialByEmail(ctx context.Context, email string) (string, string, error) {
	if email != s.email {
		return "", "", errors.New("no such row")
	}
	return s.id, s.hash, nil
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("hash must not equal the password")
	}
	if err := CheckPassword(hash, "hunter2!"); err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("CheckPassword wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("  "); err == nil {
		t.Fatal("expected error for blank password")
	}
}

func TestVerifier(t *testing.T) {
	hash, err := HashPassword("open-sesame")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	v := NewVerifier()
	v.Register(KindCompany, staticSource{email: "hr@acme.test", id: "co-1", hash: hash})
	ctx := context.Background()

	id, err := v.Verify(ctx, KindCompany, "HR@acme.test ", "open-sesame")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id != "co-1" {
		t.Fatalf("Verify id = %q, want co-1", id)
	}

	if _, err := v.Verify(ctx, KindCompany, "hr@acme.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v, want ErrInvalidCredentials", err)
	}
	if _, err := v.Verify(ctx, KindCompany, "nobody@acme.test", "open-sesame"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email = %v, want ErrInvalidCredentials", err)
	}
	if _, err := v.Verify(ctx, KindInstitution, "hr@acme.test", "open-sesame"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unregistered kind = %v, want ErrInvalidCredentials", err)
	}
}
