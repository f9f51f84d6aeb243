package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := Issue("company", "co-1", "hire@acme.test")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Kind != "company" || claims.Sub != "co-1" || claims.Email != "hire@acme.test" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp <= claims.Iat {
		t.Fatalf("expiry %d not after issued-at %d", claims.Exp, claims.Iat)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := Issue("institution", "inst-1", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("VerifyJWT with rotated secret = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	now := time.Now().UTC().Unix()
	token, err := SignJWT(Claims{
		Kind: "company",
		Sub:  "co-1",
		Iat:  now - 3600,
		Exp:  now - 60,
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	if _, err := VerifyJWT(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("VerifyJWT expired = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", "!!.??.##"} {
		if _, err := VerifyJWT(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("VerifyJWT(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestSignRequiresKindAndSub(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := SignJWT(Claims{Sub: "co-1"}); err == nil {
		t.Fatal("expected error for missing kind")
	}
	if _, err := SignJWT(Claims{Kind: "company"}); err == nil {
		t.Fatal("expected error for missing sub")
	}
}
