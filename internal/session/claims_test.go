// ABOUTME: Tests for unverified JWT claim decoding
// ABOUTME: Covers email/sub fallback, expiry and opaque tokens

package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestParseClaims_Subject(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{"sub": "ada@example.com", "exp": exp.Unix()})

	c, err := ParseClaims(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "ada@example.com" {
		t.Errorf("expected email from sub, got %q", c.Email)
	}
	if !c.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, c.ExpiresAt)
	}
	if c.Expired(time.Now()) {
		t.Error("expected token not expired")
	}
}

func TestParseClaims_EmailClaimWins(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "42", "email": "grace@example.com"})

	c, err := ParseClaims(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "grace@example.com" {
		t.Errorf("expected email claim, got %q", c.Email)
	}
	if !c.ExpiresAt.IsZero() || c.Expired(time.Now()) {
		t.Error("token without exp should never be expired")
	}
}

func TestParseClaims_Expired(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "a@b.co", "exp": time.Now().Add(-time.Minute).Unix()})

	c, err := ParseClaims(tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Expired(time.Now()) {
		t.Error("expected token to be expired")
	}
}

func TestParseClaims_Opaque(t *testing.T) {
	for _, tok := range []string{"", "opaque-token", "a.b"} {
		if _, err := ParseClaims(tok); err != ErrNotJWT {
			t.Errorf("ParseClaims(%q) error = %v, want ErrNotJWT", tok, err)
		}
	}
}

func TestEmail_FromStore(t *testing.T) {
	s := NewMemoryStore(signed(t, jwt.MapClaims{"sub": "lin@example.com"}))
	if got := Email(s); got != "lin@example.com" {
		t.Errorf("expected lin@example.com, got %q", got)
	}
	if got := Email(NewMemoryStore("opaque")); got != "" {
		t.Errorf("expected empty email for opaque token, got %q", got)
	}
}
