package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef", "tourmate", time.Hour)

	token, err := issuer.Issue(42, "mina")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	ac, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ac.UserID != 42 || ac.Nickname != "mina" {
		t.Errorf("auth context = %+v", ac)
	}
	if ac.TokenID == "" {
		t.Error("expected a token id")
	}
}

func TestVerifyRejects(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef", "tourmate", time.Hour)
	good, _ := issuer.Issue(1, "mina")

	expired := NewTokenIssuer("0123456789abcdef", "tourmate", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue(1, "mina")

	otherSecret, _ := NewTokenIssuer("fedcba9876543210", "tourmate", time.Hour).Issue(1, "mina")
	otherIssuer, _ := NewTokenIssuer("0123456789abcdef", "someone-else", time.Hour).Issue(1, "mina")

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1", Issuer: "tourmate"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"tampered":     good + "x",
		"expired":      old,
		"wrong secret": otherSecret,
		"wrong issuer": otherIssuer,
		"alg none":     none,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Verify(token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
