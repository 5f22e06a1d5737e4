package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "token-test-secret-at-least-32-chars!"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := token.NewService([]byte(testKey), time.Hour)

	raw, err := svc.Issue("artist-1", domain.RoleArtist)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "artist-1" {
		t.Errorf("subject = %q, want artist-1", claims.Subject)
	}
	if claims.Role != domain.RoleArtist {
		t.Errorf("role = %q, want artist", claims.Role)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Errorf("lifetime = %v, want 1h", got)
	}
}

func TestVerify_Expired_ReturnsErrTokenInvalid(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := token.NewService([]byte(testKey), time.Hour).WithClock(fixedClock(issuedAt))

	raw, err := svc.Issue("artist-1", domain.RoleArtist)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := svc.WithClock(fixedClock(issuedAt.Add(2 * time.Hour)))
	if _, err := later.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_WrongKey_ReturnsErrTokenInvalid(t *testing.T) {
	raw, err := token.NewService([]byte("another-secret-that-is-32-chars!!"), time.Hour).Issue("u-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := token.NewService([]byte(testKey), time.Hour).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_Malformed_ReturnsErrTokenInvalid(t *testing.T) {
	svc := token.NewService([]byte(testKey), time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		if _, err := svc.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("Verify(%q): want ErrTokenInvalid, got %v", raw, err)
		}
	}
}

func TestVerify_MissingExpiry_ReturnsErrTokenInvalid(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-1"}).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := token.NewService([]byte(testKey), time.Hour).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_MissingSubject_ReturnsErrTokenInvalid(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := token.NewService([]byte(testKey), time.Hour).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerify_NoneAlgorithm_ReturnsErrTokenInvalid(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := token.NewService([]byte(testKey), time.Hour).Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestIssue_EmptySubject_Fails(t *testing.T) {
	if _, err := token.NewService([]byte(testKey), time.Hour).Issue("", domain.RoleUser); err == nil {
		t.Fatal("expected error for empty subject")
	}
}
