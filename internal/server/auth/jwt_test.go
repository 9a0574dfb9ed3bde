package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/airtimehq/airtime/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	subject := "GALICE"

	tok, err := GenerateToken(subject, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := GetSubjectFromToken(tok, secret)
	if err != nil {
		t.Fatalf("GetSubjectFromToken error: %v", err)
	}
	if got != subject {
		t.Fatalf("subject mismatch: got %q want %q", got, subject)
	}
}

func TestGenerateToken_SubjectIsStandardSubClaim(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("GALICE", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}); err != nil {
		t.Fatalf("ParseWithClaims error: %v", err)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		t.Fatalf("GetSubject error: %v", err)
	}
	if sub != "GALICE" {
		t.Fatalf("sub claim mismatch: got %q want %q", sub, "GALICE")
	}
}

func TestGetSubjectFromToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("GALICE", []byte("secret"), -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetSubjectFromToken(tok, []byte("secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestGetSubjectFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("GALICE", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetSubjectFromToken(tok, []byte("wrong-secret"))
	if err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestGetSubjectFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetSubjectFromToken("not.a.jwt", []byte("k"))
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}

func TestContextAuthenticator(t *testing.T) {
	t.Parallel()

	a := NewContextAuthenticator()

	ctx := ContextWithSubject(context.Background(), "GALICE")
	if err := a.RequireAuth(ctx, "GALICE"); err != nil {
		t.Fatalf("RequireAuth error: %v", err)
	}

	if err := a.RequireAuth(ctx, "GBOB"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign principal, got %v", err)
	}

	if err := a.RequireAuth(context.Background(), "GALICE"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without subject, got %v", err)
	}
}
