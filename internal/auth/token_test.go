package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenSigner_Roundtrip(t *testing.T) {
	t.Parallel()

	signer := NewTokenSigner("server-secret")
	tok, err := signer.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	email, err := signer.Validate(tok)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if email != "a@x.com" {
		t.Fatalf("email mismatch: got %q", email)
	}
}

func TestTokenSigner_Expired(t *testing.T) {
	t.Parallel()

	signer := NewTokenSigner("server-secret")
	issued := time.Now()
	signer.now = func() time.Time { return issued }

	tok, err := signer.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	signer.now = func() time.Time { return issued.Add(ResetTokenTTL + time.Minute) }
	_, err = signer.Validate(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	signer.now = func() time.Time { return issued.Add(ResetTokenTTL - time.Minute) }
	if _, err := signer.Validate(tok); err != nil {
		t.Fatalf("token inside window rejected: %v", err)
	}
}

func TestTokenSigner_TamperedPayload(t *testing.T) {
	t.Parallel()

	signer := NewTokenSigner("server-secret")
	tok, err := signer.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Flip one byte of the payload segment; the signature check must reject
	// before any claim is read.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = signer.Validate(tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestTokenSigner_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenSigner("secret-a").Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenSigner("secret-b").Validate(tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestTokenSigner_Malformed(t *testing.T) {
	t.Parallel()

	signer := NewTokenSigner("server-secret")
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := signer.Validate(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestTokenSigner_FutureIssuanceRejected(t *testing.T) {
	t.Parallel()

	signer := NewTokenSigner("server-secret")
	issued := time.Now()
	signer.now = func() time.Time { return issued.Add(time.Hour) }

	tok, err := signer.Issue("a@x.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	signer.now = func() time.Time { return issued }
	if _, err := signer.Validate(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for future-issued token, got %v", err)
	}
}
