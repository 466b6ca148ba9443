package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetTokenTTL is the validity window of a password-reset link.
const ResetTokenTTL = 1 * time.Hour

// resetPurposeSalt scopes the signing key to password resets so a token can
// never be replayed against another feature that shares SECRET_KEY.
const resetPurposeSalt = "mineconect.password-reset"

// TokenSigner issues and validates stateless password-reset tokens. The
// token embeds the email and issuance time, signed with a key derived from
// the server secret; nothing is stored server-side, so a token cannot be
// revoked before its window ends.
type TokenSigner struct {
	key []byte
	now func() time.Time
}

func NewTokenSigner(secret string) *TokenSigner {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(resetPurposeSalt))
	return &TokenSigner{key: mac.Sum(nil), now: time.Now}
}

type resetClaims struct {
	jwt.RegisteredClaims
}

// Issue signs a URL-safe reset token for the email.
func (t *TokenSigner) Issue(email string) (string, error) {
	now := t.now().UTC()
	claims := resetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Validate returns the embedded email when the signature checks out and the
// signed issuance time is within ResetTokenTTL. The signature is verified
// before any claim is read; a tampered token never reaches the age check.
func (t *TokenSigner) Validate(token string) (string, error) {
	var claims resetClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return t.key, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalid
	}

	if claims.IssuedAt == nil || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	age := t.now().UTC().Sub(claims.IssuedAt.Time)
	if age < 0 {
		return "", ErrTokenInvalid
	}
	if age > ResetTokenTTL {
		return "", ErrTokenExpired
	}
	return claims.Subject, nil
}
