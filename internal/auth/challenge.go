package auth

import (
	"crypto/rand"
	"fmt"
	"time"
)

// ChallengeTTL is the validity window of a one-time login code.
const ChallengeTTL = 10 * time.Minute

// PendingVerification is the per-session challenge state created after a
// successful credential check and destroyed on first successful validation.
type PendingVerification struct {
	Code      string
	ExpiresAt time.Time
	UserID    string
}

// ChallengeOutcome is the result of validating a submitted code.
type ChallengeOutcome int

const (
	ChallengeOK ChallengeOutcome = iota
	ChallengeAbsent
	ChallengeExpired
	ChallengeInvalid
)

func (o ChallengeOutcome) String() string {
	switch o {
	case ChallengeOK:
		return "ok"
	case ChallengeAbsent:
		return "absent"
	case ChallengeExpired:
		return "expired"
	case ChallengeInvalid:
		return "invalid"
	}
	return "unknown"
}

// NewChallenge draws a fresh 6-digit code for the user. Expiry is computed
// in UTC so local timezone changes cannot shift the window.
func NewChallenge(userID string, now time.Time) PendingVerification {
	return PendingVerification{
		Code:      randomSixDigitCode(),
		ExpiresAt: now.UTC().Add(ChallengeTTL),
		UserID:    userID,
	}
}

// Validate checks a submitted code against the pending state. The order is
// fixed: no pending challenge, then expiry (regardless of code correctness),
// then exact comparison. A code is accepted only strictly before its expiry
// instant. nil receiver means no challenge was ever issued.
func (p *PendingVerification) Validate(code string, now time.Time) ChallengeOutcome {
	if p == nil || p.Code == "" {
		return ChallengeAbsent
	}
	if !now.UTC().Before(p.ExpiresAt) {
		return ChallengeExpired
	}
	if code != p.Code {
		return ChallengeInvalid
	}
	return ChallengeOK
}

func randomSixDigitCode() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "000000"
	}
	n := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	return fmt.Sprintf("%06d", n%1000000)
}
