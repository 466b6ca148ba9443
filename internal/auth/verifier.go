package auth

import "context"

// UserLookup is the slice of the repository the verifier needs.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Verifier checks email+password+role triples against the identity store.
// It performs no writes; advancing to a challenge is the caller's job.
type Verifier struct {
	Users  UserLookup
	Hasher PasswordHasher
}

// Verify returns the user when the triple matches a stored, active account.
// Every mismatch (unknown email, wrong role, wrong password, deactivated
// account) fails with ErrInvalidCredentials so nothing leaks about which
// field was wrong. The password is always compared when a hash exists, even
// on role mismatch, to keep the rejection paths structurally alike.
func (v *Verifier) Verify(ctx context.Context, email, password string, role Role) (*User, error) {
	user, err := v.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	passwordOK := v.Hasher.Compare(user.PasswordHash, password)
	if !passwordOK || user.Role != role || !user.Active {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
