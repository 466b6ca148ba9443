package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and wrong
	// role alike so callers cannot tell which field failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// DuplicateError reports a uniqueness violation on registration. Field names
// the offending input so the caller can correct it.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// AsDuplicate unwraps err into a DuplicateError, if it is one.
func AsDuplicate(err error) (*DuplicateError, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup, true
	}
	return nil, false
}
