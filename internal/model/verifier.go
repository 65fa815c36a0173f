package model

import "context"

// SecondFactorVerifier checks a submitted code for a user during login.
// Implementations consume single-use material when they accept a code.
type SecondFactorVerifier interface {
	Name() string
	Verify(ctx context.Context, user User, code string) (bool, error)
}
