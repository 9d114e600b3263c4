package security

import "github.com/google/uuid"

// NewVerificationCode returns an opaque one-time code. A random UUID carries
// 122 bits of entropy, enough to make guessing infeasible within the code's
// two-day lifetime.
func NewVerificationCode() string {
	return uuid.NewString()
}
