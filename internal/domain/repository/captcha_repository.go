package repository

import (
	"context"
	"time"
)

// ChallengeStore keeps expected captcha answers between issuing a challenge
// and the login attempt that answers it.
type ChallengeStore interface {
	Save(ctx context.Context, id string, answer int, ttl time.Duration) error
	// Take returns the stored answer and removes it. ErrNotFound when the
	// challenge is unknown or expired.
	Take(ctx context.Context, id string) (int, error)
}
