package application

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-register-login/internal/domain/entity"
	repo "github.com/oksasatya/go-register-login/internal/domain/repository"
	"github.com/oksasatya/go-register-login/pkg/helpers"
)

const maxOperand = 9

// CaptchaService issues addition challenges and resolves their answers.
type CaptchaService struct {
	Store  repo.ChallengeStore
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewCaptchaService(store repo.ChallengeStore, ttl time.Duration, logger *logrus.Logger) *CaptchaService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CaptchaService{Store: store, TTL: ttl, Logger: logger}
}

func randOperand() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxOperand))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 1, nil
}

// Issue creates a challenge and stores its answer until TTL elapses.
func (s *CaptchaService) Issue(ctx context.Context) (*entity.Challenge, error) {
	a, err := randOperand()
	if err != nil {
		return nil, err
	}
	b, err := randOperand()
	if err != nil {
		return nil, err
	}
	ch := &entity.Challenge{
		ID:        uuid.NewString(),
		Question:  fmt.Sprintf("What is %d + %d?", a, b),
		Answer:    a + b,
		ExpiresAt: time.Now().Add(s.TTL).UTC(),
	}
	if err := s.Store.Save(ctx, ch.ID, ch.Answer, s.TTL); err != nil {
		return nil, err
	}
	return ch, nil
}

// Expected consumes a challenge and returns its answer. Unknown, expired or
// unreadable challenges yield nil, which the captcha gate treats as absent.
func (s *CaptchaService) Expected(ctx context.Context, id string) *int {
	if id == "" {
		return nil
	}
	answer, err := s.Store.Take(ctx, id)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			helpers.LogWarn(s.Logger, "captcha: challenge lookup failed", err, logrus.Fields{"challenge_id": id})
		}
		return nil
	}
	return &answer
}
