package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-register-login/internal/domain/repository"
	"github.com/oksasatya/go-register-login/pkg/helpers"
)

type storedChallenge struct {
	Answer   int    `json:"answer"`
	IssuedAt string `json:"issued_at"`
}

// ChallengeStore keeps captcha answers in Redis, one key per challenge.
type ChallengeStore struct {
	rdb redis.Cmdable
}

func NewChallengeStore(rdb redis.Cmdable) *ChallengeStore {
	return &ChallengeStore{rdb: rdb}
}

func challengeKey(id string) string {
	return "captcha:challenge:" + id
}

func (s *ChallengeStore) Save(ctx context.Context, id string, answer int, ttl time.Duration) error {
	v := storedChallenge{Answer: answer, IssuedAt: time.Now().UTC().Format(time.RFC3339Nano)}
	return helpers.RedisSetJSON(ctx, s.rdb, challengeKey(id), v, ttl)
}

func (s *ChallengeStore) Take(ctx context.Context, id string) (int, error) {
	var v storedChallenge
	ok, err := helpers.RedisTakeJSON(ctx, s.rdb, challengeKey(id), &v)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, repository.ErrNotFound
	}
	return v.Answer, nil
}

var _ repository.ChallengeStore = (*ChallengeStore)(nil)
