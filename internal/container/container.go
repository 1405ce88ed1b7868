package container

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-register-login/config"
	"github.com/oksasatya/go-register-login/internal/application"
	repo "github.com/oksasatya/go-register-login/internal/domain/repository"
	"github.com/oksasatya/go-register-login/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/go-register-login/internal/infrastructure/postgres"
	"github.com/oksasatya/go-register-login/pkg/helpers"
)

// Container holds the components built at startup. Router modules are wired
// from it; nothing in here is global.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool  *pgxpool.Pool
	DB    *sql.DB
	Redis *redis.Client

	Users   repo.UserRepository
	Auth    *application.Service
	Captcha *application.CaptchaService // nil when REDIS_ADDR is empty
}

// Build wires repositories and services on top of already opened
// connections. rdb may be nil.
func Build(cfg *config.Config, logger *logrus.Logger, db pginfra.DBTX, rdb redis.Cmdable) *Container {
	users := pginfra.NewUserRepository(db)
	c := &Container{
		Config: cfg,
		Logger: logger,
		Users:  users,
		Auth:   application.NewService(users, helpers.NewBcryptHasher(cfg.BcryptCost), logger),
	}
	if rdb != nil {
		c.Captcha = application.NewCaptchaService(cache.NewChallengeStore(rdb), cfg.CaptchaTTL, logger)
	}
	return c
}

// Open sets up Postgres (and Redis when configured) and builds the
// container. Unreachable backends are logged, not returned: requests fail
// with a database error until they come back. Call Close on shutdown.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, err
	}
	if err := pginfra.Ping(ctx, pool); err != nil {
		logger.WithError(err).WithField("host", cfg.DBHost).Warn("postgres not reachable, serving database errors until it is")
	}
	db := pginfra.OpenDB(pool)

	var rdb *redis.Client
	var cmd redis.Cmdable
	if cfg.RedisAddr != "" {
		rdb = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis not reachable, captcha challenges will fail until it is")
		}
		cmd = rdb
	} else {
		logger.Info("REDIS_ADDR not set, captcha issuing disabled")
	}

	c := Build(cfg, logger, db, cmd)
	c.Pool = pool
	c.DB = db
	c.Redis = rdb
	return c, nil
}

func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
