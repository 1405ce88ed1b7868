package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-register-login/config"
	"github.com/oksasatya/go-register-login/internal/application"
	"github.com/oksasatya/go-register-login/internal/container"
	pginfra "github.com/oksasatya/go-register-login/internal/infrastructure/postgres"
	"github.com/oksasatya/go-register-login/pkg/helpers"
	"github.com/oksasatya/go-register-login/pkg/validation"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	c, err := container.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer c.Close()

	if err := pginfra.MigrateDSN(cfg.PostgresDSN(), logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	email := getenv("SEED_EMAIL", "demo@example.com")
	password := getenv("SEED_PASSWORD", "Password123")

	res, err := seedUser(ctx, c.Auth, email, password)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	if res.User == nil {
		fmt.Printf("seed user already present: email=%s\n", email)
		return
	}
	fmt.Printf("seeded user: id=%d email=%s password=%s\n", res.User.ID, res.User.Email, password)
}

type registrar interface {
	Register(ctx context.Context, email, password, confirmPassword string) application.AuthResult
}

// seedUser registers the demo user. An already registered email is not an
// error, so the command can be re-run; the returned result then has no user.
func seedUser(ctx context.Context, svc registrar, email, password string) (application.AuthResult, error) {
	res := svc.Register(ctx, email, password, password)
	if res.Success {
		return res, nil
	}
	if slices.Equal(res.Errors[validation.FieldEmail], []string{application.MsgEmailTaken}) {
		return application.AuthResult{}, nil
	}
	return res, fmt.Errorf("register rejected: %v", res.Errors)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
