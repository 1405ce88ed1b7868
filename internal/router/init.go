package router

import (
	"github.com/oksasatya/go-register-login/internal/container"
	handlers "github.com/oksasatya/go-register-login/internal/interface/http"
	"github.com/oksasatya/go-register-login/internal/router/modules"
)

type AuthModuleDeps struct {
	Auth    *handlers.AuthHandler
	Captcha *handlers.CaptchaHandler
}

func buildAuthDeps(c *container.Container) AuthModuleDeps {
	// Keep the interfaces nil rather than holding a nil *CaptchaService.
	var answers handlers.AnswerResolver
	var issuer handlers.ChallengeIssuer
	if c.Captcha != nil {
		answers = c.Captcha
		issuer = c.Captcha
	}
	return AuthModuleDeps{
		Auth:    handlers.NewAuthHandler(c.Auth, answers, c.Logger),
		Captcha: handlers.NewCaptchaHandler(issuer, c.Logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, c *container.Container) {
	deps := buildAuthDeps(c)
	r.Add(modules.NewAuthModule(deps.Auth, deps.Captcha))
	if c.Config != nil && c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
