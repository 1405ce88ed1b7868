package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-register-login/internal/interface/http"
)

// AuthModule registers the public account endpoints:
// POST /api/register, POST /api/login, GET /api/captcha
type AuthModule struct {
	Handler *handlers.AuthHandler
	Captcha *handlers.CaptchaHandler
}

func NewAuthModule(h *handlers.AuthHandler, captcha *handlers.CaptchaHandler) *AuthModule {
	return &AuthModule{Handler: h, Captcha: captcha}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
	rg.GET("/captcha", m.Captcha.Issue)
}
