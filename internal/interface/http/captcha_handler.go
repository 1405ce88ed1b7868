package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-register-login/internal/domain/entity"
	"github.com/oksasatya/go-register-login/pkg/helpers"
	"github.com/oksasatya/go-register-login/pkg/response"
)

type ChallengeIssuer interface {
	Issue(ctx context.Context) (*entity.Challenge, error)
}

type CaptchaHandler struct {
	Issuer ChallengeIssuer // nil when no challenge store is configured
	Logger *logrus.Logger
}

func NewCaptchaHandler(issuer ChallengeIssuer, logger *logrus.Logger) *CaptchaHandler {
	return &CaptchaHandler{Issuer: issuer, Logger: logger}
}

type challengeResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issue GET /api/captcha
func (h *CaptchaHandler) Issue(c *gin.Context) {
	if h.Issuer == nil {
		response.Error[any](c, http.StatusServiceUnavailable, "captcha unavailable", nil)
		return
	}
	ch, err := h.Issuer.Issue(c.Request.Context())
	if err != nil {
		helpers.LogError(h.Logger, "captcha: issue failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Error[any](c, http.StatusServiceUnavailable, "captcha unavailable", nil)
		return
	}
	captchaIssued.Add(1)
	response.Success(c, http.StatusOK, challengeResponse{
		ID:        ch.ID,
		Question:  ch.Question,
		ExpiresAt: ch.ExpiresAt,
	}, "captcha issued", nil)
}
