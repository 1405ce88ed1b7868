package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-register-login/internal/application"
	"github.com/oksasatya/go-register-login/pkg/validation"
)

type AuthService interface {
	Register(ctx context.Context, email, password, confirmPassword string) application.AuthResult
	Login(ctx context.Context, email, password, humanToken string, captchaAnswer *int) application.AuthResult
}

// AnswerResolver looks up the expected answer of an issued challenge.
type AnswerResolver interface {
	Expected(ctx context.Context, id string) *int
}

type AuthHandler struct {
	Svc     AuthService
	Answers AnswerResolver // optional
	Logger  *logrus.Logger
}

func NewAuthHandler(svc AuthService, answers AnswerResolver, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Answers: answers, Logger: logger}
}

type registerRequest struct {
	Email           textField `json:"email"`
	Password        textField `json:"password"`
	ConfirmPassword textField `json:"confirmPassword"`
}

type loginRequest struct {
	Email         textField  `json:"email"`
	Password      textField  `json:"password"`
	HumanToken    tokenField `json:"humanToken"`
	CaptchaAnswer intField   `json:"captchaAnswer"`
	CaptchaID     textField  `json:"captchaId"`
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, application.AuthResult{
		Success: false,
		Errors:  validation.ToErrors(err),
	})
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		registerOutcomes.Add(outcomeBadRequest, 1)
		badRequest(c, err)
		return
	}

	res := h.Svc.Register(c.Request.Context(), string(req.Email), string(req.Password), string(req.ConfirmPassword))
	registerOutcomes.Add(outcome(res), 1)
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{"user_id": res.User.ID, "request_id": c.GetString("request_id")}).Info("user registered")
	}
	c.JSON(http.StatusCreated, res)
}

// Login POST /api/login
// captchaId is only consulted when captchaAnswer is absent. Only a body that
// is not a JSON object gets 400; every other failure is 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		loginOutcomes.Add(outcomeBadRequest, 1)
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	answer := req.CaptchaAnswer.Ptr()
	if answer == nil && req.CaptchaID != "" && h.Answers != nil {
		answer = h.Answers.Expected(ctx, string(req.CaptchaID))
	}

	res := h.Svc.Login(ctx, string(req.Email), string(req.Password), string(req.HumanToken), answer)
	loginOutcomes.Add(outcome(res), 1)
	if !res.Success {
		c.JSON(http.StatusUnauthorized, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
