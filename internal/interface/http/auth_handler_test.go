package handlers

import (
	"context"
	"encoding/json"
	"expvar"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-register-login/internal/application"
	"github.com/oksasatya/go-register-login/internal/domain/entity"
	"github.com/oksasatya/go-register-login/pkg/validation"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password, confirmPassword string) application.AuthResult
	loginFn    func(ctx context.Context, email, password, humanToken string, captchaAnswer *int) application.AuthResult
}

func (s *stubAuthService) Register(ctx context.Context, email, password, confirmPassword string) application.AuthResult {
	return s.registerFn(ctx, email, password, confirmPassword)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, humanToken string, captchaAnswer *int) application.AuthResult {
	return s.loginFn(ctx, email, password, humanToken, captchaAnswer)
}

type stubResolver struct {
	answers map[string]int
	asked   []string
}

func (r *stubResolver) Expected(_ context.Context, id string) *int {
	r.asked = append(r.asked, id)
	a, ok := r.answers[id]
	if !ok {
		return nil
	}
	delete(r.answers, id)
	return &a
}

func newAuthEngine(h *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func counter(m *expvar.Map, key string) int64 {
	if v, ok := m.Get(key).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}

func TestAuthHandler_Register_Created(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, email, password, confirm string) application.AuthResult {
			assert.Equal(t, "a@b", email)
			assert.Equal(t, "Abc1", password)
			assert.Equal(t, "Abc1", confirm)
			return application.AuthResult{Success: true, User: &entity.PublicUser{ID: 1, Email: email}}
		},
	}
	before := counter(registerOutcomes, outcomeSuccess)

	rec := doJSON(newAuthEngine(NewAuthHandler(stub, nil, nil)), http.MethodPost, "/api/register",
		`{"email":"a@b","password":"Abc1","confirmPassword":"Abc1"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"id": float64(1), "email": "a@b"}, body["user"])
	assert.NotContains(t, body, "errors")
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, before+1, counter(registerOutcomes, outcomeSuccess))
}

func TestAuthHandler_Register_Rejected(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string) application.AuthResult {
			return application.AuthResult{Errors: validation.Errors{validation.FieldEmail: {application.MsgEmailTaken}}}
		},
	}

	rec := doJSON(newAuthEngine(NewAuthHandler(stub, nil, nil)), http.MethodPost, "/api/register",
		`{"email":"a@b","password":"Abc1","confirmPassword":"Abc1"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"email": []any{"Email already registered"}}, body["errors"])
	assert.NotContains(t, body, "user")
}

func TestAuthHandler_MalformedBody(t *testing.T) {
	called := false
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string) application.AuthResult {
			called = true
			return application.AuthResult{}
		},
		loginFn: func(context.Context, string, string, string, *int) application.AuthResult {
			called = true
			return application.AuthResult{}
		},
	}
	r := newAuthEngine(NewAuthHandler(stub, nil, nil))

	for _, path := range []string{"/api/register", "/api/login"} {
		for _, body := range []string{`{"email":`, ``, `not json`} {
			rec := doJSON(r, http.MethodPost, path, body)
			require.Equal(t, http.StatusBadRequest, rec.Code, "%s %q", path, body)
			assert.Equal(t, map[string]any{
				"success": false,
				"errors":  map[string]any{"general": []any{"Invalid request body"}},
			}, decode(t, rec))
		}
	}
	assert.False(t, called)
}

func TestAuthHandler_WrongTypesReachValidation(t *testing.T) {
	// Validation fails before the repository or hasher are touched.
	svc := application.NewService(nil, nil, nil)
	r := newAuthEngine(NewAuthHandler(svc, nil, nil))

	t.Run("register non-string email", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/api/register", `{"email":123,"password":"Abc1","confirmPassword":"Abc1"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]any{"email": []any{"Email is required"}}, decode(t, rec)["errors"])
	})

	t.Run("register non-string password still checks other fields", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/api/register", `{"email":"ab","password":true,"confirmPassword":["x"]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]any{
			"email":           []any{"Email must contain @"},
			"password":        []any{"Password is required"},
			"confirmPassword": []any{"Please confirm your password"},
		}, decode(t, rec)["errors"])
	})

	t.Run("login non-string email is 401", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/api/login", `{"email":123,"password":"Abc1","humanToken":"7","captchaAnswer":7}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, map[string]any{
			"success": false,
			"errors":  map[string]any{"email": []any{"Email is required"}},
		}, decode(t, rec))
	})

	t.Run("login captcha runs first", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/api/login", `{"email":123,"password":false,"humanToken":{},"captchaAnswer":7}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, map[string]any{"human": []any{"Human validation is required"}}, decode(t, rec)["errors"])
	})

	t.Run("login non-integer captcha answer counts as absent", func(t *testing.T) {
		rec := doJSON(r, http.MethodPost, "/api/login", `{"email":"a@b","password":"Abc1","humanToken":"7","captchaAnswer":"seven"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, map[string]any{"human": []any{"Human validation is required"}}, decode(t, rec)["errors"])
	})
}

func TestAuthHandler_Login_NumericHumanToken(t *testing.T) {
	var gotToken string
	var gotAnswer *int
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _, token string, answer *int) application.AuthResult {
			gotToken, gotAnswer = token, answer
			return application.AuthResult{Success: true, User: &entity.PublicUser{ID: 1, Email: "a@b"}}
		},
	}
	r := newAuthEngine(NewAuthHandler(stub, nil, nil))

	rec := doJSON(r, http.MethodPost, "/api/login", `{"email":"a@b","password":"Abc1","humanToken":7,"captchaAnswer":7.0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", gotToken)
	require.NotNil(t, gotAnswer)
	assert.Equal(t, 7, *gotAnswer)
}

func TestAuthHandler_Login_OK(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password, token string, answer *int) application.AuthResult {
			require.NotNil(t, answer)
			assert.Equal(t, 0, *answer)
			assert.Equal(t, "0", token)
			return application.AuthResult{Success: true, User: &entity.PublicUser{ID: 3, Email: email}}
		},
	}

	rec := doJSON(newAuthEngine(NewAuthHandler(stub, nil, nil)), http.MethodPost, "/api/login",
		`{"email":"a@b","password":"Abc1","humanToken":"0","captchaAnswer":0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"id": float64(3), "email": "a@b"}, decode(t, rec)["user"])
}

func TestAuthHandler_Login_Unauthorized(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string, string, *int) application.AuthResult {
			return application.AuthResult{Errors: validation.Errors{validation.FieldHuman: {application.MsgIncorrectCaptcha}}}
		},
	}
	before := counter(loginOutcomes, outcomeHuman)

	rec := doJSON(newAuthEngine(NewAuthHandler(stub, nil, nil)), http.MethodPost, "/api/login",
		`{"email":"a@b","password":"Abc1","humanToken":"8","captchaAnswer":7}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"human": []any{"Incorrect captcha answer"}}, body["errors"])
	assert.Equal(t, before+1, counter(loginOutcomes, outcomeHuman))
}

func TestAuthHandler_Login_CaptchaID(t *testing.T) {
	var got *int
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _, _ string, answer *int) application.AuthResult {
			got = answer
			return application.AuthResult{Success: true, User: &entity.PublicUser{ID: 1, Email: "a@b"}}
		},
	}

	t.Run("resolved when answer absent", func(t *testing.T) {
		resolver := &stubResolver{answers: map[string]int{"c1": 11}}
		r := newAuthEngine(NewAuthHandler(stub, resolver, nil))

		doJSON(r, http.MethodPost, "/api/login", `{"email":"a@b","password":"Abc1","humanToken":"11","captchaId":"c1"}`)
		require.NotNil(t, got)
		assert.Equal(t, 11, *got)

		// single use
		doJSON(r, http.MethodPost, "/api/login", `{"email":"a@b","password":"Abc1","humanToken":"11","captchaId":"c1"}`)
		assert.Nil(t, got)
	})

	t.Run("explicit answer wins", func(t *testing.T) {
		resolver := &stubResolver{answers: map[string]int{"c1": 11}}
		r := newAuthEngine(NewAuthHandler(stub, resolver, nil))

		doJSON(r, http.MethodPost, "/api/login", `{"email":"a@b","password":"Abc1","humanToken":"4","captchaAnswer":4,"captchaId":"c1"}`)
		require.NotNil(t, got)
		assert.Equal(t, 4, *got)
		assert.Empty(t, resolver.asked)
	})

	t.Run("ignored without resolver", func(t *testing.T) {
		r := newAuthEngine(NewAuthHandler(stub, nil, nil))

		doJSON(r, http.MethodPost, "/api/login", `{"email":"a@b","password":"Abc1","humanToken":"11","captchaId":"c1"}`)
		assert.Nil(t, got)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, outcomeSuccess, outcome(application.AuthResult{Success: true}))
	assert.Equal(t, outcomeStoreError, outcome(application.AuthResult{Errors: validation.Errors{"general": {"Database error"}}}))
	assert.Equal(t, outcomeHuman, outcome(application.AuthResult{Errors: validation.Errors{"human": {"x"}}}))
	assert.Equal(t, outcomeRejected, outcome(application.AuthResult{Errors: validation.Errors{"email": {"x"}}}))
}
