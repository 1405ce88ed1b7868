package handlers

import (
	"expvar"

	"github.com/oksasatya/go-register-login/internal/application"
	"github.com/oksasatya/go-register-login/pkg/validation"
)

// Published on /api/debug/vars.
var (
	registerOutcomes = expvar.NewMap("auth_register_outcomes")
	loginOutcomes    = expvar.NewMap("auth_login_outcomes")
	captchaIssued    = expvar.NewInt("captcha_issued_total")
)

const (
	outcomeSuccess    = "success"
	outcomeRejected   = "rejected"
	outcomeHuman      = "human_failed"
	outcomeStoreError = "store_error"
	outcomeBadRequest = "bad_request"
)

func outcome(res application.AuthResult) string {
	switch {
	case res.Success:
		return outcomeSuccess
	case len(res.Errors[validation.FieldGeneral]) > 0:
		return outcomeStoreError
	case len(res.Errors[validation.FieldHuman]) > 0:
		return outcomeHuman
	default:
		return outcomeRejected
	}
}
