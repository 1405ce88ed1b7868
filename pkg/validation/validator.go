package validation

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Password composition thresholds.
const (
	MinUppercase = 1
	MinNumber    = 1
)

// Field keys used in error maps. General and Human are synthetic keys that
// do not correspond to a request field.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldGeneral         = "general"
	FieldHuman           = "human"
)

const (
	MsgEmailRequired    = "Email is required"
	MsgEmailAt          = "Email must contain @"
	MsgPasswordRequired = "Password is required"
	MsgConfirmRequired  = "Please confirm your password"
	MsgPasswordMismatch = "Passwords do not match"
	MsgInvalidBody      = "Invalid request body"
)

var (
	MsgPasswordUppercase = fmt.Sprintf("Password must contain at least %d uppercase letter", MinUppercase)
	MsgPasswordNumber    = fmt.Sprintf("Password must contain at least %d number", MinNumber)
)

var (
	tagMinUpper = "minupper=" + strconv.Itoa(MinUppercase)
	tagMinDigit = "mindigit=" + strconv.Itoa(MinNumber)
)

// engine is safe for concurrent use once the custom tags are registered.
var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New()
	// minupper=N / mindigit=N: at least N ASCII uppercase letters / digits
	if err := v.RegisterValidation("minupper", minCount(func(r rune) bool { return r >= 'A' && r <= 'Z' })); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("mindigit", minCount(func(r rune) bool { return r >= '0' && r <= '9' })); err != nil {
		panic(err)
	}
	return v
}

func minCount(match func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		want, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		n := 0
		for _, r := range fl.Field().String() {
			if match(r) {
				n++
			}
		}
		return n >= want
	}
}

// Errors maps a field name to its ordered list of messages.
type Errors map[string][]string

// FieldResult is the outcome of validating a single field.
type FieldResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// FormResult is the outcome of validating a whole request. Errors only
// contains keys for fields that failed.
type FormResult struct {
	Valid  bool   `json:"valid"`
	Errors Errors `json:"errors"`
}

type LoginInput struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

func fieldResult(errs []string) FieldResult {
	return FieldResult{Valid: len(errs) == 0, Errors: errs}
}

func ValidateEmail(email string) FieldResult {
	if engine.Var(email, "required") != nil {
		return fieldResult([]string{MsgEmailRequired})
	}
	var errs []string
	if engine.Var(email, "contains=@") != nil {
		errs = append(errs, MsgEmailAt)
	}
	return fieldResult(errs)
}

func ValidatePassword(password string) FieldResult {
	if engine.Var(password, "required") != nil {
		return fieldResult([]string{MsgPasswordRequired})
	}
	var errs []string
	if engine.Var(password, tagMinUpper) != nil {
		errs = append(errs, MsgPasswordUppercase)
	}
	if engine.Var(password, tagMinDigit) != nil {
		errs = append(errs, MsgPasswordNumber)
	}
	return fieldResult(errs)
}

func ValidateConfirmPassword(password, confirm string) FieldResult {
	if engine.Var(confirm, "required") != nil {
		return fieldResult([]string{MsgConfirmRequired})
	}
	if engine.VarWithValue(confirm, password, "eqfield") != nil {
		return fieldResult([]string{MsgPasswordMismatch})
	}
	return fieldResult(nil)
}

func ValidateLogin(in LoginInput) FormResult {
	return collect(map[string]FieldResult{
		FieldEmail:    ValidateEmail(in.Email),
		FieldPassword: ValidatePassword(in.Password),
	})
}

func ValidateRegister(in RegisterInput) FormResult {
	return collect(map[string]FieldResult{
		FieldEmail:           ValidateEmail(in.Email),
		FieldPassword:        ValidatePassword(in.Password),
		FieldConfirmPassword: ValidateConfirmPassword(in.Password, in.ConfirmPassword),
	})
}

func collect(fields map[string]FieldResult) FormResult {
	out := FormResult{Valid: true, Errors: Errors{}}
	for name, r := range fields {
		if !r.Valid {
			out.Valid = false
			out.Errors[name] = r.Errors
		}
	}
	return out
}

// ToErrors converts a request decoding error into an error map. Request
// fields tolerate wrong JSON types, so a decoding error always concerns the
// body as a whole.
func ToErrors(err error) Errors {
	if err == nil {
		return nil
	}
	return Errors{FieldGeneral: {MsgInvalidBody}}
}
