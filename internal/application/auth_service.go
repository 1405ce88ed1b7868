package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-register-login/internal/domain/entity"
	repo "github.com/oksasatya/go-register-login/internal/domain/repository"
	"github.com/oksasatya/go-register-login/pkg/helpers"
	"github.com/oksasatya/go-register-login/pkg/validation"
)

const (
	MsgEmailTaken         = "Email already registered"
	MsgInvalidCredentials = "Invalid email or password"
	MsgDatabaseError      = "Database error"
	MsgHumanRequired      = "Human validation is required"
	MsgIncorrectCaptcha   = "Incorrect captcha answer"
)

// PasswordHasher is a one-way salted hash with constant-time verification.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// AuthResult is what register and login hand back to the transport layer.
// Exactly one of User and Errors is set.
type AuthResult struct {
	Success bool               `json:"success"`
	User    *entity.PublicUser `json:"user,omitempty"`
	Errors  validation.Errors  `json:"errors,omitempty"`
}

func succeeded(u *entity.User) AuthResult {
	return AuthResult{Success: true, User: u.Public()}
}

func failed(errs validation.Errors) AuthResult {
	return AuthResult{Success: false, Errors: errs}
}

func failedField(field, msg string) AuthResult {
	return failed(validation.Errors{field: {msg}})
}

type Service struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Logger *logrus.Logger
}

// NewService wires the auth service. logger may be nil.
func NewService(repo repo.UserRepository, hasher PasswordHasher, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, Hasher: hasher, Logger: logger}
}

// Register validates the form, rejects taken emails and stores a bcrypt hash
// of the password. Store failures are logged and reported as a generic
// database error.
func (s *Service) Register(ctx context.Context, email, password, confirmPassword string) AuthResult {
	v := validation.ValidateRegister(validation.RegisterInput{
		Email:           email,
		Password:        password,
		ConfirmPassword: confirmPassword,
	})
	if !v.Valid {
		return failed(v.Errors)
	}

	exists, err := s.Repo.ExistsByEmail(ctx, email)
	if err != nil {
		helpers.LogError(s.Logger, "register: lookup failed", err, logrus.Fields{"email": email})
		return failedField(validation.FieldGeneral, MsgDatabaseError)
	}
	if exists {
		return failedField(validation.FieldEmail, MsgEmailTaken)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		helpers.LogError(s.Logger, "register: hash failed", err, logrus.Fields{"email": email})
		return failedField(validation.FieldGeneral, MsgDatabaseError)
	}

	u := &entity.User{Email: email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		// The existence check and the insert are not atomic; a concurrent
		// registration of the same email ends up here.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			helpers.LogWarn(s.Logger, "register: duplicate email on insert", err, logrus.Fields{"email": email})
		} else {
			helpers.LogError(s.Logger, "register: insert failed", err, logrus.Fields{"email": email})
		}
		return failedField(validation.FieldGeneral, MsgDatabaseError)
	}

	return succeeded(u)
}

// Login checks the captcha first, then the form, then the credentials.
// Unknown email and wrong password share one message.
func (s *Service) Login(ctx context.Context, email, password, humanToken string, captchaAnswer *int) AuthResult {
	if errs := CheckHuman(humanToken, captchaAnswer); errs != nil {
		return failed(errs)
	}

	v := validation.ValidateLogin(validation.LoginInput{Email: email, Password: password})
	if !v.Valid {
		return failed(v.Errors)
	}

	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return failedField(validation.FieldEmail, MsgInvalidCredentials)
	}
	if err != nil {
		helpers.LogError(s.Logger, "login: lookup failed", err, logrus.Fields{"email": email})
		return failedField(validation.FieldGeneral, MsgDatabaseError)
	}

	if !s.Hasher.Compare(u.Password, password) {
		return failedField(validation.FieldPassword, MsgInvalidCredentials)
	}

	return succeeded(u)
}
