// Package auth handles account registration, login and session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/iwvelando/dre-diagnostics/internal/store"
	"github.com/iwvelando/dre-diagnostics/pkg/constants"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWeakPassword       = fmt.Errorf("password must have at least %d characters", constants.MinPasswordLength)
	ErrInvalidEmail       = errors.New("invalid email address")
)

// AccountRepository is the persistence the service needs.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account store.Account) (store.Account, error)
	GetAccount(ctx context.Context, id string) (store.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (store.Account, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

type Service struct {
	accounts AccountRepository
	tokens   *TokenService
	params   Argon2Params
	logger   *zap.Logger
}

func NewService(accounts AccountRepository, tokens *TokenService, logger *zap.Logger) (*Service, error) {
	if accounts == nil {
		return nil, errors.New("account repository required")
	}
	if tokens == nil {
		return nil, errors.New("token service required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		params:   DefaultArgon2Params,
		logger:   logger,
	}, nil
}

// SetArgon2Params overrides the KDF parameters for new hashes.
func (s *Service) SetArgon2Params(p Argon2Params) {
	s.params = p
}

// Register creates an account for email with the given password.
func (s *Service) Register(ctx context.Context, email, password string) (store.Account, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || strings.ContainsAny(email, "<> ") {
		return store.Account{}, ErrInvalidEmail
	}
	if len([]rune(password)) < constants.MinPasswordLength {
		return store.Account{}, ErrWeakPassword
	}

	hash, err := HashPassword(password, s.params)
	if err != nil {
		return store.Account{}, err
	}

	account, err := s.accounts.CreateAccount(ctx, store.Account{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.Account{}, ErrEmailTaken
		}
		return store.Account{}, fmt.Errorf("register account: %w", err)
	}

	s.logger.Info("account registered",
		zap.String("op", "auth.Register"),
		zap.String("accountId", account.ID),
	)
	return account, nil
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup account: %w", err)
	}

	ok, err := VerifyPassword(password, account.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable",
			zap.String("op", "auth.Login"),
			zap.String("accountId", account.ID),
			zap.Error(err),
		)
		return Session{}, ErrInvalidCredentials
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return Session{}, err
	}

	s.logger.Debug("session issued",
		zap.String("op", "auth.Login"),
		zap.String("accountId", account.ID),
		zap.Time("expiresAt", expires),
	)

	return Session{
		Token:     token,
		ExpiresAt: expires.UTC().Format("2006-01-02T15:04:05Z07:00"),
		AccountID: account.ID,
		Email:     account.Email,
	}, nil
}

// Authenticate validates a bearer token and confirms the account still exists.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Principal{}, err
	}

	account, err := s.accounts.GetAccount(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Principal{}, fmt.Errorf("%w: unknown account", ErrInvalidToken)
		}
		return Principal{}, err
	}

	return Principal{AccountID: account.ID, Email: account.Email}, nil
}

// normalizeEmail gives Register and Login the same spelling of an address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
