// Package services contains server-side business logic. This file implements
// UserService, which handles signup and login against the credential store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/cryptox"
	"github.com/dmitrijs2005/jobscreen/internal/logging"
	"github.com/dmitrijs2005/jobscreen/internal/server/auth"
	"github.com/dmitrijs2005/jobscreen/internal/server/repositories/repomanager"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
)

// TokenResponse is what a successful login returns to the client.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *cryptox.PasswordHasher
	tokens      *auth.TokenService
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *cryptox.PasswordHasher,
	tokens *auth.TokenService, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "users"),
	}
}

// Register creates a user and returns the role it was given: admin for the
// first account of an empty store, user for every other one.
func (s *UserService) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) {
			return "", err
		}
		s.logger.Error(ctx, "create user failed", "username", username, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}

	s.logger.Info(ctx, "user registered", "username", user.UserName, "role", user.Role)
	return user.Role, nil
}

// Login checks the password and issues an access token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Burn(password)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "load user failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}

	if !s.hasher.Check(user.PasswordHash, password) {
		s.logger.Warn(ctx, "login rejected", "username", username)
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.UserName, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &TokenResponse{AccessToken: token, TokenType: common.TokenType, Role: user.Role}, nil
}

func validateCredentials(username, password string) error {
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("%w: username must be %d to %d characters", common.ErrInvalidInput, MinUsernameLength, MaxUsernameLength)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	}
	if len(password) > cryptox.MaxPasswordBytes {
		return fmt.Errorf("%w: password longer than %d bytes", common.ErrInvalidInput, cryptox.MaxPasswordBytes)
	}
	return nil
}
