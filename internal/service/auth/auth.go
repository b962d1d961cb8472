package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
	"github.com/vnitin08/youtube-backend/internal/models"
	"github.com/vnitin08/youtube-backend/internal/repository"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type tokenManager interface {
	IssueSessionPair(ctx context.Context, accountID uuid.UUID) (models.TokenPair, error)
	Verify(token string, kind models.TokenKind) (models.TokenClaims, error)
}

type Config struct {
	// Hasher to use on login and password change
	// DefaultHasher if not set
	Hasher PasswordHasher
}

// Result of successful login
type Session struct {
	Tokens  models.TokenPair
	Account models.PublicAccount
}

type AuthService struct {
	tokens   tokenManager
	hasher   PasswordHasher
	accounts repository.AccountRepo
}

func NewService(cfg Config, tokens tokenManager, accounts repository.AccountRepo) (*AuthService, error) {
	if tokens == nil || accounts == nil {
		return nil, errors.New("token manager and accounts repo must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &AuthService{
		tokens:   tokens,
		hasher:   hasher,
		accounts: accounts,
	}, nil
}

// Login by username or email (at least one required) and password
func (s *AuthService) Login(ctx context.Context, username string, email string, password string) (Session, error) {
	if username == "" && email == "" {
		return Session{}, apperrors.Validation("Username or email is required")
	}
	if password == "" {
		return Session{}, apperrors.Validation("Password is required")
	}

	account, err := s.accounts.GetByUsernameOrEmail(ctx, username, email)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return Session{}, apperrors.NotFound("User does not exist")
	case err != nil:
		return Session{}, fmt.Errorf("error while loading account. Err: %w", err)
	}

	if err := s.hasher.Compare(account.HashedPassword, password); err != nil {
		return Session{}, apperrors.Unauthenticated("Invalid user credentials")
	}

	pair, err := s.tokens.IssueSessionPair(ctx, account.ID)
	if err != nil {
		return Session{}, err
	}

	public, err := s.accounts.GetPublicByID(ctx, account.ID)
	if err != nil {
		return Session{}, apperrors.Persistence("Error loading user", err)
	}

	return Session{Tokens: pair, Account: public}, nil
}

// Revoke the session: the stored refresh token is the only one that may be used, so clear it
func (s *AuthService) Logout(ctx context.Context, accountID uuid.UUID) error {
	err := s.accounts.ClearRefreshToken(ctx, accountID)
	if err != nil && !errors.Is(err, apperrors.ErrAccountNotFound) {
		return apperrors.Persistence("Error while logging out", err)
	}
	return nil
}

// Exchange refresh token to the new pair; the used token stops working
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	if refresh == "" {
		return models.TokenPair{}, apperrors.Unauthenticated("Unauthorized request")
	}

	claims, err := s.tokens.Verify(refresh, models.RefreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return models.TokenPair{}, apperrors.InvalidToken("Invalid refresh token", err)
	case err != nil:
		return models.TokenPair{}, fmt.Errorf("error while loading account. Err: %w", err)
	}

	if account.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*account.RefreshToken), []byte(refresh)) != 1 {
		return models.TokenPair{}, apperrors.InvalidToken("Refresh token is expired or used", nil)
	}

	return s.tokens.IssueSessionPair(ctx, account.ID)
}

func (s *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword string, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperrors.Validation("Old and new passwords are required")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return apperrors.Unauthenticated("Unauthorized request")
	case err != nil:
		return fmt.Errorf("error while loading account. Err: %w", err)
	}

	if err := s.hasher.Compare(account.HashedPassword, oldPassword); err != nil {
		return apperrors.Unauthenticated("Invalid old password")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password. Err: %w", err)
	}

	err = s.accounts.SetPassword(ctx, account.ID, hash)
	if err != nil {
		return apperrors.Persistence("Error while changing password", err)
	}

	return nil
}

// Resolve account by access token
// Every failure except storage outage is apperrors.ErrUnauthenticated
func (s *AuthService) Authenticate(ctx context.Context, access string) (models.PublicAccount, error) {
	if access == "" {
		return models.PublicAccount{}, apperrors.Unauthenticated("Unauthorized request")
	}

	claims, err := s.tokens.Verify(access, models.AccessToken)
	if err != nil {
		return models.PublicAccount{}, apperrors.Unauthenticated("Invalid access token")
	}

	account, err := s.accounts.GetPublicByID(ctx, claims.AccountID)
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return models.PublicAccount{}, apperrors.Unauthenticated("Invalid access token")
	case err != nil:
		return models.PublicAccount{}, fmt.Errorf("error while loading account. Err: %w", err)
	}

	return account, nil
}
