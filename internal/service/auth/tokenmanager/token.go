package tokenmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
	"github.com/vnitin08/youtube-backend/internal/models"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultSigningMethod   = "HS256"
	defaultRefreshTokenTTL = 10 * 24 * time.Hour
)

type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Kind      models.TokenKind `json:"kind"`
	AccountID uuid.UUID        `json:"uid"`
	Email     string           `json:"email"`
	Username  string           `json:"username"`
	FullName  string           `json:"fullName"`
}

type RefreshTokenClaims struct {
	jwt.RegisteredClaims
	Kind      models.TokenKind `json:"kind"`
	AccountID uuid.UUID        `json:"uid"`
}

// Token manager with sensible default
type Config struct {
	// Secret keys to sign access and refresh tokens
	// Both required to be set
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Account, error)
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
}

type TokenManager struct {
	accessKey  []byte
	refreshKey []byte

	alg jwt.SigningMethod

	accessTTL  time.Duration
	refreshTTL time.Duration

	// The only refresh token that may be used is the one stored on account
	accounts accountRepo

	// Overridden in tests
	now func() time.Time
}

func New(cfg Config, accounts accountRepo) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secrets must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if _, ok := alg.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing method %q, HMAC expected", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		alg:        alg,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		accounts:   accounts,
		now:        time.Now,
	}, nil
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// Sign short living token with account identity
func (m *TokenManager) IssueAccess(account models.Account) (models.IssuedToken, error) {
	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(m.accessTTL)

	token := jwt.NewWithClaims(m.alg, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind:      models.AccessToken,
		AccountID: account.ID,
		Email:     account.Email,
		Username:  account.Username,
		FullName:  account.FullName,
	})

	signed, err := token.SignedString(m.accessKey)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Sign long living token with account id only
// Every token has unique jti, so two tokens issued in the same second still differ
func (m *TokenManager) IssueRefresh(accountID uuid.UUID) (models.IssuedToken, error) {
	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(m.refreshTTL)

	token := jwt.NewWithClaims(m.alg, RefreshTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind:      models.RefreshToken,
		AccountID: accountID,
	})

	signed, err := token.SignedString(m.refreshKey)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Issue access and refresh tokens and store the refresh token on account
// Previously stored refresh token stops working
func (m *TokenManager) IssueSessionPair(ctx context.Context, accountID uuid.UUID) (models.TokenPair, error) {
	account, err := m.accounts.GetByID(ctx, accountID)
	if err != nil {
		return models.TokenPair{}, apperrors.TokenIssuance("Something went wrong while generating tokens", err)
	}

	access, err := m.IssueAccess(account)
	if err != nil {
		return models.TokenPair{}, apperrors.TokenIssuance("Something went wrong while generating tokens", err)
	}

	refresh, err := m.IssueRefresh(account.ID)
	if err != nil {
		return models.TokenPair{}, apperrors.TokenIssuance("Something went wrong while generating tokens", err)
	}

	err = m.accounts.SetRefreshToken(ctx, account.ID, refresh.Value)
	if err != nil {
		return models.TokenPair{}, apperrors.TokenIssuance("Something went wrong while generating tokens", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify signature, expiration and kind of the token
// Any failure is apperrors.ErrInvalidToken; message does not disclose signature details
func (m *TokenManager) Verify(token string, kind models.TokenKind) (models.TokenClaims, error) {
	var (
		key    []byte
		claims interface {
			jwt.Claims
			kind() models.TokenKind
			accountID() uuid.UUID
		}
	)

	switch kind {
	case models.AccessToken:
		key, claims = m.accessKey, &AccessTokenClaims{}
	case models.RefreshToken:
		key, claims = m.refreshKey, &RefreshTokenClaims{}
	default:
		return models.TokenClaims{}, apperrors.InvalidToken("Unknown token kind", nil)
	}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return key, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.TokenClaims{}, apperrors.InvalidToken("Token is expired", err)
	case err != nil:
		return models.TokenClaims{}, apperrors.InvalidToken("Token is invalid", err)
	case claims.kind() != kind || claims.accountID() == uuid.Nil:
		return models.TokenClaims{}, apperrors.InvalidToken("Token is invalid", nil)
	}

	expiresAt, _ := claims.GetExpirationTime()

	return models.TokenClaims{
		Kind:      kind,
		AccountID: claims.accountID(),
		ExpiresAt: expiresAt.Time,
	}, nil
}

func (c *AccessTokenClaims) kind() models.TokenKind { return c.Kind }
func (c *AccessTokenClaims) accountID() uuid.UUID   { return c.AccountID }

func (c *RefreshTokenClaims) kind() models.TokenKind { return c.Kind }
func (c *RefreshTokenClaims) accountID() uuid.UUID   { return c.AccountID }
