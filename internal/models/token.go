package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind of the token. Each kind signed with its own secret
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by TokenManager on login and refresh
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// Verified token payload
type TokenClaims struct {
	Kind      TokenKind
	AccountID uuid.UUID
	ExpiresAt time.Time
}
