package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vnitin08/youtube-backend/internal/apperrors"
	"github.com/vnitin08/youtube-backend/internal/models"
)

type AccountRepo struct {
	DB DBTX
}

const accountColumns = `id, created_at, updated_at, username, email, full_name, password_hash, avatar_url, cover_image_url, refresh_token, watch_history`

const publicAccountColumns = `id, created_at, updated_at, username, email, full_name, avatar_url, cover_image_url, watch_history`

const createAccount = `-- name: CreateAccount
INSERT INTO accounts (id, username, email, full_name, password_hash, avatar_url, cover_image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + accountColumns

func (r *AccountRepo) Create(ctx context.Context, a models.NewAccount) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, createAccount,
		uuid.New(),
		strings.ToLower(a.Username),
		strings.ToLower(a.Email),
		a.FullName,
		a.HashedPassword,
		a.AvatarURL,
		a.CoverImageURL,
	)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case isUniqueViolation(err):
		return account, apperrors.ErrAccountAlreadyExists
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

const getAccountByID = `-- name: GetAccountByID
SELECT ` + accountColumns + ` FROM accounts
WHERE id = $1
`

func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByID, id)
	account, err := pgx.CollectOneRow(rows, rowToAccount)
	return account, notFoundOr(err, apperrors.ErrAccountNotFound)
}

const getPublicAccountByID = `-- name: GetPublicAccountByID
SELECT ` + publicAccountColumns + ` FROM accounts
WHERE id = $1
`

func (r *AccountRepo) GetPublicByID(ctx context.Context, id uuid.UUID) (models.PublicAccount, error) {
	rows, _ := r.DB.Query(ctx, getPublicAccountByID, id)
	account, err := pgx.CollectOneRow(rows, rowToPublicAccount)
	return account, notFoundOr(err, apperrors.ErrAccountNotFound)
}

const getAccountByUsernameOrEmail = `-- name: GetAccountByUsernameOrEmail
SELECT ` + accountColumns + ` FROM accounts
WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
ORDER BY created_at
LIMIT 1
`

func (r *AccountRepo) GetByUsernameOrEmail(ctx context.Context, username string, email string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccountByUsernameOrEmail, strings.ToLower(username), strings.ToLower(email))
	account, err := pgx.CollectOneRow(rows, rowToAccount)
	return account, notFoundOr(err, apperrors.ErrAccountNotFound)
}

const existsAccountByUsernameOrEmail = `-- name: ExistsAccountByUsernameOrEmail
SELECT EXISTS (
    SELECT 1 FROM accounts
    WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
)
`

func (r *AccountRepo) ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, existsAccountByUsernameOrEmail, strings.ToLower(username), strings.ToLower(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const setRefreshToken = `-- name: SetRefreshToken
UPDATE accounts
SET refresh_token = $2
WHERE id = $1
`

func (r *AccountRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.exec(ctx, setRefreshToken, id, token)
}

const clearRefreshToken = `-- name: ClearRefreshToken
UPDATE accounts
SET refresh_token = NULL
WHERE id = $1
`

func (r *AccountRepo) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, clearRefreshToken, id)
}

const setPassword = `-- name: SetPassword
UPDATE accounts
SET password_hash = $2, updated_at = now()
WHERE id = $1
`

func (r *AccountRepo) SetPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.exec(ctx, setPassword, id, hashedPassword)
}

const updateProfile = `-- name: UpdateProfile
UPDATE accounts
SET full_name = $2, email = $3, updated_at = now()
WHERE id = $1
RETURNING ` + publicAccountColumns

func (r *AccountRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fullName string, email string) (models.PublicAccount, error) {
	rows, _ := r.DB.Query(ctx, updateProfile, id, fullName, strings.ToLower(email))
	account, err := pgx.CollectOneRow(rows, rowToPublicAccount)
	if isUniqueViolation(err) {
		return account, apperrors.ErrAccountAlreadyExists
	}
	return account, notFoundOr(err, apperrors.ErrAccountNotFound)
}

const setAvatar = `-- name: SetAvatar
UPDATE accounts
SET avatar_url = $2, updated_at = now()
WHERE id = $1
RETURNING ` + publicAccountColumns

func (r *AccountRepo) SetAvatar(ctx context.Context, id uuid.UUID, url string) (models.PublicAccount, error) {
	rows, _ := r.DB.Query(ctx, setAvatar, id, url)
	account, err := pgx.CollectOneRow(rows, rowToPublicAccount)
	return account, notFoundOr(err, apperrors.ErrAccountNotFound)
}

const setCoverImage = `-- name: SetCoverImage
UPDATE accounts
SET cover_image_url = $2, updated_at = now()
WHERE id = $1
RETURNING ` + publicAccountColumns

func (r *AccountRepo) SetCoverImage(ctx context.Context, id uuid.UUID, url string) (models.PublicAccount, error) {
	rows, _ := r.DB.Query(ctx, setCoverImage, id, url)
	account, err := pgx.CollectOneRow(rows, rowToPublicAccount)
	return account, notFoundOr(err, apperrors.ErrAccountNotFound)
}

const appendWatchHistory = `-- name: AppendWatchHistory
UPDATE accounts
SET watch_history = array_append(watch_history, $2::uuid)
WHERE id = $1
`

func (r *AccountRepo) AppendWatchHistory(ctx context.Context, id uuid.UUID, videoID uuid.UUID) error {
	return r.exec(ctx, appendWatchHistory, id, videoID)
}

// Exec update and report apperrors.ErrAccountNotFound if nothing updated
func (r *AccountRepo) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.Username,
		&a.Email,
		&a.FullName,
		&a.HashedPassword,
		&a.AvatarURL,
		&a.CoverImageURL,
		&a.RefreshToken,
		&a.WatchHistory,
	)
	return a, err
}

func rowToPublicAccount(row pgx.CollectableRow) (models.PublicAccount, error) {
	var a models.PublicAccount
	err := row.Scan(
		&a.ID,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.Username,
		&a.Email,
		&a.FullName,
		&a.AvatarURL,
		&a.CoverImageURL,
		&a.WatchHistory,
	)
	return a, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Translate pgx.ErrNoRows to well known error, wrap the rest
func notFoundOr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return notFound
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
