package pgx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lcwang/idgate/core"
)

const userColumns = `id, subject_id, email, email_verified, phone_number, phone_verified,
	password_hash, display_name, avatar_url, google_id, facebook_id, line_id,
	created_at, updated_at, last_login_at`

func (a *Adapter) CreateUser(user *core.User) error {
	ctx := context.Background()

	query := `INSERT INTO users (id, subject_id, email, email_verified, phone_number, phone_verified,
	              password_hash, display_name, avatar_url, google_id, facebook_id, line_id, last_login_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		user.ID, user.SubjectID, user.Email, user.EmailVerified, user.PhoneNumber, user.PhoneVerified,
		user.PasswordHash, user.DisplayName, user.AvatarURL, user.GoogleID, user.FacebookID, user.LineID,
		user.LastLoginAt,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return translateConstraint(err)
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetUserByID(id string) (*core.User, error) {
	return a.getUserWhere(`id = $1`, id)
}

func (a *Adapter) GetUserBySubject(subjectID string) (*core.User, error) {
	return a.getUserWhere(`subject_id = $1`, subjectID)
}

func (a *Adapter) GetUserByEmail(email string) (*core.User, error) {
	return a.getUserWhere(`email = $1`, email)
}

func (a *Adapter) GetUserByPhone(phone string) (*core.User, error) {
	return a.getUserWhere(`phone_number = $1`, phone)
}

func (a *Adapter) GetUserByProvider(p core.Provider, accountID string) (*core.User, error) {
	// Column chosen by exhaustive switch, never concatenated from input.
	var column string
	switch p {
	case core.ProviderGoogle:
		column = "google_id"
	case core.ProviderFacebook:
		column = "facebook_id"
	case core.ProviderLine:
		column = "line_id"
	default:
		return nil, core.ErrInvalidProvider
	}
	return a.getUserWhere(column+` = $1`, accountID)
}

func (a *Adapter) getUserWhere(where string, arg any) (*core.User, error) {
	ctx := context.Background()
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, where)

	user := &core.User{}
	err := a.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.SubjectID, &user.Email, &user.EmailVerified, &user.PhoneNumber, &user.PhoneVerified,
		&user.PasswordHash, &user.DisplayName, &user.AvatarURL, &user.GoogleID, &user.FacebookID, &user.LineID,
		&user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (a *Adapter) UpdateUser(user *core.User) error {
	ctx := context.Background()

	query := `UPDATE users SET
	              subject_id = $1, email = $2, email_verified = $3, phone_number = $4, phone_verified = $5,
	              password_hash = $6, display_name = $7, avatar_url = $8,
	              google_id = $9, facebook_id = $10, line_id = $11, last_login_at = $12,
	              updated_at = now()
	          WHERE id = $13 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		user.SubjectID, user.Email, user.EmailVerified, user.PhoneNumber, user.PhoneVerified,
		user.PasswordHash, user.DisplayName, user.AvatarURL,
		user.GoogleID, user.FacebookID, user.LineID, user.LastLoginAt,
		user.ID,
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrUserNotFound
		}
		return translateConstraint(err)
	}

	user.UpdatedAt = updatedAt
	return nil
}
