package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// ErrNoAuth is returned when no authentication is stored
var ErrNoAuth = errors.New("no authentication stored")

// Auth holds the OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Token converts the stored tokens for use with oauth2
func (a *Auth) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       a.ExpiresAt,
	}
}

// GetAuth retrieves the stored authentication tokens
func (db *DB) GetAuth(ctx context.Context) (*Auth, error) {
	row := db.QueryRowContext(ctx, `
		SELECT athlete_id, access_token, refresh_token, expires_at
		FROM auth
		WHERE id = 1
	`)

	var auth Auth
	var expiresAt int64
	err := row.Scan(&auth.AthleteID, &auth.AccessToken, &auth.RefreshToken, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAuth
	}
	if err != nil {
		return nil, err
	}

	auth.ExpiresAt = time.Unix(expiresAt, 0)
	return &auth, nil
}

// SaveAuth stores or replaces the authentication tokens
func (db *DB) SaveAuth(ctx context.Context, auth *Auth) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO auth (id, athlete_id, access_token, refresh_token, expires_at, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`, auth.AthleteID, auth.AccessToken, auth.RefreshToken, auth.ExpiresAt.Unix())
	return err
}

// UpdateTokens replaces the access and refresh tokens after a refresh
func (db *DB) UpdateTokens(ctx context.Context, token *oauth2.Token) error {
	result, err := db.ExecContext(ctx, `
		UPDATE auth
		SET access_token = ?, refresh_token = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, token.AccessToken, token.RefreshToken, token.Expiry.Unix())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNoAuth
	}
	return nil
}
