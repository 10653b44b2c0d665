package localstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CredentialKey is the fixed key the bearer credential lives under. The
// credential is owned by the authentication flow; the cart store only
// reads it.
const CredentialKey = "storefront.auth.token"

// Token returns the stored bearer credential.
//
// An unreadable credential reads as signed-out: query errors degrade to
// ("", false) rather than blocking cart operations, matching the rule that
// no failure in this subsystem surfaces as a blocking error.
func (s *Store) Token(ctx context.Context) (string, bool) {
	var token string
	err := s.db.QueryRowContext(ctx, `
		SELECT token FROM credentials WHERE key = ?
	`, CredentialKey).Scan(&token)
	if err != nil {
		// sql.ErrNoRows and real failures alike: no usable credential.
		return "", false
	}
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// SetToken stores the bearer credential. Called by the login flow.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("set token: empty token")
	}

	err := s.exec(ctx, `
		INSERT INTO credentials (key, token, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			token = excluded.token,
			updated_at = excluded.updated_at
	`, CredentialKey, token, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set token: %w", err)
	}

	return nil
}

// DeleteToken removes the bearer credential. Called by the logout flow.
// Deleting an absent credential is a no-op.
func (s *Store) DeleteToken(ctx context.Context) error {
	if err := s.exec(ctx, `DELETE FROM credentials WHERE key = ?`, CredentialKey); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
