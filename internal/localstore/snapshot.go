package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/cartsync/internal/cart"
)

// SnapshotKey is the fixed namespace key the cart snapshot lives under.
const SnapshotKey = "storefront.cart"

// SaveSnapshot upserts the serialized cart under the fixed namespace key.
// version is the push-version counter, persisted so it stays monotonic
// across restarts. The write is unconditional - it does not care whether a
// credential is present.
func (s *Store) SaveSnapshot(ctx context.Context, items cart.Items, version int64) error {
	payload, err := cart.MarshalItems(items)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	err = s.exec(ctx, `
		INSERT INTO snapshots (key, payload, version, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, SnapshotKey, string(payload), version, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads the persisted cart snapshot.
//
// ok is false when no snapshot exists. A snapshot that exists but fails to
// parse returns an error; callers recover by treating the cart as empty
// (the snapshot is a cache, not a source of truth).
func (s *Store) LoadSnapshot(ctx context.Context) (items cart.Items, version int64, ok bool, err error) {
	var payload string
	err = s.db.QueryRowContext(ctx, `
		SELECT payload, version FROM snapshots WHERE key = ?
	`, SnapshotKey).Scan(&payload, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("load snapshot: %w", err)
	}

	items, err = cart.UnmarshalItems([]byte(payload))
	if err != nil {
		return nil, 0, false, fmt.Errorf("load snapshot: %w", err)
	}

	return items, version, true, nil
}

// DeleteSnapshot removes the persisted cart snapshot.
// Deleting an absent snapshot is a no-op.
func (s *Store) DeleteSnapshot(ctx context.Context) error {
	if err := s.exec(ctx, `DELETE FROM snapshots WHERE key = ?`, SnapshotKey); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
