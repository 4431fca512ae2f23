package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/blake2b"
)

// SnapshotRow is one saved world snapshot. Blob is empty in listings.
type SnapshotRow struct {
	ID         int64
	Name       string
	Digest     []byte
	ActorCount int
	Blob       []byte
	CreatedAt  time.Time
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Digest identifies a snapshot blob by content.
func Digest(blob []byte) []byte {
	sum := blake2b.Sum256(blob)
	return sum[:]
}

// Save stores blob under name unless the latest snapshot of that name has
// the same content. It reports whether a row was written.
func (r *SnapshotRepo) Save(ctx context.Context, name string, blob []byte, actors int) (bool, error) {
	digest := Digest(blob)

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var latest []byte
	err = tx.QueryRow(ctx,
		`SELECT digest FROM world_snapshots WHERE name = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		name,
	).Scan(&latest)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("snapshot latest digest: %w", err)
	}
	if bytes.Equal(latest, digest) {
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO world_snapshots (name, digest, actor_count, blob) VALUES ($1, $2, $3, $4)`,
		name, digest, actors, blob,
	); err != nil {
		return false, fmt.Errorf("snapshot insert: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("snapshot commit: %w", err)
	}
	return true, nil
}

// Latest returns the newest snapshot of name, or nil if there is none.
func (r *SnapshotRepo) Latest(ctx context.Context, name string) (*SnapshotRow, error) {
	row := &SnapshotRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, name, digest, actor_count, blob, created_at
		 FROM world_snapshots WHERE name = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		name,
	).Scan(&row.ID, &row.Name, &row.Digest, &row.ActorCount, &row.Blob, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot latest: %w", err)
	}
	return row, nil
}

// Get returns the snapshot with id, or nil if there is none.
func (r *SnapshotRepo) Get(ctx context.Context, id int64) (*SnapshotRow, error) {
	row := &SnapshotRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, name, digest, actor_count, blob, created_at FROM world_snapshots WHERE id = $1`,
		id,
	).Scan(&row.ID, &row.Name, &row.Digest, &row.ActorCount, &row.Blob, &row.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot get %d: %w", id, err)
	}
	return row, nil
}

// List returns up to limit snapshots, newest first, without blobs. An empty
// name lists every name.
func (r *SnapshotRepo) List(ctx context.Context, name string, limit int) ([]SnapshotRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, digest, actor_count, created_at FROM world_snapshots
		 WHERE $1 = '' OR name = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot list: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var s SnapshotRow
		if err := rows.Scan(&s.ID, &s.Name, &s.Digest, &s.ActorCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("snapshot scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
