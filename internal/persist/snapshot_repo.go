package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nexusengine/nexus/internal/scene"
)

// ErrNoSnapshot is returned by Latest when a scene was never saved.
var ErrNoSnapshot = errors.New("no snapshot")

// querier is the part of pgxpool.Pool the repo needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type SnapshotRepo struct {
	q querier
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{q: db.Pool}
}

// Save stores snap unless the newest stored snapshot of the same scene has
// an identical digest. Reports whether a row was written.
func (r *SnapshotRepo) Save(ctx context.Context, snap *scene.Snapshot) (bool, error) {
	var last []byte
	err := r.q.QueryRow(ctx,
		`SELECT digest FROM scene_snapshots WHERE scene = $1 ORDER BY taken_at DESC LIMIT 1`,
		snap.Scene,
	).Scan(&last)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("query last digest: %w", err)
	case bytes.Equal(last, snap.Digest[:]):
		return false, nil
	}

	if _, err := r.q.Exec(ctx,
		`INSERT INTO scene_snapshots (id, scene, taken_at, entities, document, digest)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		snap.ID.String(), snap.Scene, snap.TakenAt, snap.Entities, snap.Document, snap.Digest[:],
	); err != nil {
		return false, fmt.Errorf("insert snapshot: %w", err)
	}
	return true, nil
}

// Latest loads the newest snapshot of a scene.
func (r *SnapshotRepo) Latest(ctx context.Context, name string) (*scene.Snapshot, error) {
	var (
		id      string
		snap    scene.Snapshot
		takenAt time.Time
		digest  []byte
	)
	err := r.q.QueryRow(ctx,
		`SELECT id::text, scene, taken_at, entities, document, digest
		 FROM scene_snapshots WHERE scene = $1 ORDER BY taken_at DESC LIMIT 1`,
		name,
	).Scan(&id, &snap.Scene, &takenAt, &snap.Entities, &snap.Document, &digest)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("scene %q: %w", name, ErrNoSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	if snap.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("snapshot id %q: %w", id, err)
	}
	if len(digest) != len(snap.Digest) {
		return nil, fmt.Errorf("snapshot %s: digest is %d bytes", id, len(digest))
	}
	copy(snap.Digest[:], digest)
	snap.TakenAt = takenAt.UTC()
	return &snap, nil
}

// Prune keeps the newest keep snapshots of a scene and deletes the rest.
func (r *SnapshotRepo) Prune(ctx context.Context, name string, keep int) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM scene_snapshots
		 WHERE scene = $1 AND id NOT IN (
		     SELECT id FROM scene_snapshots WHERE scene = $1 ORDER BY taken_at DESC LIMIT $2
		 )`,
		name, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
