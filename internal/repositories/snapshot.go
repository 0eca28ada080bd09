package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
)

// SnapshotRepository stores [models.Snapshot] records.
//
// Snapshots are never updated; Create and Get are the only per-record operations.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a snapshot with a generated ID
func (r *SnapshotRepository) Create(snapshot *models.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var payload any = snapshot.Playlists()
	if snapshot.Kind() == models.SnapshotTracks {
		payload = snapshot.Tracks()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO snapshots (id, session_id, kind, ref, payload, item_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		snapshot.SessionID(),
		string(snapshot.Kind()),
		snapshot.Ref(),
		string(data),
		snapshot.Len(),
		snapshot.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	snapshot.SetID(id)
	return nil
}

// Record implements the session recorder by creating the snapshot.
func (r *SnapshotRepository) Record(snapshot *models.Snapshot) error {
	return r.Create(snapshot)
}

// Get retrieves a snapshot by ID
func (r *SnapshotRepository) Get(id string) (*models.Snapshot, error) {
	query := `
		SELECT id, session_id, kind, ref, payload, created_at
		FROM snapshots
		WHERE id = ?
	`

	snapshot, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}
	return snapshot, err
}

// List retrieves snapshots newest first.
//
// Supported criteria: "kind" (string), "session_id" (string), "ref" (string) and "limit" (int).
func (r *SnapshotRepository) List(criteria map[string]any) ([]*models.Snapshot, error) {
	query := `
		SELECT id, session_id, kind, ref, payload, created_at
		FROM snapshots
		WHERE 1 = 1
	`

	args := []any{}

	if kind, ok := criteria["kind"].(string); ok && kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	if sessionID, ok := criteria["session_id"].(string); ok && sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}

	if ref, ok := criteria["ref"].(string); ok && ref != "" {
		query += " AND ref = ?"
		args = append(args, ref)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		snapshot, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

// Count returns the number of stored snapshots
func (r *SnapshotRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

// scan reads one row into a [models.Snapshot], decoding the payload by kind
func (r *SnapshotRepository) scan(row scanner) (*models.Snapshot, error) {
	var (
		id        string
		sessionID string
		kind      string
		ref       string
		payload   string
		createdAt time.Time
	)

	err := row.Scan(&id, &sessionID, &kind, &ref, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	var (
		playlists []models.Playlist
		tracks    []string
	)

	switch models.SnapshotKind(kind) {
	case models.SnapshotPlaylists:
		err = json.Unmarshal([]byte(payload), &playlists)
	case models.SnapshotTracks:
		err = json.Unmarshal([]byte(payload), &tracks)
	default:
		err = fmt.Errorf("unknown snapshot kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}

	return models.RestoreSnapshot(id, sessionID, models.SnapshotKind(kind), ref, playlists, tracks, createdAt), nil
}
