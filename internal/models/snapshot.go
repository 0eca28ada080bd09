package models

import (
	"fmt"
	"time"
)

// SnapshotKind distinguishes what a [Snapshot] recorded.
type SnapshotKind string

const (
	SnapshotPlaylists SnapshotKind = "playlists"
	SnapshotTracks    SnapshotKind = "tracks"
)

var _ Model = (*Snapshot)(nil)

// Snapshot records one successful playlist-list or track-list load.
//
// Snapshots are immutable, so UpdatedAt always equals CreatedAt.
type Snapshot struct {
	id        string
	sessionID string
	kind      SnapshotKind
	ref       string
	playlists []Playlist
	tracks    []string
	createdAt time.Time
}

// NewPlaylistsSnapshot records the playlists loaded by a session.
func NewPlaylistsSnapshot(sessionID string, playlists []Playlist) *Snapshot {
	return &Snapshot{
		sessionID: sessionID,
		kind:      SnapshotPlaylists,
		playlists: append([]Playlist(nil), playlists...),
		createdAt: time.Now().UTC(),
	}
}

// NewTracksSnapshot records the track URIs loaded for playlistID.
func NewTracksSnapshot(sessionID, playlistID string, uris []string) *Snapshot {
	return &Snapshot{
		sessionID: sessionID,
		kind:      SnapshotTracks,
		ref:       playlistID,
		tracks:    append([]string(nil), uris...),
		createdAt: time.Now().UTC(),
	}
}

// RestoreSnapshot rebuilds a snapshot read back from storage.
func RestoreSnapshot(id, sessionID string, kind SnapshotKind, ref string, playlists []Playlist, tracks []string, createdAt time.Time) *Snapshot {
	return &Snapshot{
		id:        id,
		sessionID: sessionID,
		kind:      kind,
		ref:       ref,
		playlists: playlists,
		tracks:    tracks,
		createdAt: createdAt,
	}
}

func (s *Snapshot) ID() string            { return s.id }
func (s *Snapshot) SetID(id string)       { s.id = id }
func (s *Snapshot) SessionID() string     { return s.sessionID }
func (s *Snapshot) Kind() SnapshotKind    { return s.kind }
func (s *Snapshot) Ref() string           { return s.ref }
func (s *Snapshot) Playlists() []Playlist { return s.playlists }
func (s *Snapshot) Tracks() []string      { return s.tracks }
func (s *Snapshot) CreatedAt() time.Time  { return s.createdAt }
func (s *Snapshot) UpdatedAt() time.Time  { return s.createdAt }

// Len returns the number of items the snapshot holds.
func (s *Snapshot) Len() int {
	if s.kind == SnapshotTracks {
		return len(s.tracks)
	}
	return len(s.playlists)
}

// Validate checks the snapshot's kind-specific invariants.
func (s *Snapshot) Validate() error {
	if s.sessionID == "" {
		return fmt.Errorf("snapshot session ID is required")
	}

	switch s.kind {
	case SnapshotPlaylists:
		if s.ref != "" {
			return fmt.Errorf("playlists snapshot must not reference a playlist")
		}
	case SnapshotTracks:
		if s.ref == "" {
			return fmt.Errorf("tracks snapshot requires a playlist ID")
		}
	default:
		return fmt.Errorf("unknown snapshot kind %q", s.kind)
	}

	if s.createdAt.IsZero() {
		return fmt.Errorf("snapshot creation time is required")
	}
	return nil
}

// SnapshotView is the JSON shape used when printing snapshots.
type SnapshotView struct {
	ID        string       `json:"id"`
	SessionID string       `json:"session_id"`
	Kind      SnapshotKind `json:"kind"`
	Ref       string       `json:"ref,omitempty"`
	Playlists []Playlist   `json:"playlists,omitempty"`
	Tracks    []string     `json:"tracks,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// View returns the exported representation of the snapshot.
func (s *Snapshot) View() SnapshotView {
	return SnapshotView{
		ID:        s.id,
		SessionID: s.sessionID,
		Kind:      s.kind,
		Ref:       s.ref,
		Playlists: s.playlists,
		Tracks:    s.tracks,
		CreatedAt: s.createdAt,
	}
}
