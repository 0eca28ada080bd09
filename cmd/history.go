package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/tracklist/internal/formatter"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recorded snapshots, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	kind := cmd.String("kind")
	switch models.SnapshotKind(kind) {
	case "", models.SnapshotPlaylists, models.SnapshotTracks:
	default:
		return fmt.Errorf("%w: kind must be %q or %q", shared.ErrInvalidArgument, models.SnapshotPlaylists, models.SnapshotTracks)
	}

	repo, db, err := r.history()
	if err != nil {
		return err
	}
	defer db.Close()

	snapshots, err := repo.List(map[string]any{
		"kind":       kind,
		"session_id": cmd.String("session"),
		"limit":      int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]models.SnapshotView, 0, len(snapshots))
		for _, s := range snapshots {
			views = append(views, s.View())
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(snapshots) == 0 {
		r.writePlain("No snapshots recorded\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Snapshots (%d)", len(snapshots)))
	for _, s := range snapshots {
		ref := s.Ref()
		if ref == "" {
			ref = "-"
		}
		r.writePlain("%s  %-9s  %-24s  %4d  %s\n",
			s.CreatedAt().Local().Format(time.DateTime), s.Kind(), ref, s.Len(), s.ID())
	}
	return nil
}

// HistoryShow prints a single snapshot.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: snapshot id", shared.ErrMissingArgument)
	}

	repo, db, err := r.history()
	if err != nil {
		return err
	}
	defer db.Close()

	snapshot, err := repo.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshot.View(), cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Snapshot %s", snapshot.ID()))
	r.writePlain("Session: %s\n", snapshot.SessionID())
	r.writePlain("Kind:    %s\n", snapshot.Kind())
	if snapshot.Ref() != "" {
		r.writePlain("Ref:     %s\n", snapshot.Ref())
	}
	r.writePlain("Created: %s\n\n", snapshot.CreatedAt().Local().Format(time.DateTime))

	switch snapshot.Kind() {
	case models.SnapshotPlaylists:
		for i, p := range snapshot.Playlists() {
			r.writePlain("%3d. %s (%s)\n", i+1, p.Name, p.ID)
		}
	case models.SnapshotTracks:
		for i, uri := range snapshot.Tracks() {
			r.writePlain("%3d. %s\n", i+1, uri)
		}
	}
	return nil
}

// HistoryExport writes a snapshot to a file as CSV, Markdown, text or JSON.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: snapshot id", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, db, err := r.history()
	if err != nil {
		return err
	}
	defer db.Close()

	snapshot, err := repo.Get(id)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(snapshot, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("snapshot exported", "id", id, "format", format, "path", path)
	r.writePlain("✓ Exported %d items to %s\n", snapshot.Len(), path)
	return nil
}
