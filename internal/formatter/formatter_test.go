package formatter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
)

func playlistsSnapshot() *models.Snapshot {
	return models.RestoreSnapshot("snap-1", "session-a", models.SnapshotPlaylists, "",
		[]models.Playlist{{Name: "Road Trip", ID: "p1"}, {Name: "Focus, Deep", ID: "p2"}},
		nil, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func tracksSnapshot() *models.Snapshot {
	return models.RestoreSnapshot("snap-2", "session-a", models.SnapshotTracks, "p1", nil,
		[]string{"spotify:track:x", "spotify:track:y"}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: "Markdown", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: " text ", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExportToCSV(t *testing.T) {
	t.Run("playlists", func(t *testing.T) {
		data, err := ExportToCSV(playlistsSnapshot())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "Position,Name,ID" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[2][1] != "Focus, Deep" || records[2][2] != "p2" {
			t.Errorf("expected quoted name to survive, got %v", records[2])
		}
	})

	t.Run("tracks", func(t *testing.T) {
		data, err := ExportToCSV(tracksSnapshot())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := "Position,URI\n1,spotify:track:x\n2,spotify:track:y\n"
		if string(data) != want {
			t.Errorf("expected %q, got %q", want, string(data))
		}
	})
}

func TestExportToMarkdown(t *testing.T) {
	md := string(ExportToMarkdown(playlistsSnapshot()))

	for _, want := range []string{
		"# Playlists\n",
		"**Session**: session-a",
		"**Recorded**: 2026-01-02 03:04:05 UTC",
		"**Items**: 2",
		"1. Road Trip (`p1`)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected %q in markdown, got:\n%s", want, md)
		}
	}
}

func TestExportToText(t *testing.T) {
	text := string(ExportToText(tracksSnapshot()))

	want := "Tracks of playlist p1\nItems: 2\n\n1. spotify:track:x\n2. spotify:track:y\n"
	if text != want {
		t.Errorf("expected %q, got %q", want, text)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("writes to path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "playlists.json")

		got, err := WriteExport(playlistsSnapshot(), FormatJSON, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), `"kind": "playlists"`) {
			t.Errorf("expected JSON snapshot, got %s", data)
		}
	})

	t.Run("defaults to snapshot id", func(t *testing.T) {
		t.Chdir(t.TempDir())

		got, err := WriteExport(tracksSnapshot(), FormatText, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "snap-2.txt" {
			t.Errorf("expected snap-2.txt, got %s", got)
		}
		if _, err := os.Stat(got); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := WriteExport(tracksSnapshot(), Format("xml"), filepath.Join(t.TempDir(), "x"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
