// package formatter renders recorded snapshots as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name, case-insensitively. "markdown" and "text" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
	}
}

// Export renders snapshot in the given format.
func Export(snapshot *models.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(snapshot)
	case FormatMarkdown:
		return ExportToMarkdown(snapshot), nil
	case FormatText:
		return ExportToText(snapshot), nil
	case FormatJSON:
		return shared.MarshalJSON(snapshot.View(), true)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV writes one row per item.
//
// Playlist snapshots have columns Position, Name, ID; track snapshots have Position, URI.
func ExportToCSV(snapshot *models.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "URI"}
	if snapshot.Kind() == models.SnapshotPlaylists {
		headers = []string{"Position", "Name", "ID"}
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, record := range rows(snapshot) {
		if err := writer.Write(append([]string{strconv.Itoa(i + 1)}, record...)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading, the snapshot metadata and a numbered list.
func ExportToMarkdown(snapshot *models.Snapshot) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title(snapshot))
	fmt.Fprintf(&buf, "**Session**: %s\n", snapshot.SessionID())
	fmt.Fprintf(&buf, "**Recorded**: %s\n", snapshot.CreatedAt().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&buf, "**Items**: %d\n\n", snapshot.Len())

	buf.WriteString("## Items\n\n")
	for i, record := range rows(snapshot) {
		if len(record) == 2 {
			fmt.Fprintf(&buf, "%d. %s (`%s`)\n", i+1, record[0], record[1])
		} else {
			fmt.Fprintf(&buf, "%d. `%s`\n", i+1, record[0])
		}
	}

	return buf.Bytes()
}

// ExportToText renders a short header followed by one numbered line per item.
func ExportToText(snapshot *models.Snapshot) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", title(snapshot))
	fmt.Fprintf(&buf, "Items: %d\n\n", snapshot.Len())

	for i, record := range rows(snapshot) {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, strings.Join(record, " - "))
	}

	return buf.Bytes()
}

// WriteExport renders snapshot and writes it to path.
//
// An empty path defaults to "{snapshot id}.{format}" in the current directory.
// Returns the path written.
func WriteExport(snapshot *models.Snapshot, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.%s", snapshot.ID(), format)
	}

	data, err := Export(snapshot, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func title(snapshot *models.Snapshot) string {
	if snapshot.Kind() == models.SnapshotTracks {
		return fmt.Sprintf("Tracks of playlist %s", snapshot.Ref())
	}
	return "Playlists"
}

func rows(snapshot *models.Snapshot) [][]string {
	var out [][]string
	if snapshot.Kind() == models.SnapshotPlaylists {
		for _, p := range snapshot.Playlists() {
			out = append(out, []string{p.Name, p.ID})
		}
		return out
	}
	for _, uri := range snapshot.Tracks() {
		out = append(out, []string{uri})
	}
	return out
}
