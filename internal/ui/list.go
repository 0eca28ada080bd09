package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tracklist/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string { return i.playlist.ID }

// trackItem wraps a track URI to implement [list.Item].
type trackItem struct {
	uri      string
	selected bool
}

func (i trackItem) FilterValue() string { return i.uri }
func (i trackItem) Description() string { return "" }
func (i trackItem) Title() string {
	if i.selected {
		return "▶ " + i.uri
	}
	return i.uri
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = playlistItem{playlist: pl}
	}
	return items
}

func trackItems(uris []string, selected string) []list.Item {
	items := make([]list.Item, len(uris))
	for i, uri := range uris {
		items[i] = trackItem{uri: uri, selected: uri == selected}
	}
	return items
}
