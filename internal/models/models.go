// package models defines the data model for the playlist viewer
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Profile is the part of the current user's profile the nav bar renders.
type Profile struct {
	AvatarURL string `json:"avatar_url"`
}

// Playlist identifies one of the current user's playlists.
type Playlist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Track holds the details of a single selected track.
type Track struct {
	ID         string   `json:"id"`
	URI        string   `json:"uri"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	ImageURL   string   `json:"image_url"`
	DurationMS int      `json:"duration_ms"`
}

// Duration returns the track length as a [time.Duration].
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationMS) * time.Millisecond
}
