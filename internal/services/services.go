// package services defines the interfaces used to reach the Spotify Web API
package services

import (
	"context"

	"github.com/desertthunder/tracklist/internal/models"
)

// API is the read-only surface of the Spotify Web API used by a session.
type API interface {
	// FetchProfile retrieves the current user's profile.
	FetchProfile(ctx context.Context, token string) (*models.Profile, error)

	// FetchPlaylists retrieves the first page of the current user's playlists.
	FetchPlaylists(ctx context.Context, token string) ([]models.Playlist, error)

	// FetchTracks retrieves the track URIs of the first page of a playlist.
	FetchTracks(ctx context.Context, token, playlistID string) ([]string, error)

	// FetchTrack retrieves the details of a single track by its URI.
	FetchTrack(ctx context.Context, token, uri string) (*models.Track, error)
}

// TokenProvider exchanges an authorization code for an access token.
type TokenProvider interface {
	AccessToken(ctx context.Context, clientID, code string) (string, error)
}

var (
	_ API           = (*SpotifyClient)(nil)
	_ TokenProvider = (*Authenticator)(nil)
)
