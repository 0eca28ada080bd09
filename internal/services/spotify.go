// Spotify API client implementation of [API]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is null for items Spotify can no longer resolve.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedPlaylistTracks represents a page of playlist items.
type SpotifyPaginatedPlaylistTracks struct {
	Items []SpotifyPlaylistTrack `json:"items"`
	Total int                    `json:"total"`
	Next  *string                `json:"next"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items []SpotifySimplePlaylist `json:"items"`
	Total int                     `json:"total"`
	Next  *string                 `json:"next"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyClient implements [API] against the Spotify Web API.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyClient creates a client for baseURL. An empty baseURL selects the public API
// and a nil client selects [http.DefaultClient].
func NewSpotifyClient(baseURL string, client *http.Client) *SpotifyClient {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &SpotifyClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

// doRequest performs an authenticated GET request to the Spotify API and decodes the body into result.
func (s *SpotifyClient) doRequest(ctx context.Context, token, endpoint string, result any) error {
	if token == "" {
		return fmt.Errorf("%w: %w", shared.ErrFetchFailed, shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrFetchFailed, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify API error: status %d", shared.ErrFetchFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrFetchFailed, err)
	}

	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyClient) UserProfile(ctx context.Context, token string) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, token, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchProfile projects the user's first profile image into a [models.Profile].
func (s *SpotifyClient) FetchProfile(ctx context.Context, token string) (*models.Profile, error) {
	user, err := s.UserProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	if len(user.Images) == 0 {
		return nil, fmt.Errorf("%w: profile has no images", shared.ErrFetchFailed)
	}

	return &models.Profile{AvatarURL: user.Images[0].URL}, nil
}

// FetchPlaylists maps the first page of /me/playlists to (name, id) pairs in response order.
func (s *SpotifyClient) FetchPlaylists(ctx context.Context, token string) ([]models.Playlist, error) {
	var response SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, token, "/me/playlists", &response); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(response.Items))
	for _, sp := range response.Items {
		playlists = append(playlists, models.Playlist{Name: sp.Name, ID: sp.ID})
	}
	return playlists, nil
}

// FetchTracks returns the URIs of the first page of items in a playlist.
func (s *SpotifyClient) FetchTracks(ctx context.Context, token, playlistID string) ([]string, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID is empty", shared.ErrFetchFailed)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	var response SpotifyPaginatedPlaylistTracks
	if err := s.doRequest(ctx, token, endpoint, &response); err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(response.Items))
	for i, item := range response.Items {
		if item.Track == nil || item.Track.URI == "" {
			return nil, fmt.Errorf("%w: playlist item %d has no track URI", shared.ErrFetchFailed, i)
		}
		uris = append(uris, item.Track.URI)
	}
	return uris, nil
}

// Track retrieves a single track by ID.
func (s *SpotifyClient) Track(ctx context.Context, token, trackID string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	endpoint := fmt.Sprintf("/tracks/%s", url.PathEscape(trackID))
	if err := s.doRequest(ctx, token, endpoint, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// FetchTrack resolves a "spotify:track:<id>" URI into track details.
func (s *SpotifyClient) FetchTrack(ctx context.Context, token, uri string) (*models.Track, error) {
	id, err := shared.TrackIDFromURI(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFetchFailed, err)
	}

	st, err := s.Track(ctx, token, id)
	if err != nil {
		return nil, err
	}

	track := &models.Track{
		ID:         st.ID,
		URI:        st.URI,
		Name:       st.Name,
		Album:      st.Album.Name,
		DurationMS: st.DurationMS,
	}
	if track.URI == "" {
		track.URI = uri
	}
	for _, artist := range st.Artists {
		track.Artists = append(track.Artists, artist.Name)
	}
	if len(st.Album.Images) > 0 {
		track.ImageURL = st.Album.Images[0].URL
	}
	return track, nil
}
