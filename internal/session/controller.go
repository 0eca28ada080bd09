package session

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/services"
	"github.com/desertthunder/tracklist/internal/shared"
)

// Recorder stores snapshots of successful loads.
type Recorder interface {
	Record(snapshot *models.Snapshot) error
}

// ControllerOpts holds the collaborators of a [Controller].
type ControllerOpts struct {
	ID       string // session identifier used in snapshots; generated when empty
	ClientID string
	Tokens   services.TokenProvider
	API      services.API
	Recorder Recorder // optional
	Logger   *log.Logger
}

// Controller drives one session from login through data loading.
//
// It is safe for concurrent use. Views read copies through [Controller.State].
type Controller struct {
	id       string
	clientID string
	tokens   services.TokenProvider
	api      services.API
	recorder Recorder
	logger   *log.Logger

	mu        sync.RWMutex
	token     string
	consumed  map[string]bool
	profile   *models.Profile
	playlists []models.Playlist
	tracks    []string
	selected  *models.Track
}

// NewController creates an unauthenticated controller.
func NewController(opts ControllerOpts) *Controller {
	id := opts.ID
	if id == "" {
		id = shared.GenerateID()
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &Controller{
		id:       id,
		clientID: opts.ClientID,
		tokens:   opts.Tokens,
		api:      opts.API,
		recorder: opts.Recorder,
		logger:   shared.WithLogger(logger, "session", id),
		consumed: make(map[string]bool),
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// Phase reports whether the session holds an access token.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase()
}

func (c *Controller) phase() Phase {
	if c.token == "" {
		return Unauthenticated
	}
	return Authenticated
}

// State returns a copy of the session's data.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := State{Phase: c.phase()}
	if c.profile != nil {
		p := *c.profile
		s.Profile = &p
	}
	if c.playlists != nil {
		s.Playlists = append([]models.Playlist{}, c.playlists...)
	}
	if c.tracks != nil {
		s.Tracks = append([]string{}, c.tracks...)
	}
	if c.selected != nil {
		t := *c.selected
		t.Artists = append([]string(nil), c.selected.Artists...)
		s.Selected = &t
	}
	return s
}

// Start exchanges code for a token when the session has none and code has not been tried.
//
// A failed exchange is logged and the session stays unauthenticated.
func (c *Controller) Start(ctx context.Context, code string) {
	c.mu.Lock()
	if c.token != "" || code == "" || c.consumed[code] {
		c.mu.Unlock()
		return
	}
	c.consumed[code] = true
	c.mu.Unlock()

	if c.tokens == nil {
		c.logger.Error("no token provider configured")
		return
	}

	token, err := c.tokens.AccessToken(ctx, c.clientID, code)
	if err != nil {
		c.logger.Error("failed to exchange authorization code", "error", err)
		return
	}

	c.SetToken(ctx, token)
}

// SetToken stores token and loads the profile and playlists concurrently.
//
// Empty or unchanged tokens are ignored.
func (c *Controller) SetToken(ctx context.Context, token string) {
	c.mu.Lock()
	if token == "" || token == c.token {
		c.mu.Unlock()
		return
	}
	c.token = token
	c.mu.Unlock()

	c.logger.Info("session authenticated")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.loadProfile(ctx, token)
	}()
	go func() {
		defer wg.Done()
		c.loadPlaylists(ctx, token)
	}()
	wg.Wait()
}

func (c *Controller) loadProfile(ctx context.Context, token string) {
	profile, err := c.api.FetchProfile(ctx, token)
	if err != nil {
		c.logger.Error("failed to load profile", "error", err)
		return
	}

	c.mu.Lock()
	c.profile = profile
	c.mu.Unlock()
}

func (c *Controller) loadPlaylists(ctx context.Context, token string) {
	playlists, err := c.api.FetchPlaylists(ctx, token)
	if err != nil {
		c.logger.Error("failed to load playlists", "error", err)
		return
	}

	c.mu.Lock()
	c.playlists = playlists
	c.mu.Unlock()

	c.record(models.NewPlaylistsSnapshot(c.id, playlists))
}

// SelectPlaylist replaces the track list with the URIs of playlist id.
func (c *Controller) SelectPlaylist(ctx context.Context, id string) {
	token, ok := c.currentToken()
	if !ok {
		c.logger.Warn("playlist selected before authentication", "playlist", id)
		return
	}

	tracks, err := c.api.FetchTracks(ctx, token, id)
	if err != nil {
		c.logger.Error("failed to load tracks", "playlist", id, "error", err)
		return
	}

	c.mu.Lock()
	c.tracks = tracks
	c.mu.Unlock()

	c.record(models.NewTracksSnapshot(c.id, id, tracks))
}

// SelectTrack loads the details of the track at uri into the viewer.
func (c *Controller) SelectTrack(ctx context.Context, uri string) {
	token, ok := c.currentToken()
	if !ok {
		c.logger.Warn("track selected before authentication", "uri", uri)
		return
	}

	track, err := c.api.FetchTrack(ctx, token, uri)
	if err != nil {
		c.logger.Error("failed to load track", "uri", uri, "error", err)
		return
	}

	c.mu.Lock()
	c.selected = track
	c.mu.Unlock()
}

func (c *Controller) currentToken() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

func (c *Controller) record(snapshot *models.Snapshot) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(snapshot); err != nil {
		c.logger.Warn("failed to record snapshot", "kind", snapshot.Kind(), "error", err)
	}
}
