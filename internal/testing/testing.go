// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tracklist/internal/models"
)

// MockAPI is a test double for [services.API] that counts calls.
//
// A nil func field returns zero values and no error.
type MockAPI struct {
	ProfileFunc   func(ctx context.Context, token string) (*models.Profile, error)
	PlaylistsFunc func(ctx context.Context, token string) ([]models.Playlist, error)
	TracksFunc    func(ctx context.Context, token, playlistID string) ([]string, error)
	TrackFunc     func(ctx context.Context, token, uri string) (*models.Track, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockAPI) count(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockAPI) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// TotalCalls returns the number of calls across all methods.
func (m *MockAPI) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *MockAPI) FetchProfile(ctx context.Context, token string) (*models.Profile, error) {
	m.count("FetchProfile")
	if m.ProfileFunc == nil {
		return &models.Profile{}, nil
	}
	return m.ProfileFunc(ctx, token)
}

func (m *MockAPI) FetchPlaylists(ctx context.Context, token string) ([]models.Playlist, error) {
	m.count("FetchPlaylists")
	if m.PlaylistsFunc == nil {
		return []models.Playlist{}, nil
	}
	return m.PlaylistsFunc(ctx, token)
}

func (m *MockAPI) FetchTracks(ctx context.Context, token, playlistID string) ([]string, error) {
	m.count("FetchTracks")
	if m.TracksFunc == nil {
		return []string{}, nil
	}
	return m.TracksFunc(ctx, token, playlistID)
}

func (m *MockAPI) FetchTrack(ctx context.Context, token, uri string) (*models.Track, error) {
	m.count("FetchTrack")
	if m.TrackFunc == nil {
		return &models.Track{URI: uri}, nil
	}
	return m.TrackFunc(ctx, token, uri)
}

// MockTokenProvider is a test double for [services.TokenProvider].
type MockTokenProvider struct {
	Token string
	Err   error

	mu    sync.Mutex
	codes []string
}

func (m *MockTokenProvider) AccessToken(ctx context.Context, clientID, code string) (string, error) {
	m.mu.Lock()
	m.codes = append(m.codes, code)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Token, nil
}

// Codes returns every code passed to AccessToken, in order.
func (m *MockTokenProvider) Codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.codes...)
}

// MockRecorder collects recorded snapshots.
type MockRecorder struct {
	Err error

	mu        sync.Mutex
	snapshots []*models.Snapshot
}

func (m *MockRecorder) Record(snapshot *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

// Snapshots returns the recorded snapshots.
func (m *MockRecorder) Snapshots() []*models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Snapshot(nil), m.snapshots...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
