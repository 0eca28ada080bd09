package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
	tu "github.com/desertthunder/tracklist/internal/testing"
)

func newTestModel(t *testing.T, tokens *tu.MockTokenProvider, wait WaitFunc) (*Model, *tu.MockAPI) {
	t.Helper()
	api := &tu.MockAPI{
		ProfileFunc: func(ctx context.Context, token string) (*models.Profile, error) {
			return &models.Profile{AvatarURL: "https://i/avatar.png"}, nil
		},
		PlaylistsFunc: func(ctx context.Context, token string) ([]models.Playlist, error) {
			return []models.Playlist{{Name: "Road Trip", ID: "pl1"}, {Name: "Focus", ID: "pl2"}}, nil
		},
		TracksFunc: func(ctx context.Context, token, id string) ([]string, error) {
			return []string{"spotify:track:" + id + "a", "spotify:track:" + id + "b"}, nil
		},
		TrackFunc: func(ctx context.Context, token, uri string) (*models.Track, error) {
			return &models.Track{URI: uri, Name: "Song", Artists: []string{"Artist"}, DurationMS: 1000}, nil
		},
	}
	ctrl := session.NewController(session.ControllerOpts{ClientID: "client", Tokens: tokens, API: api})

	m := NewModel(context.Background(), ctrl, "https://accounts.test/authorize", wait)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, api
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestModel(t *testing.T) {
	wait := func(ctx context.Context) (string, error) { return "abc123", nil }

	t.Run("starts on login view", func(t *testing.T) {
		m, api := newTestModel(t, &tu.MockTokenProvider{Token: "tok"}, wait)

		if m.view != LoginView {
			t.Fatalf("expected login view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "https://accounts.test/authorize") {
			t.Error("expected authorize URL on login view")
		}
		if api.TotalCalls() != 0 {
			t.Error("expected no API calls before login")
		}
	})

	t.Run("code leads to main view", func(t *testing.T) {
		tokens := &tu.MockTokenProvider{Token: "tok"}
		m, _ := newTestModel(t, tokens, wait)

		_, cmd := m.Update(m.Init()())
		run(t, m, cmd)

		if m.view != MainView {
			t.Fatalf("expected main view, got %v", m.view)
		}
		if got := tokens.Codes(); len(got) != 1 || got[0] != "abc123" {
			t.Errorf("expected one exchange of abc123, got %v", got)
		}

		view := m.View()
		for _, want := range []string{"Road Trip", "https://i/avatar.png", "Select a track"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in main view", want)
			}
		}
	})

	t.Run("failed exchange stays on login", func(t *testing.T) {
		tokens := &tu.MockTokenProvider{Err: shared.ErrAuthFailed}
		m, api := newTestModel(t, tokens, wait)

		_, cmd := m.Update(m.Init()())
		run(t, m, cmd)

		if m.view != LoginView {
			t.Errorf("expected login view, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Authorization failed") {
			t.Error("expected failure notice")
		}
		if api.TotalCalls() != 0 {
			t.Error("expected no API calls")
		}
	})

	t.Run("callback error stays on login", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockTokenProvider{Token: "tok"}, func(ctx context.Context) (string, error) {
			return "", errors.New("access_denied")
		})

		_, cmd := m.Update(m.Init()())
		if cmd != nil {
			t.Error("expected no follow-up command")
		}
		if m.view != LoginView || !strings.Contains(m.View(), "access_denied") {
			t.Errorf("expected login view with error, got %q", m.View())
		}
	})

	t.Run("selecting a playlist then a track", func(t *testing.T) {
		m, api := newTestModel(t, &tu.MockTokenProvider{Token: "tok"}, wait)
		_, cmd := m.Update(m.Init()())
		run(t, m, cmd)

		run(t, m, press(m, tea.KeyEnter))
		if api.Calls("FetchTracks") != 1 {
			t.Fatalf("expected one tracks fetch, got %d", api.Calls("FetchTracks"))
		}
		if !strings.Contains(m.View(), "spotify:track:pl1a") {
			t.Error("expected track URIs of the first playlist")
		}

		if cmd := press(m, tea.KeyTab); cmd != nil {
			t.Error("tab should not produce a command")
		}
		if m.focus != focusTracks {
			t.Fatal("expected focus on tracks")
		}

		run(t, m, press(m, tea.KeyEnter))
		if api.Calls("FetchTrack") != 1 {
			t.Fatalf("expected one track fetch, got %d", api.Calls("FetchTrack"))
		}
		if !strings.Contains(m.View(), "▶ spotify:track:pl1a") {
			t.Error("expected selected track marker")
		}
		if m.screen.Viewer.Track == nil || m.screen.Viewer.Track.Name != "Song" {
			t.Errorf("expected track in viewer, got %+v", m.screen.Viewer.Track)
		}
	})

	t.Run("enter on login view does nothing", func(t *testing.T) {
		m, api := newTestModel(t, &tu.MockTokenProvider{Token: "tok"}, wait)

		if cmd := press(m, tea.KeyEnter); cmd != nil {
			t.Error("expected no command")
		}
		if api.TotalCalls() != 0 {
			t.Error("expected no API calls")
		}
	})

	t.Run("quit", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockTokenProvider{}, wait)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("already authenticated session skips login", func(t *testing.T) {
		api := &tu.MockAPI{}
		ctrl := session.NewController(session.ControllerOpts{API: api})
		ctrl.SetToken(context.Background(), "tok")

		m := NewModel(context.Background(), ctrl, "", wait)
		if m.view != MainView {
			t.Errorf("expected main view, got %v", m.view)
		}
		if m.Init() != nil {
			t.Error("expected no wait command")
		}
	})
}

func TestRenderTrack(t *testing.T) {
	if !strings.Contains(renderTrack(nil), "Select a track") {
		t.Error("expected placeholder")
	}

	out := renderTrack(&models.Track{Name: "Song", Artists: []string{"A", "B"}, Album: "LP", DurationMS: 90000, URI: "spotify:track:x"})
	for _, want := range []string{"Song", "A, B", "LP", "1m30s", "spotify:track:x"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
