package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	MainView
)

// focus selects which list receives navigation keys.
type focus int

const (
	focusPlaylists focus = iota
	focusTracks
)

// Session is the part of [session.Controller] the TUI drives.
type Session interface {
	Start(ctx context.Context, code string)
	SelectPlaylist(ctx context.Context, id string)
	SelectTrack(ctx context.Context, uri string)
	State() session.State
}

var _ Session = (*session.Controller)(nil)

// WaitFunc blocks until the authorization redirect delivers a code.
type WaitFunc func(ctx context.Context) (string, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	session      Session
	authURL      string
	waitForCode  WaitFunc
	width        int
	height       int
	screen       session.Screen
	playlistList list.Model
	trackList    list.Model
	focus        focus
	attempted    bool
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model.
//
// authURL is shown on the login view and waitForCode is run once when the session is unauthenticated.
func NewModel(ctx context.Context, s Session, authURL string, waitForCode WaitFunc) *Model {
	m := &Model{
		ctx:         ctx,
		view:        LoginView,
		session:     s,
		authURL:     authURL,
		waitForCode: waitForCode,
		help:        help.New(),
		keys:        newKeyMap(),
	}

	m.playlistList = newList("Playlists", true)
	m.trackList = newList("Tracks", false)
	m.apply(s.State())
	return m
}

func newList(title string, descriptions bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = descriptions

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

// Init waits for the authorization code when the session has no token yet.
func (m *Model) Init() tea.Cmd {
	if m.view == LoginView && m.waitForCode != nil {
		return m.awaitCode()
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if m.view == MainView {
			return m.handleMainKeys(msg)
		}
		return m, nil

	case Msg:
		switch msg.kind {
		case MsgCodeReceived:
			res := msg.data.(codeResult)
			if res.err != nil {
				m.err = res.err
				return m, nil
			}
			return m, m.start(res.code)
		case MsgStateLoaded:
			m.apply(msg.data.(session.State))
			return m, nil
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case MainView:
		return m.renderMain()
	default:
		return ""
	}
}

// apply composes state into the screen and refreshes both lists.
func (m *Model) apply(state session.State) {
	m.screen = session.Compose(state)
	if m.screen.Login {
		m.view = LoginView
		return
	}

	m.view = MainView
	m.err = nil
	m.playlistList.SetItems(playlistItems(m.screen.Sidebar.Playlists))
	m.trackList.SetItems(trackItems(m.screen.Sidebar.Tracks, m.screen.Sidebar.Selected))
}

func (m *Model) resize() {
	paneWidth := max(m.width/3-4, 10)
	paneHeight := max(m.height-10, 5)
	m.playlistList.SetSize(paneWidth, paneHeight)
	m.trackList.SetSize(paneWidth, paneHeight)
}

func (m *Model) handleMainKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.tab):
		if m.focus == focusPlaylists {
			m.focus = focusTracks
		} else {
			m.focus = focusPlaylists
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if m.focus == focusPlaylists {
			if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
				return m, m.selectPlaylist(pl.playlist.ID)
			}
			return m, nil
		}
		if tr, ok := m.trackList.SelectedItem().(trackItem); ok {
			return m, m.selectTrack(tr.uri)
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusPlaylists {
		m.playlistList, cmd = m.playlistList.Update(msg)
	} else {
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) awaitCode() tea.Cmd {
	return func() tea.Msg {
		code, err := m.waitForCode(m.ctx)
		return codeReceivedMsg(code, err)
	}
}

func (m *Model) start(code string) tea.Cmd {
	m.attempted = true
	return func() tea.Msg {
		m.session.Start(m.ctx, code)
		return stateLoadedMsg(m.session.State())
	}
}

func (m *Model) selectPlaylist(id string) tea.Cmd {
	return func() tea.Msg {
		m.session.SelectPlaylist(m.ctx, id)
		return stateLoadedMsg(m.session.State())
	}
}

func (m *Model) selectTrack(uri string) tea.Cmd {
	return func() tea.Msg {
		m.session.SelectTrack(m.ctx, uri)
		return stateLoadedMsg(m.session.State())
	}
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("tracklist"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.err.Render(fmt.Sprintf("Authorization failed: %v", m.err)))
	case m.attempted:
		b.WriteString(styles.err.Render("Authorization failed. Restart to try again."))
	default:
		b.WriteString("Log in with Spotify by opening:\n\n")
		b.WriteString(styles.ok.Render(m.authURL))
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render("Waiting for authorization..."))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	return b.String()
}

func (m *Model) renderMain() string {
	nav := styles.title.Render("tracklist")
	if avatar := m.screen.Nav.AvatarURL(); avatar != "" {
		nav = lipgloss.JoinHorizontal(lipgloss.Top, nav, "  ", styles.help.Render(avatar))
	}

	playlists, tracks := styles.pane, styles.pane
	if m.focus == focusPlaylists {
		playlists = styles.focused
	} else {
		tracks = styles.focused
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		playlists.Render(m.playlistList.View()),
		tracks.Render(m.trackList.View()),
		styles.pane.Render(renderTrack(m.screen.Viewer.Track)),
	)

	return fmt.Sprintf("%s\n%s\n\n%s", nav, body, m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderTrack formats the viewer pane; a nil track renders a placeholder.
func renderTrack(t *models.Track) string {
	if t == nil {
		return styles.help.Render("Select a track")
	}

	lines := []string{
		styles.ok.Render(t.Name),
		strings.Join(t.Artists, ", "),
	}
	if t.Album != "" {
		lines = append(lines, t.Album)
	}
	lines = append(lines, t.Duration().String(), styles.help.Render(t.URI))
	return strings.Join(lines, "\n")
}
