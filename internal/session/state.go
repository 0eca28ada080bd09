package session

import "github.com/desertthunder/tracklist/internal/models"

// Phase is the authentication phase of a session.
type Phase int

const (
	Unauthenticated Phase = iota
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is a point-in-time copy of a controller's data.
//
// Profile, Playlists, Tracks and Selected are nil until loaded.
type State struct {
	Phase     Phase
	Profile   *models.Profile
	Playlists []models.Playlist
	Tracks    []string
	Selected  *models.Track
}

// Screen is the composed view. When Login is set the other regions are empty.
type Screen struct {
	Login   bool
	Nav     *Nav
	Viewer  *Viewer
	Sidebar *Sidebar
}

// Nav is the header region.
type Nav struct {
	Profile *models.Profile
}

// AvatarURL returns the profile image, or "" before the profile has loaded.
func (n Nav) AvatarURL() string {
	if n.Profile == nil {
		return ""
	}
	return n.Profile.AvatarURL
}

// Viewer shows the selected track. A nil Track renders a placeholder.
type Viewer struct {
	Track *models.Track
}

// Sidebar lists playlists and the track URIs of the selected playlist.
type Sidebar struct {
	Playlists []models.Playlist
	Tracks    []string
	Selected  string
}

// Compose derives the screen from state alone.
func Compose(s State) Screen {
	if s.Phase != Authenticated {
		return Screen{Login: true}
	}

	sidebar := &Sidebar{Playlists: s.Playlists, Tracks: s.Tracks}
	if s.Selected != nil {
		sidebar.Selected = s.Selected.URI
	}

	return Screen{
		Nav:     &Nav{Profile: s.Profile},
		Viewer:  &Viewer{Track: s.Selected},
		Sidebar: sidebar,
	}
}
