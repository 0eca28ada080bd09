package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/tracklist/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// AuthenticatorOpts configures an [Authenticator].
type AuthenticatorOpts struct {
	AuthURL     string
	TokenURL    string
	RedirectURI string
	Scopes      []string
	HTTPClient  *http.Client // used for the token exchange; defaults to [http.DefaultClient]
}

// Authenticator implements [TokenProvider] with the authorization-code flow and a PKCE S256 challenge.
//
// Each Authenticator holds the verifier of the most recent authorize URL, so one
// instance serves one login attempt.
type Authenticator struct {
	opts AuthenticatorOpts

	mu       sync.Mutex
	verifier string
}

// NewAuthenticator creates an authenticator, falling back to the public Spotify endpoints.
func NewAuthenticator(opts AuthenticatorOpts) *Authenticator {
	if opts.AuthURL == "" {
		opts.AuthURL = spotifyAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	return &Authenticator{opts: opts}
}

func (a *Authenticator) config(clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: a.opts.RedirectURI,
		Scopes:      a.opts.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   a.opts.AuthURL,
			TokenURL:  a.opts.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthURL returns the URL the user visits to grant access.
//
// A fresh verifier is generated on every call and replaces the previous one.
func (a *Authenticator) AuthURL(clientID, state string) string {
	verifier := oauth2.GenerateVerifier()

	a.mu.Lock()
	a.verifier = verifier
	a.mu.Unlock()

	return a.config(clientID).AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// AccessToken exchanges code for an access token.
//
// Every failure wraps [shared.ErrAuthFailed].
func (a *Authenticator) AccessToken(ctx context.Context, clientID, code string) (string, error) {
	if clientID == "" {
		return "", fmt.Errorf("%w: %w", shared.ErrAuthFailed, shared.ErrMissingCredentials)
	}
	if code == "" {
		return "", fmt.Errorf("%w: authorization code is empty", shared.ErrAuthFailed)
	}

	a.mu.Lock()
	verifier := a.verifier
	a.mu.Unlock()

	var opts []oauth2.AuthCodeOption
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	if a.opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.opts.HTTPClient)
	}

	token, err := a.config(clientID).Exchange(ctx, code, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access token", shared.ErrAuthFailed)
	}
	return token.AccessToken, nil
}
