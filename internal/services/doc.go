// Package services talks to the Spotify Web API on behalf of a session.
//
// # API Client
//
// [SpotifyClient] performs the read-only calls the viewer needs. Each call is a single
// authenticated GET against the configured base URL with the access token sent as a
// Bearer header. Only the first page of any paginated resource is read.
//
// Calls map the provider's JSON onto [models.Profile], [models.Playlist] and [models.Track]:
//   - /me                     → avatar URL from images[0].url
//   - /me/playlists           → ordered (name, id) pairs
//   - /playlists/{id}/tracks  → ordered track URIs
//   - /tracks/{id}            → track details
//
// # Token Provider
//
// [Authenticator] builds the authorize URL and exchanges an authorization code for an
// access token using the PKCE flow from [oauth2]. No client secret is involved.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrFetchFailed] : transport, status, decode or shape failure on an API call
//   - [shared.ErrNotAuthenticated] : API call attempted without an access token
//   - [shared.ErrAuthFailed] : authorization code exchange failed
package services
