// Package session owns the state of one viewer session and the pure view composition over it.
//
// # Lifecycle
//
// A [Controller] starts Unauthenticated. [Controller.Start] exchanges an authorization code
// through a [services.TokenProvider] at most once per code; on success the token is stored
// and the controller becomes Authenticated, which is terminal. Setting a token loads the
// profile and the playlists concurrently. Selecting a playlist loads its track URIs and
// selecting a track loads its details.
//
// Every failure is logged and leaves the affected piece of state unchanged. Nothing is retried.
//
// # Views
//
// [Compose] maps a [State] to a [Screen]. Both the web and terminal renderers draw a Screen
// and nothing else.
package session
