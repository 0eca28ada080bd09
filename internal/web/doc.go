// Package web serves the viewer as server-rendered HTML.
//
// # Architecture
//
// Each browser gets a cookie-identified [Session] holding its own [session.Controller] and
// [Authorizer]. Handlers call the controller and redirect back to "/", which renders
// [session.Compose] over the controller's state.
//
// Routes
//
//	GET  /                → login page or main view; consumes ?code=&state= once
//	GET  /login           → redirect to the Spotify authorize URL (PKCE)
//	GET  /playlists/{id}  → load a playlist's track URIs
//	GET  /tracks/{uri}    → load a track into the viewer
//	GET  /healthz         → liveness probe
//
// Templates
//
//   - page.html: layout choosing between the login and main regions
//   - login.html: sign-in link
//   - main.html: nav, viewer and sidebar
//
// # State Management
//
// Sessions live in memory and are lost on restart. The access token never leaves the server.
package web
