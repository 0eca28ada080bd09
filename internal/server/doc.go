// Package server provides HTTP routing, middleware, and OAuth callback handling for the web and terminal views.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
// Paths may use [http.ServeMux] wildcards such as "/playlists/{id}".
//
// # Middleware
//
// [Logging] writes one structured log line per request. [RateLimit] rejects requests
// with 429 Too Many Requests once its token bucket is empty.
//
// # OAuth Callback Handler
//
// [OAuthHandler] receives the authorization-code redirect for the terminal view.
//
// The handler validates the state parameter (CSRF protection) and sends the code through a channel.
// Exchanging the code is left to the session, which owns the token provider.
//
// It only processes one callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
