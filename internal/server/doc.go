// Package server provides HTTP routing, middleware, and the CAST request handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// Bundled middleware: [RequestLogger] (structured request logs with generated
// request IDs) and [RateLimit] (per-client-IP token bucket).
//
// # CAST Handler
//
// [CastHandler] is the whole application surface: one GET endpoint that renders
// the search form, runs the search-and-queue flow when a search term is present,
// and dispatches admin commands submitted via the admin query parameter or the
// admin prefix on the search field. [ParseAdminCommand] defines the documented
// admin command set. All playback service failures are converted to rendered
// messages at this boundary; requests are independent and nothing is retried.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks. The auth command
// starts a temporary HTTP server on the configured redirect port, handles the
// callback, and shuts down after receiving the OAuth token.
package server
