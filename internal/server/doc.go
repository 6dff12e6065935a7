// Package server exposes the playlist catalog over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] registers
// method-qualified [http.ServeMux] patterns ("GET /urls/{mode}") and wraps the whole mux with
// its middleware stack, so middleware such as [CORS] also sees requests no route matches
// (preflight OPTIONS in particular).
//
// [Middleware] runs in the order it is added: the first added sees the request first.
//
// # Handlers
//
// Handlers implement [Handler] by returning their [Route] list. [URLHandler] serves:
//
//	GET    /urls/{mode}               list entries as [{id, videoId}]
//	POST   /urls/{mode}               add {videoId: <raw input>}
//	DELETE /urls/{mode}/{id}          remove (idempotent)
//	GET    /urls/{mode}/next          pick the next video (?current=<videoId>)
//	GET    /videos/{videoId}/title    display title via oEmbed
//	GET    /health                    liveness plus entry count
//
// Every route is also mounted under /api.
//
// # Cross-origin policy
//
// [CORS] admits requests without an Origin header and requests from localhost, loopback or
// private-network origins. Anything else is answered with 403 before reaching a handler.
package server
