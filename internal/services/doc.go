// Package services implements clients for the HTTP APIs babytube talks to.
//
// # Remote catalog
//
// [APIService] speaks the babytube HTTP API (see package server) and satisfies [Catalog], so the
// TUI and CLI can run against a remote server or against the local catalog.Service
// interchangeably. Error responses are decoded from {"error": "..."} and mapped back onto the
// shared sentinels:
//   - 400 : [shared.ErrInvalidInput] (a validation error)
//   - 404 : [shared.ErrNoCandidates]
//   - anything else : [shared.ErrAPIRequest]
//
// Transport failures are reported as [shared.ErrServiceUnavailable].
//
// # Titles
//
// [OEmbedService] resolves display titles through YouTube's oEmbed endpoint. Successful
// lookups are memoized for the life of the process; failures are not.
package services
