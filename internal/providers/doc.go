// Package providers defines the [Provider] interface for ranked-chart data
// sources and implements it for the local listening history, Last.fm, and
// Spotify.
//
// # Provider Interface
//
// A provider produces a ranked item list for a (subject, item, scope)
// request. Supports declares which combinations a provider can answer; the
// orchestrator never calls GetTop on a provider whose Supports returns false.
//
// "No data" is not an error: providers return an empty item slice for
// unconfigured credentials, unknown subjects, or empty histories. Errors are
// reserved for transport and malformed-response failures, which the
// orchestrator memoizes as failed cache records.
//
// # Implementations
//
//   - [LocalPlaysProvider] : grouped play-count aggregation over the local
//     listening history (user charts)
//   - [LastFMProvider] : artist.gettoptracks via the Last.fm REST API,
//     rate limited with [rate.Limiter]
//   - [SpotifyProvider] : artist top-tracks via the Spotify Web API using the
//     OAuth2 client-credentials flow
package providers
