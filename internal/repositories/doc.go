// Package repositories provides the persistence layer for the top-charts core.
//
// Three query surfaces live here, all over a single SQLite database:
//
//   - [TopCacheRepository] : the chart fetch cache, keyed by the composite
//     (subject, item, provider, scope) tuple with atomic upserts
//   - [HistoryRepository] : grouped play-count aggregations over the local
//     listening history, joined to songs, artists and albums
//   - [CatalogRepository] : candidate-track and artist lookups used by the
//     matcher and the external chart providers
//
// Storage failures propagate to callers as wrapped I/O errors; "not found"
// is represented as a nil record, never as an error.
package repositories
