// Package models defines domain entities for the top-charts aggregation service.
//
// The package contains two categories of types:
//
// 1. Cache entities: Database-backed rows owned by the cache store
//   - [CacheKey] : Composite identity for one chart fetch (subject, item, provider, scope)
//   - [CacheRecord] : CacheKey plus fetch lifecycle (scanned_at, expires_at, status)
//
// 2. Chart values: Produced per request; [TopItem] rows are additionally
// snapshotted under their cache record so cached serves replay the fetch
//   - [TopItem] : One ranked entry in a chart result
//   - [ChartExport] : A served chart with its request context, for rendering
//   - [TrackCandidate] : A local catalog track considered during matching
//   - [MatchResult] : Outcome of linking an external title to a local song
//
// Subject and item kinds are closed string enums ([SubjectType], [ItemType]) so
// they can be persisted as-is and compared without mapping tables.
package models
