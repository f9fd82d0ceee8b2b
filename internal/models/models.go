package models

import (
	"fmt"
	"time"
)

// SubjectType identifies the kind of entity a chart is computed for.
type SubjectType string

const (
	SubjectArtist SubjectType = "artist"
	SubjectUser   SubjectType = "user"
	SubjectTag    SubjectType = "tag"
	SubjectGenre  SubjectType = "genre"
)

// ItemType identifies the kind of entity being ranked.
type ItemType string

const (
	ItemTrack  ItemType = "track"
	ItemArtist ItemType = "artist"
	ItemAlbum  ItemType = "album"
	ItemTag    ItemType = "tag"
	ItemGenre  ItemType = "genre"
)

// CacheStatus records whether the last fetch attempt for a key succeeded.
type CacheStatus string

const (
	StatusSuccess CacheStatus = "success"
	StatusFailed  CacheStatus = "failed"
)

// CacheKey is the composite identity of one chart fetch.
//
// SubjectID and SubjectValue are both optional: a zero SubjectID and an empty
// SubjectValue each mean "absent". Absent fields still participate in key
// equality, coalesced to their zero sentinels (0, "").
type CacheKey struct {
	SubjectType  SubjectType
	SubjectID    int64  // numeric subject reference (user or artist row id), 0 when absent
	SubjectValue string // textual subject reference (e.g. artist name), "" when absent
	ItemType     ItemType
	Provider     string
	ScopeKey     string
}

// Validate checks that the key names a subject, item, provider and scope.
func (k CacheKey) Validate() error {
	if k.SubjectType == "" {
		return fmt.Errorf("cache key missing subject type")
	}
	if k.ItemType == "" {
		return fmt.Errorf("cache key missing item type")
	}
	if k.Provider == "" {
		return fmt.Errorf("cache key missing provider")
	}
	if k.ScopeKey == "" {
		return fmt.Errorf("cache key missing scope key")
	}
	return nil
}

// String renders the coalesced key tuple, usable as a single-flight group key.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%d:%s:%s:%s:%s",
		k.SubjectType, k.SubjectID, k.SubjectValue, k.ItemType, k.Provider, k.ScopeKey)
}

// CacheRecord is a persisted fetch attempt for one [CacheKey].
//
// Created on the first fetch for a key and mutated in place on every
// subsequent attempt; a key never owns more than one row.
type CacheRecord struct {
	ID           string
	Key          CacheKey
	ScannedAt    time.Time
	ExpiresAt    time.Time
	Status       CacheStatus
	ErrorMessage string // set iff Status == StatusFailed
}

// Valid reports whether the record can satisfy a cache lookup at the given
// time: it must be a success and not yet expired.
func (r *CacheRecord) Valid(now time.Time) bool {
	return r.Status == StatusSuccess && r.ExpiresAt.After(now)
}

// TopItem is one ranked entry in a chart result.
//
// Rank is always set (1-based, dense). Every other field is provider
// dependent and zero when the provider does not populate it.
type TopItem struct {
	Rank            int     `json:"rank"`
	Title           string  `json:"title,omitempty"`
	ExternalID      string  `json:"external_id,omitempty"`
	Playcount       int64   `json:"playcount,omitempty"`
	Listeners       int64   `json:"listeners,omitempty"`
	Score           float64 `json:"score,omitempty"`
	URL             string  `json:"url,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`

	// Matcher annotations, populated by the orchestrator on request.
	MatchedSongID   int64   `json:"matched_song_id,omitempty"`
	MatchConfidence float64 `json:"match_confidence,omitempty"`
}

// ChartExport bundles a served chart with its identifying context for
// rendering and file export.
type ChartExport struct {
	Subject   string    `json:"subject"`
	ItemType  ItemType  `json:"item_type"`
	Provider  string    `json:"provider"`
	ScopeKey  string    `json:"scope"`
	FromCache bool      `json:"from_cache"`
	Items     []TopItem `json:"items"`
}

// TrackCandidate is a local catalog track considered during matching.
type TrackCandidate struct {
	ID              int64
	Title           string
	DurationSeconds int // 0 means unknown
}

// MatchResult is the outcome of linking an external title to a local song.
//
// SongID 0 means no match; Method names the rule that produced the match so
// scores stay explainable in logs and tests.
type MatchResult struct {
	SongID     int64
	Confidence float64
	Method     string
	Similarity float64 // Jaro-Winkler similarity of the normalized titles, informational
}
