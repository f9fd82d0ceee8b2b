package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/shared"
)

var (
	_ list.Item = scopeItem{}
	_ list.Item = chartItem{}
)

// scopeItem wraps a scope key to implement [list.Item].
type scopeItem struct {
	key   string
	label string
}

func (i scopeItem) FilterValue() string { return i.key }
func (i scopeItem) Title() string       { return i.key }
func (i scopeItem) Description() string { return i.label }

// chartItem wraps [models.TopItem] to implement [list.Item].
type chartItem struct {
	item models.TopItem
}

func (i chartItem) FilterValue() string { return i.item.Title }

func (i chartItem) Title() string {
	return fmt.Sprintf("%d. %s", i.item.Rank, i.item.Title)
}

func (i chartItem) Description() string {
	parts := []string{}
	if i.item.Playcount > 0 {
		parts = append(parts, fmt.Sprintf("%d plays", i.item.Playcount))
	}
	if i.item.Listeners > 0 {
		parts = append(parts, fmt.Sprintf("%d listeners", i.item.Listeners))
	}
	if i.item.Score > 0 {
		parts = append(parts, fmt.Sprintf("score %.1f", i.item.Score))
	}
	if i.item.DurationSeconds > 0 {
		parts = append(parts, shared.FormatDuration(i.item.DurationSeconds))
	}
	if i.item.MatchedSongID != 0 {
		parts = append(parts, fmt.Sprintf("matched #%d (%.2f)", i.item.MatchedSongID, i.item.MatchConfidence))
	}
	if len(parts) == 0 {
		return "no stats"
	}
	return strings.Join(parts, " • ")
}
