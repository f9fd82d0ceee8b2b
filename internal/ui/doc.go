// Package ui implements an interactive terminal chart browser using
// bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow:
//  1. [ScopeListView] : Pick a time window for the chart
//  2. [ChartListView] : Browse the ranked entries for that window
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Chart fetches run as tea commands so the interface stays
// responsive while a provider request is in flight; the chart title shows
// whether the entries came from cache or a fresh fetch.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
