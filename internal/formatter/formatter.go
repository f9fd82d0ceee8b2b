// package formatter renders chart exports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/shared"
)

// ExportToCSV converts a ChartExport to CSV format with columns: Rank, Title, Playcount, Listeners, Score, Duration, MatchedSongID, MatchConfidence
func ExportToCSV(export *models.ChartExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Title", "Playcount", "Listeners", "Score", "Duration", "MatchedSongID", "MatchConfidence"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		record := []string{
			strconv.Itoa(item.Rank),
			item.Title,
			strconv.FormatInt(item.Playcount, 10),
			strconv.FormatInt(item.Listeners, 10),
			strconv.FormatFloat(item.Score, 'f', -1, 64),
			strconv.Itoa(item.DurationSeconds),
			strconv.FormatInt(item.MatchedSongID, 10),
			strconv.FormatFloat(item.MatchConfidence, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ChartExport to Markdown format
func ExportToMarkdown(export *models.ChartExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Top %ss for %s\n\n", export.ItemType, export.Subject))

	buf.WriteString(fmt.Sprintf("**Provider**: %s\n", export.Provider))
	buf.WriteString(fmt.Sprintf("**Scope**: %s\n", export.ScopeKey))
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n\n", len(export.Items)))

	buf.WriteString("## Chart\n\n")
	for _, item := range export.Items {
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", item.Rank, item.Title, itemDetail(item)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ChartExport to plain text format
func ExportToText(export *models.ChartExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Top %ss for %s\n", export.ItemType, export.Subject))
	buf.WriteString(fmt.Sprintf("Provider: %s, scope: %s\n\n", export.Provider, export.ScopeKey))

	for _, item := range export.Items {
		buf.WriteString(fmt.Sprintf("%d. %s%s\n", item.Rank, item.Title, itemDetail(item)))
	}

	return buf.Bytes(), nil
}

// itemDetail renders the provider-dependent trailing columns of one entry,
// skipping fields the provider left unset.
func itemDetail(item models.TopItem) string {
	parts := []string{}

	if item.Playcount > 0 {
		parts = append(parts, fmt.Sprintf("%d plays", item.Playcount))
	}
	if item.Listeners > 0 {
		parts = append(parts, fmt.Sprintf("%d listeners", item.Listeners))
	}
	if item.Score > 0 {
		parts = append(parts, fmt.Sprintf("score %.1f", item.Score))
	}
	if item.DurationSeconds > 0 {
		parts = append(parts, shared.FormatDuration(item.DurationSeconds))
	}
	if item.MatchedSongID != 0 {
		parts = append(parts, fmt.Sprintf("song #%d @ %.2f", item.MatchedSongID, item.MatchConfidence))
	}

	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, ", "))
}

// ToJSON generates a JSON representation of the chart export
func ToJSON(export *models.ChartExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// WriteCSVExport writes a chart to {base}_chart.csv with an accompanying
// {base}_metadata.json describing the request context.
//
// The base filename defaults to "<provider>_<scope>".
func WriteCSVExport(export *models.ChartExport, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = fmt.Sprintf("%s_%s", export.Provider, export.ScopeKey)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	chartFile := baseFilepath + "_chart.csv"
	if err := os.WriteFile(chartFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	meta := *export
	meta.Items = nil
	metadataJSON, err := shared.MarshalJSON(meta, true)
	if err != nil {
		return "", fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}

	return chartFile, nil
}

// WriteMarkdownExport writes a chart to the given Markdown file, defaulting
// to "<provider>_<scope>.md".
func WriteMarkdownExport(export *models.ChartExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_%s.md", export.Provider, export.ScopeKey)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes a chart to the given plain text file, defaulting
// to "<provider>_<scope>.txt".
func WriteTextExport(export *models.ChartExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_%s.txt", export.Provider, export.ScopeKey)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
