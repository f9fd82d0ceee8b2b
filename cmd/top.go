package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/topcharts/internal/charts"
	"github.com/desertthunder/topcharts/internal/formatter"
	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/shared"
	"github.com/urfave/cli/v3"
)

// reloadConfig re-reads configuration from the --config flag when the file
// exists, keeping the runner's defaults otherwise.
func (r *Runner) reloadConfig(cmd *cli.Command) {
	configPath := cmd.String("config")
	if configPath == "" {
		return
	}

	if _, err := os.Stat(configPath); err == nil {
		if config, err := shared.LoadConfig(configPath); err == nil {
			r.config = config
		} else {
			r.logger.Warn("failed to load config, keeping defaults", "path", configPath, "error", err)
		}
	}
}

// resolveRequest builds a chart request from command flags, resolving the
// subject from --user, --artist-id or --artist.
func (r *Runner) resolveRequest(ctx context.Context, cmd *cli.Command, d *deps) (charts.Request, string, error) {
	itemType := models.ItemType(cmd.String("type"))
	switch itemType {
	case models.ItemTrack, models.ItemArtist, models.ItemAlbum:
	default:
		return charts.Request{}, "", fmt.Errorf("%w: unknown item type %q", shared.ErrInvalidFlag, cmd.String("type"))
	}

	req := charts.Request{
		ItemType: itemType,
		Provider: cmd.String("provider"),
		ScopeKey: cmd.String("scope"),
		Limit:    int(cmd.Int("limit")),
		Match:    cmd.Bool("match"),
	}
	if req.Limit <= 0 {
		req.Limit = r.config.Cache.DefaultLimit
	}

	switch {
	case cmd.Int64("user") != 0:
		req.SubjectType = models.SubjectUser
		req.SubjectID = cmd.Int64("user")
		return req, fmt.Sprintf("user %d", req.SubjectID), nil

	case cmd.Int64("artist-id") != 0:
		req.SubjectType = models.SubjectArtist
		req.SubjectID = cmd.Int64("artist-id")

		subject := fmt.Sprintf("artist %d", req.SubjectID)
		if name, err := d.catalog.ArtistName(ctx, req.SubjectID); err == nil && name != "" {
			req.SubjectValue = name
			subject = name
		}
		return req, subject, nil

	case cmd.String("artist") != "":
		req.SubjectType = models.SubjectArtist
		req.SubjectValue = cmd.String("artist")

		// A local catalog match enables song linking; external providers
		// work off the name alone.
		if id, err := d.catalog.FindArtistByName(ctx, req.SubjectValue); err == nil {
			req.SubjectID = id
		}
		return req, req.SubjectValue, nil
	}

	return charts.Request{}, "", fmt.Errorf("%w: one of --user, --artist or --artist-id is required", shared.ErrMissingArgument)
}

// Top fetches and renders a chart for the requested subject and scope.
func (r *Runner) Top(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	d, err := r.connect()
	if err != nil {
		return err
	}
	defer d.close()

	req, subject, err := r.resolveRequest(ctx, cmd, d)
	if err != nil {
		return err
	}

	result, err := d.service.GetTopCharts(ctx, req)
	if err != nil {
		return err
	}

	export := &models.ChartExport{
		Subject:   subject,
		ItemType:  req.ItemType,
		Provider:  req.Provider,
		ScopeKey:  req.Key().ScopeKey,
		FromCache: result.FromCache,
		Items:     result.Items,
	}

	if format := cmd.String("format"); format != "" {
		return r.exportChart(export, format, cmd.String("output"))
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	text, err := formatter.ExportToText(export)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return r.writePlain("%s", text)
}

// exportChart writes the chart to a file in the requested format.
func (r *Runner) exportChart(export *models.ChartExport, format, output string) error {
	var written string
	var err error

	switch format {
	case "csv":
		written, err = formatter.WriteCSVExport(export, output)
	case "markdown", "md":
		written, err = formatter.WriteMarkdownExport(export, output)
	case "text", "txt":
		written, err = formatter.WriteTextExport(export, output)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	if err != nil {
		return err
	}

	r.logger.Info("chart exported", "format", format, "file", written)
	return r.writePlainln("✓ Chart written to %s", written)
}
