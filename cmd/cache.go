package main

import (
	"context"
	"time"

	"github.com/desertthunder/topcharts/internal/models"
	"github.com/urfave/cli/v3"
)

// cacheRecordView is the JSON shape for one cached chart record.
type cacheRecordView struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Status    string `json:"status"`
	ScannedAt string `json:"scanned_at"`
	ExpiresAt string `json:"expires_at"`
	Error     string `json:"error,omitempty"`
}

// CacheList prints every cached chart record, newest first.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	d, err := r.connect()
	if err != nil {
		return err
	}
	defer d.close()

	records, err := d.cache.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]cacheRecordView, len(records))
		for i, rec := range records {
			views[i] = cacheRecordView{
				ID:        rec.ID,
				Key:       rec.Key.String(),
				Status:    string(rec.Status),
				ScannedAt: rec.ScannedAt.Format(time.RFC3339),
				ExpiresAt: rec.ExpiresAt.Format(time.RFC3339),
				Error:     rec.ErrorMessage,
			}
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		return r.writePlainln("No cached charts.")
	}

	now := time.Now()
	for _, rec := range records {
		state := "valid"
		switch {
		case rec.Status == models.StatusFailed:
			state = "failed"
		case !rec.ExpiresAt.After(now):
			state = "expired"
		}
		if err := r.writePlain("%-8s  %s  scanned %s\n", state, rec.Key.String(), rec.ScannedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return nil
}

// CachePurge deletes expired records, or one record by ID.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	d, err := r.connect()
	if err != nil {
		return err
	}
	defer d.close()

	if id := cmd.String("id"); id != "" {
		if err := d.cache.DeleteByID(ctx, id); err != nil {
			return err
		}
		r.logger.Info("cache record deleted", "id", id)
		return r.writePlainln("✓ Deleted cache record %s", id)
	}

	purged, err := d.cache.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}

	r.logger.Info("expired cache records purged", "count", purged)
	return r.writePlainln("✓ Purged %d expired record(s)", purged)
}
