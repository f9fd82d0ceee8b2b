package main

import (
	"context"

	"github.com/desertthunder/topcharts/internal/matcher"
	"github.com/urfave/cli/v3"
)

// matchView is the JSON shape for one match outcome.
type matchView struct {
	SongID     int64   `json:"song_id"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
	Similarity float64 `json:"similarity"`
}

// MatchTrack runs one title through the catalog matcher and prints the
// outcome with its confidence and method.
func (r *Runner) MatchTrack(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	d, err := r.connect()
	if err != nil {
		return err
	}
	defer d.close()

	m := matcher.New(d.catalog, r.logger)

	result, err := m.Match(ctx, cmd.Int64("artist-id"), cmd.String("title"), int(cmd.Int("duration")))
	if err != nil {
		return err
	}

	return r.writeJSON(matchView{
		SongID:     result.SongID,
		Confidence: result.Confidence,
		Method:     result.Method,
		Similarity: result.Similarity,
	}, cmd.Bool("pretty"))
}
