package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/topcharts/internal/shared"
	"github.com/desertthunder/topcharts/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal chart browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/topcharts-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	d, err := r.connect()
	if err != nil {
		return err
	}
	defer d.close()

	req, subject, err := r.resolveRequest(ctx, cmd, d)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, d.service, req, subject)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
