package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/topcharts/internal/charts"
	"github.com/desertthunder/topcharts/internal/matcher"
	"github.com/desertthunder/topcharts/internal/providers"
	"github.com/desertthunder/topcharts/internal/repositories"
	"github.com/desertthunder/topcharts/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	// db is injected in tests; commands otherwise open the configured
	// database on demand.
	db *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		db:         opts.DB,
	}
}

// SetLogger swaps the runner's logger, e.g. to a file logger while a TUI owns
// the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		topCommand, cacheCommand, matchCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// deps bundles the storage-backed collaborators behind one database handle.
type deps struct {
	db       *sql.DB
	cache    *repositories.TopCacheRepository
	history  *repositories.HistoryRepository
	catalog  *repositories.CatalogRepository
	registry *providers.Registry
	service  *charts.Service

	close func()
}

// connect opens the configured database and wires repositories, providers and
// the chart orchestrator. Callers must invoke close when done.
func (r *Runner) connect() (*deps, error) {
	db := r.db
	closer := func() {}

	if db == nil {
		opened, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(opened, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		db = opened
		closer = func() { opened.Close() }
	}

	cache := repositories.NewTopCacheRepository(db)
	history := repositories.NewHistoryRepository(db)
	catalog := repositories.NewCatalogRepository(db)

	registry := providers.NewRegistry(
		providers.NewLocalPlaysProvider(history, r.logger),
		providers.NewLastFMProvider(
			r.config.Credentials.LastFM.APIKey,
			r.config.Credentials.LastFM.BaseURL,
			catalog, r.httpClient, r.logger,
		),
		providers.NewSpotifyProvider(
			r.config.Credentials.Spotify.ClientID,
			r.config.Credentials.Spotify.ClientSecret,
			r.logger,
		),
	)

	service := charts.NewService(charts.Opts{
		Cache:      cache,
		Registry:   registry,
		Matcher:    matcher.New(catalog, r.logger),
		Logger:     r.logger,
		TTL:        time.Duration(r.config.Cache.TTLDays) * 24 * time.Hour,
		FailureTTL: time.Duration(r.config.Cache.FailureTTLMinutes) * time.Minute,
	})

	return &deps{
		db:       db,
		cache:    cache,
		history:  history,
		catalog:  catalog,
		registry: registry,
		service:  service,
		close:    closer,
	}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
