package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/babytube/internal/catalog"
	"github.com/desertthunder/babytube/internal/playback"
	"github.com/desertthunder/babytube/internal/repositories"
	"github.com/desertthunder/babytube/internal/services"
	"github.com/desertthunder/babytube/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	selector   *playback.Selector
	open       func(videoID string) error

	db    *sql.DB
	local *catalog.Service
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Selector   *playback.Selector
	Opener     func(videoID string) error
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
	if opts.Selector == nil {
		opts.Selector = playback.NewSelector(nil)
	}
	if opts.Opener == nil {
		opts.Opener = shared.OpenVideo
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		selector:   opts.Selector,
		open:       opts.Opener,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, urlsCommand, nextCommand, normalizeCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// loadConfig resolves the config file named by --config, applies environment overrides
// and the --log-level flag, and stores the result on the runner.
func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}

	config, err := shared.ResolveConfig(path)
	if err != nil {
		return ctx, err
	}
	if level := cmd.String("log-level"); level != "" {
		config.Log.Level = level
	}

	r.config = config
	r.configPath = path
	shared.SetLogLevel(r.logger, shared.ParseLevel(config.Log.Level))
	return ctx, nil
}

// openCatalog opens the configured database, migrates it and seeds it on first use.
// The catalog is reused by later calls until [Runner.Close].
func (r *Runner) openCatalog(ctx context.Context) (*catalog.Service, error) {
	if r.local != nil {
		return r.local, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}

	applied, err := shared.RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Info("applied migrations", "count", applied, "path", r.config.Database.Path)
	}

	svc := catalog.NewService(repositories.NewURLRepository(db), r.selector, r.logger)
	if _, err := svc.Bootstrap(ctx); err != nil {
		db.Close()
		return nil, err
	}

	r.db = db
	r.local = svc
	return svc, nil
}

// catalogFor picks the catalog a command works against: the server named by --server
// when given, the local database otherwise.
func (r *Runner) catalogFor(ctx context.Context, cmd *cli.Command) (services.Catalog, services.TitleService, error) {
	if server := cmd.String("server"); server != "" {
		api := services.NewAPIService(server, r.httpClient)
		return api, api, nil
	}

	svc, err := r.openCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	return svc, r.titleService(), nil
}

func (r *Runner) titleService() *services.OEmbedService {
	return services.NewOEmbedService(r.config.OEmbed, nil, shared.WithLogger(r.logger, "component", "oembed"))
}

// Close releases the local database if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.local = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	body := bytes.TrimSuffix(output, []byte("\n"))
	if _, err := r.output.Write(body); err != nil {
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
