package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklist/internal/repositories"
	"github.com/desertthunder/tracklist/internal/services"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	api        services.API
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	API        services.API
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.API == nil {
		opts.API = services.NewSpotifyClient(opts.Config.Credentials.Spotify.APIBaseURL, opts.HTTPClient)
	}

	return &Runner{
		config:     opts.Config,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, tuiCommand, setupCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// authenticator builds a PKCE token provider from the spotify credentials.
func (r *Runner) authenticator() *services.Authenticator {
	spotify := r.config.Credentials.Spotify
	return services.NewAuthenticator(services.AuthenticatorOpts{
		AuthURL:     spotify.AuthURL,
		TokenURL:    spotify.TokenURL,
		RedirectURI: spotify.RedirectURI,
		Scopes:      spotify.Scopes,
		HTTPClient:  r.httpClient,
	})
}

// recorder opens the snapshot history when a database path is configured.
//
// The returned close func is always safe to call.
func (r *Runner) recorder() (session.Recorder, func(), error) {
	if r.config.Database.Path == "" {
		return nil, func() {}, nil
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open history: %w", err)
	}
	return repositories.NewSnapshotRepository(db), func() { db.Close() }, nil
}

// history opens the snapshot repository for the history commands.
func (r *Runner) history() (*repositories.SnapshotRepository, *sql.DB, error) {
	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	return repositories.NewSnapshotRepository(db), db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
