package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tracklist/internal/server"
	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/desertthunder/tracklist/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal view.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	if path := r.config.Log.File; path != "" {
		fileLogger, err := shared.NewFileLogger(path)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		shared.ApplyLogLevel(fileLogger, r.config.Log.Level)
		r.SetLogger(fileLogger)
	}

	recorder, closeHistory, err := r.recorder()
	if err != nil {
		return err
	}
	defer closeHistory()

	auth := r.authenticator()
	controller := session.NewController(session.ControllerOpts{
		ClientID: r.config.Credentials.Spotify.ClientID,
		Tokens:   auth,
		API:      r.api,
		Recorder: recorder,
		Logger:   r.logger,
	})

	var (
		authURL string
		wait    ui.WaitFunc
	)

	if token := cmd.String("token"); token != "" {
		controller.SetToken(ctx, token)
	} else {
		state, err := shared.GenerateState()
		if err != nil {
			return fmt.Errorf("failed to generate state: %w", err)
		}
		authURL = auth.AuthURL(r.config.Credentials.Spotify.ClientID, state)

		wait, err = r.callbackServer(state, cmd.Duration("timeout"))
		if err != nil {
			return err
		}

		if !cmd.Bool("no-browser") {
			if err := shared.OpenBrowser(authURL); err != nil {
				r.logger.Warnf("failed to open browser automatically %v", err)
			}
		}
	}

	model := ui.NewModel(ctx, controller, authURL, wait)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// callbackServer listens on the redirect URI's host and returns a WaitFunc that
// blocks until the redirect arrives, the timeout passes or ctx is cancelled.
//
// The server is shut down once the WaitFunc returns.
func (r *Runner) callbackServer(state string, timeout time.Duration) (ui.WaitFunc, error) {
	redirect, err := url.Parse(r.config.Credentials.Spotify.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: redirect uri: %v", shared.ErrInvalidConfig, err)
	}

	handler := server.NewOAuthHandler(redirect.Path, state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("waiting for authorization redirect on %v", redirect.String())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	return func(ctx context.Context) (string, error) {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				r.logger.Warn("error shutting down callback server", "error", err)
			}
		}()

		var expired <-chan time.Time
		if timeout > 0 {
			timer := time.NewTimer(timeout)
			defer timer.Stop()
			expired = timer.C
		}

		select {
		case result := <-handler.Result():
			if err := result.Error(); err != nil {
				return "", err
			}
			return result.Code, nil
		case err := <-serverErrors:
			return "", fmt.Errorf("callback server error: %w", err)
		case <-expired:
			return "", fmt.Errorf("%w: no authorization redirect after %v", shared.ErrTimeout, timeout)
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", shared.ErrTimeout, ctx.Err())
		}
	}, nil
}
