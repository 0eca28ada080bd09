package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/tracklist/internal/server"
	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/desertthunder/tracklist/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web view until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	recorder, closeHistory, err := r.recorder()
	if err != nil {
		return err
	}
	defer closeHistory()

	app, err := web.NewApp(web.Options{
		ClientID:      r.config.Credentials.Spotify.ClientID,
		API:           r.api,
		NewAuthorizer: func() web.Authorizer { return r.authenticator() },
		Recorder:      recorder,
		Logger:        r.logger,
		Limiter:       server.NewLimiter(r.config.Server.RateLimit, r.config.Server.Burst),
	})
	if err != nil {
		return fmt.Errorf("failed to build web app: %w", err)
	}

	addr := r.config.Server.Addr()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting web server at %v", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	url := fmt.Sprintf("http://%s/", addr)
	r.writePlain("→ Serving tracklist at %s\n", url)
	r.writePlain("  Redirect URI: %s\n", r.config.Credentials.Spotify.RedirectURI)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
		}
	}

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}
	return nil
}
