package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tracklist/internal/models"
	"github.com/desertthunder/tracklist/internal/repositories"
	"github.com/desertthunder/tracklist/internal/shared"
	tu "github.com/desertthunder/tracklist/internal/testing"
	"github.com/urfave/cli/v3"
)

// run executes args against a root command built from the runner.
func run(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "tracklist",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"tracklist"}, args...))
}

func testConfig(t *testing.T) *shared.Config {
	t.Helper()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "history.db")
	return config
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := &tu.MockAPI{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Fatal("expected default config")
			}
			if runner.config.Server.Port != 3000 {
				t.Errorf("expected default port, got %d", runner.config.Server.Port)
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with nil api builds spotify client", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.api == nil {
				t.Error("expected default api client")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writePlainln wraps in newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("next"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "\nnext\n" {
				t.Errorf("expected %q, got %q", "\nnext\n", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"serve", "tui", "setup", "history"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if cmd.Name != want[i] {
				t.Errorf("command %d: expected %s, got %s", i, want[i], cmd.Name)
			}
		}
	})

	t.Run("recorder", func(t *testing.T) {
		t.Run("disabled without database path", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = ""
			runner := NewRunner(RunnerOpts{Config: config})

			recorder, closeFn, err := runner.recorder()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer closeFn()

			if recorder != nil {
				t.Error("expected nil recorder")
			}
		})

		t.Run("opens history database", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: testConfig(t)})

			recorder, closeFn, err := runner.recorder()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer closeFn()

			if err := recorder.Record(models.NewPlaylistsSnapshot("s1", []models.Playlist{{Name: "Mix", ID: "p1"}})); err != nil {
				t.Errorf("expected record to succeed, got %v", err)
			}
		})
	})

	t.Run("authenticator", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.AuthURL = "https://auth.example.com/authorize"
		runner := NewRunner(RunnerOpts{Config: config})

		authURL := runner.authenticator().AuthURL("client", "state-1")
		if !strings.HasPrefix(authURL, "https://auth.example.com/authorize?") {
			t.Errorf("expected configured auth url, got %s", authURL)
		}
		if !strings.Contains(authURL, "code_challenge_method=S256") {
			t.Errorf("expected PKCE challenge, got %s", authURL)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config writes template", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(&bytes.Buffer{})})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := run(t, runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "Wrote "+path) {
			t.Errorf("expected confirmation, got %q", output.String())
		}

		if err := run(t, runner, "setup", "config", "--config", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("config with client id", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := run(t, runner, "setup", "config", "--config", path, "--client-id", "abc123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Credentials.Spotify.ClientID != "abc123" {
			t.Errorf("expected client id abc123, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("database runs migrations", func(t *testing.T) {
		config := testConfig(t)
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})
		missing := filepath.Join(t.TempDir(), "missing.toml")

		if err := run(t, runner, "setup", "database", "--config", missing); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, config.Database.Path)
	})

	t.Run("database requires a path", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = ""
		runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})
		missing := filepath.Join(t.TempDir(), "missing.toml")

		err := run(t, runner, "setup", "database", "--config", missing)
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestHistoryCommands(t *testing.T) {
	seed := func(t *testing.T, config *shared.Config) (*models.Snapshot, *models.Snapshot) {
		t.Helper()
		db, err := shared.OpenHistory(config.Database)
		if err != nil {
			t.Fatalf("failed to open history: %v", err)
		}
		defer db.Close()

		repo := repositories.NewSnapshotRepository(db)
		playlists := models.NewPlaylistsSnapshot("session-a", []models.Playlist{{Name: "Road Trip", ID: "p1"}})
		tracks := models.NewTracksSnapshot("session-b", "p1", []string{"spotify:track:1", "spotify:track:2"})
		for _, s := range []*models.Snapshot{playlists, tracks} {
			if err := repo.Create(s); err != nil {
				t.Fatalf("failed to seed snapshot: %v", err)
			}
		}
		return playlists, tracks
	}

	t.Run("list empty", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: output})

		if err := run(t, runner, "history", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No snapshots recorded") {
			t.Errorf("expected empty message, got %q", output.String())
		}
	})

	t.Run("list as JSON", func(t *testing.T) {
		config := testConfig(t)
		seed(t, config)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output})

		if err := run(t, runner, "history", "list", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var views []models.SnapshotView
		if err := json.Unmarshal(output.Bytes(), &views); err != nil {
			t.Fatalf("expected JSON output, got %v: %s", err, output.String())
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 snapshots, got %d", len(views))
		}
		if views[0].Kind != models.SnapshotTracks {
			t.Errorf("expected newest snapshot first, got %s", views[0].Kind)
		}
	})

	t.Run("list filtered by kind", func(t *testing.T) {
		config := testConfig(t)
		seed(t, config)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output})

		if err := run(t, runner, "history", "list", "--kind", "playlists"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Snapshots (1)") {
			t.Errorf("expected one snapshot, got %q", result)
		}
		if strings.Contains(result, "tracks") {
			t.Errorf("expected tracks snapshot to be filtered out, got %q", result)
		}
	})

	t.Run("list rejects unknown kind", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})

		err := run(t, runner, "history", "list", "--kind", "albums")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("show", func(t *testing.T) {
		config := testConfig(t)
		_, tracks := seed(t, config)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output})

		if err := run(t, runner, "history", "show", tracks.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{"session-b", "Ref:     p1", "1. spotify:track:1", "2. spotify:track:2"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected %q in output, got %q", want, result)
			}
		}
	})

	t.Run("export", func(t *testing.T) {
		config := testConfig(t)
		playlists, _ := seed(t, config)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output, Logger: shared.NewLogger(&bytes.Buffer{})})
		path := filepath.Join(t.TempDir(), "playlists.csv")

		if err := run(t, runner, "history", "export", "--format", "csv", "--output", path, playlists.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := tu.MustReadFile(t, path); !strings.Contains(got, "1,Road Trip,p1") {
			t.Errorf("expected CSV row, got %q", got)
		}
		if !strings.Contains(output.String(), "Exported 1 items to "+path) {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})

		err := run(t, runner, "history", "export", "--format", "xml", "any")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("show missing snapshot", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})

		err := run(t, runner, "history", "show", "nope")
		if !errors.Is(err, shared.ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("show requires id", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Output: &bytes.Buffer{}})

		err := run(t, runner, "history", "show")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestCallbackServer(t *testing.T) {
	t.Run("times out without redirect", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.RedirectURI = "http://127.0.0.1:0/callback"
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{})})

		wait, err := runner.callbackServer("state", 20*time.Millisecond)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := wait(context.Background()); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.RedirectURI = "http://127.0.0.1:0/"
		runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{})})

		wait, err := runner.callbackServer("state", time.Minute)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := wait(ctx); !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("rejects malformed redirect uri", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Credentials.Spotify.RedirectURI = "http://[::1"
		runner := NewRunner(RunnerOpts{Config: config})

		if _, err := runner.callbackServer("state", time.Second); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
