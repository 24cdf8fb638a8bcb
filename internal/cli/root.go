// Package cli implements the lmsctl command tree: session operations
// (login, whoami, logout) driving the session manager over the
// file-backed store, and the content seeder.
package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenlms/sessionkit/core/apiclient"
	"github.com/lumenlms/sessionkit/core/config"
	"github.com/lumenlms/sessionkit/core/session"
	"github.com/lumenlms/sessionkit/storage/file"
)

type apiConfig struct {
	BaseURL string        `env:"LMS_API_URL" envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"LMS_API_TIMEOUT" envDefault:"10s"`
}

type storeConfig struct {
	// Dir defaults to ~/.lmsctl when unset.
	Dir       string `env:"LMS_SESSION_DIR"`
	Namespace string `env:"LMS_SESSION_NS" envDefault:"lms"`
}

// ExecuteContext runs the lmsctl root command.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "lmsctl",
		Short:         "LMS session and content tooling",
		Long:          "lmsctl manages a local LMS session (login, whoami, logout) and seeds the course content tree.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newLoginCmd(&verbose),
		newWhoamiCmd(&verbose),
		newLogoutCmd(&verbose),
		newSeedCmd(&verbose),
	)
	return root
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newManager wires the file store, the API client, and the session
// manager from environment configuration.
func newManager(log *slog.Logger) (*session.Manager, error) {
	var api apiConfig
	if err := config.Load(&api); err != nil {
		return nil, err
	}
	var sc storeConfig
	if err := config.Load(&sc); err != nil {
		return nil, err
	}

	dir := sc.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".lmsctl")
	}

	store, err := file.New(dir, sc.Namespace, file.WithLogger(log))
	if err != nil {
		return nil, err
	}

	client, err := apiclient.New(api.BaseURL,
		apiclient.WithTimeout(api.Timeout),
		apiclient.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	return session.New(
		session.WithStore(store),
		session.WithAPIClient(client),
		session.WithLogger(log),
	)
}
