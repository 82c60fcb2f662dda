// Command minirag is a terminal client for the minirag document and RAG
// API. It keeps two API clients alive, one per application mode
// (enterprise and personal project scopes), both synchronized on one
// persisted session by the coordinator.
package main

import (
	"fmt"
	"os"

	"github.com/minirag/minirag-go/internal/credstore"
	"github.com/minirag/minirag-go/internal/logging"
	"github.com/minirag/minirag-go/pkg/minirag"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app bundles the two mode clients and their coordinator.
type app struct {
	cfg        *Config
	enterprise *minirag.Client
	personal   *minirag.Client
	coord      *minirag.Coordinator
}

var (
	configPath  string
	usePersonal bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "minirag",
		Short:        "Client for the minirag document and RAG API",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "config file path")
	root.PersistentFlags().BoolVar(&usePersonal, "personal", false, "use the personal project scope")

	root.AddCommand(
		loginCmd(),
		registerCmd(),
		logoutCmd(),
		statusCmd(),
		uploadCmd(),
		processCmd(),
		pushCmd(),
		askCmd(),
		assetsCmd(),
		projectsCmd(),
	)

	return root
}

// newApp wires both clients and the coordinator and hydrates the
// persisted session.
func newApp() (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	logger := logging.NewZerolog(os.Stderr, level)

	enterprise, err := minirag.NewClient(&minirag.ClientOptions{
		BaseURL:   cfg.BaseURL,
		ProjectID: cfg.EnterpriseProjectID,
		Timeout:   cfg.Timeout(),
		Logger:    logger,
		SentryDSN: cfg.SentryDSN,
	})
	if err != nil {
		return nil, err
	}

	personal, err := minirag.NewClient(&minirag.ClientOptions{
		BaseURL:   cfg.BaseURL,
		ProjectID: cfg.PersonalProjectID,
		Timeout:   cfg.Timeout(),
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	coord := minirag.NewCoordinator(&minirag.CoordinatorOptions{
		StoreDir: credstore.DefaultDir(),
		Logger:   logger,
	}, enterprise, personal)
	coord.Hydrate()

	return &app{cfg: cfg, enterprise: enterprise, personal: personal, coord: coord}, nil
}

// client returns the API client for the selected mode.
func (a *app) client() *minirag.Client {
	if usePersonal {
		return a.personal
	}
	return a.enterprise
}

// requireSession fails fast when no session is available, so commands
// do not burn a round trip just to learn they are logged out.
func (a *app) requireSession() error {
	if a.coord.State() != minirag.SessionStateAuthenticated {
		return minirag.ErrNotAuthenticated
	}
	return nil
}
