// Command refid is the operator tool for localdex reference ids.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localdex/internal/bootstrap"
	"github.com/kailas-cloud/localdex/internal/config"
	"github.com/kailas-cloud/localdex/internal/db"
	logpkg "github.com/kailas-cloud/localdex/internal/logger"
	"github.com/kailas-cloud/localdex/internal/version"
)

// app holds state shared by subcommands. Config and store are only loaded by
// commands that talk to the database.
type app struct {
	env        string
	configPath string
	jsonOut    bool

	out       io.Writer
	openStore func(cfg config.DatabaseConfig) (db.Store, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	a := &app{out: os.Stdout, openStore: bootstrap.OpenStore}
	root := a.rootCmd()
	root.SetContext(ctx)

	err := root.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "refid",
		Short:         "Encode, decode and allocate localdex reference ids",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.env, "env", config.GetEnv(), "config environment (local, dev, prod)")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "explicit config file path, overrides --env")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.validateCmd(),
		a.routeCmd(),
		a.allocateCmd(),
		a.searchCmd(),
	)
	return root
}

func (a *app) loadConfig() (config.Config, error) {
	if a.configPath != "" {
		return config.LoadFile(a.configPath)
	}
	return config.Load(a.env)
}

func (a *app) newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logpkg.NewLogger(a.env, cfg.Logging.Level)
}

// connect loads config and opens a ready store. The caller closes the store.
func (a *app) connect(ctx context.Context) (config.Config, db.Store, *zap.Logger, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := a.newLogger(&cfg)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	store, err := a.openStore(cfg.Database)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("connecting to store: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return config.Config{}, nil, nil, fmt.Errorf("store not reachable: %w", err)
	}
	return cfg, store, logger, nil
}
