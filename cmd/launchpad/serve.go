package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launchpad/internal/auth"
	"launchpad/internal/config"
	"launchpad/internal/httpapi"
	"launchpad/internal/logger"
	"launchpad/internal/store"
	"launchpad/internal/store/file"
	"launchpad/internal/store/memory"
	"launchpad/internal/store/postgres"
	"launchpad/internal/wol"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCommand() *cobra.Command {
	v := config.NewViper()
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "path to a YAML config file")
	flags.IntP("port", "p", 3000, "listen port")
	flags.String("data-dir", "./data", "directory holding users.json and config.json")
	flags.String("database-url", "", "PostgreSQL URL; when set, users and site config are stored there")
	flags.String("storage", "", "storage backend: file, memory or postgres")
	flags.String("static-dir", "", "directory with the built web UI")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console or json")

	bindFlags(v, cmd, map[string]string{
		"port":         "port",
		"data-dir":     "data_dir",
		"database-url": "database_url",
		"storage":      "storage",
		"static-dir":   "static_dir",
		"log-level":    "log.level",
		"log-format":   "log.format",
	})
	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(os.Stdout, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(log)

	st, closer, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.TokenFormat, cfg.Auth.TokenSecret)
	if err != nil {
		return err
	}

	svc := auth.NewService(st, st,
		auth.WithTokenIssuer(tokens),
		auth.WithBcryptCost(cfg.Auth.BcryptCost),
		auth.WithLogger(log),
	)
	if err := svc.EnsureDefaultAdmin(ctx); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	srv := httpapi.NewServer(cfg, svc, st, wol.NewSender(cfg.WakeBroadcast), log)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("launchpad listening", "addr", cfg.ListenAddr(), "storage", cfg.Storage)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutdown requested")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			return err
		}
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return httpServer.Shutdown(ctxShutdown)
}

func openStore(cfg config.Config, log *slog.Logger) (store.Store, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		pg, err := postgres.NewStore(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init postgres store: %w", err)
		}
		log.Info("using postgres store")
		return pg, pg.Close, nil
	case config.StorageMemory:
		log.Warn("using memory store, accounts and settings are lost on restart")
		return memory.NewStore(), nil, nil
	default:
		fs, err := file.NewStore(cfg.DataDir, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init file store: %w", err)
		}
		log.Info("using file store", "data_dir", cfg.DataDir)
		return fs, nil, nil
	}
}
