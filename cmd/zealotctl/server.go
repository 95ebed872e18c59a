package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/assets"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/config"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/db"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/logging"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/endpoints"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Zealot application server",
	Long: `Run the Zealot application server

To run the server requires the environment variables ZEALOT_SECRET_KEY and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.
With --watch-config the config file is reloaded when it changes; guest mode
and storage settings still need a restart.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		if os.Getenv("ZEALOT_SECRET_KEY") == "" {
			fmt.Fprintln(os.Stderr, "ZEALOT_SECRET_KEY environment variable is required")
			os.Exit(1)
		}
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		log := logging.L()
		defer logging.Sync()

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Info("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{
			SQLDebug:        cfg.LogLevel == "debug",
			MaxOpenConns:    20,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		tokens, err := newTokenIssuer(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to set up access tokens:", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		assetStore, err := assets.New(ctx, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to set up asset storage:", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s, err := server.NewServer(cfg, database, tokens, assetStore, host, port)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create server:", err)
			os.Exit(1)
		}
		endpoints.RegisterAll(s)

		if watch, _ := cmd.Flags().GetBool("watch-config"); watch {
			go watchConfig(ctx)
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Error("Graceful shutdown failed", zap.Error(err))
			}
		}()

		log.Info("Running server", zap.String("url", "http://"+s.Addr()), zap.Bool("guest_mode", cfg.GuestMode))
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server stopped", zap.Error(err))
		}
		log.Info("Server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("watch-config", false, "reload the config file when it changes")
}

func watchConfig(ctx context.Context) {
	log := logging.L()

	onReload := func(prev, next *config.ZealotConfig) {
		changed := config.Changed(prev, next)
		if len(changed) == 0 {
			return
		}
		for _, name := range changed {
			if slices.Contains(config.RestartRequired, name) {
				log.Warn("Configuration change takes effect after a restart", zap.String("attribute", name))
			}
		}
		if err := logging.SetLevel(next.LogLevel); err != nil {
			log.Warn("Ignoring log level", zap.Error(err))
		}
		log.Info("Configuration reloaded", zap.Strings("changed", changed))
	}
	onError := func(err error) {
		log.Warn("Failed to reload configuration", zap.Error(err))
	}

	if err := config.Watch(ctx, onReload, onError); err != nil {
		log.Error("Configuration watcher stopped", zap.Error(err))
	}
}
