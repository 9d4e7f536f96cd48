package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"cyberforum/internal/config"
	"cyberforum/internal/db"
	"cyberforum/internal/forum"
	"cyberforum/internal/job"
	"cyberforum/internal/logger"
	"cyberforum/internal/server"
	"cyberforum/internal/session"
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "forum",
		Short: "TheCyberForum web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite database")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cfg)
		},
	}
	runCmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "port to listen on")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()
			fmt.Println("schema applied to", cfg.DBPath)
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the admin account and the welcome posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := db.SeedSample(cmd.Context(), database, cfg.AdminPassword); err != nil {
				return err
			}
			fmt.Println("seed data loaded into", cfg.DBPath)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cfg *config.Config) error {
	logger.InitLogger(logger.ParseLevel(string(cfg.LogLevel)), cfg.LogFolder)
	defer logger.CloseLogger()

	ctx := context.Background()
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	created, err := db.SeedAdmin(ctx, database, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Warning("Created default admin user, change its password after first login")
	}

	backend, scheduler, err := sessionBackend(ctx, cfg, database)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	store := session.NewStore(backend, cfg.SessionLifetime, sessionKey(cfg))
	srv, err := server.New(forum.NewService(database), session.NewManager(store), cfg.TemplateDir, cfg.StaticDir)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutCtx)
}

// sessionBackend picks the configured session backend. The SQLite backend
// also gets a cron job purging expired rows; Redis expires keys by itself.
func sessionBackend(ctx context.Context, cfg *config.Config, database *sql.DB) (session.Backend, *cron.Cron, error) {
	switch cfg.SessionBackend {
	case "redis":
		rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connect: %w", err)
		}
		logger.Infof("sessions stored in redis at %s", cfg.RedisAddr)
		return session.NewRedisBackend(rdb), nil, nil
	case "sqlite", "":
		backend := session.NewSQLBackend(database)
		scheduler, err := job.Schedule(cfg.CleanupSpec, job.NewSessionCleanupJob(backend))
		if err != nil {
			return nil, nil, fmt.Errorf("schedule session cleanup: %w", err)
		}
		return backend, scheduler, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func sessionKey(cfg *config.Config) []byte {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret)
	}
	logger.Warning("SESSION_SECRET is not set, sessions will not survive a restart")
	return securecookie.GenerateRandomKey(32)
}
