package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chipdesk/chipdesk/src/backup"
	"github.com/chipdesk/chipdesk/src/config"
	"github.com/chipdesk/chipdesk/src/database"
	"github.com/chipdesk/chipdesk/src/handlers"
	"github.com/chipdesk/chipdesk/src/scheduler"
	"github.com/chipdesk/chipdesk/src/server"
	"github.com/chipdesk/chipdesk/src/utils"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(cfg.LogDir)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DBFile)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		return fmt.Errorf("schema setup failed: %w", err)
	}
	logger.Info("Database ready: %s", cfg.DBFile)

	api := handlers.NewAPI(db, logger)
	router := server.NewRouter(cfg, api, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var redirector *http.Server
	if cfg.Redirect.Target != "" {
		redirector = server.NewRedirector(cfg.Bind, cfg.Redirect.Port, cfg.Redirect.Target)
		go func() {
			logger.Info("Redirector listening on %s -> %s", redirector.Addr, cfg.Redirect.Target)
			if err := redirector.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Redirector failed: %v", err)
			}
		}()
	}

	var sched *scheduler.Scheduler
	if cfg.Backup.Enabled {
		sched = scheduler.New(logger)
		svc := backup.New(db, cfg.Backup.Dir, cfg.Backup.Keep, logger)
		if err := sched.RegisterBackup(svc, cfg.Backup.Schedule); err != nil {
			return fmt.Errorf("invalid backup schedule %q: %w", cfg.Backup.Schedule, err)
		}
		sched.Start()
		logger.Info("Backup scheduler enabled: %s", cfg.Backup.Schedule)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chipdesk %s listening on %s (%s mode)", GetVersionString(), srv.Addr, cfg.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop()
	}
	if redirector != nil {
		if err := redirector.Shutdown(ctx); err != nil {
			logger.Error("Redirector shutdown: %v", err)
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}
