package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/kanban-board/internal/api"
	"github.com/dom/kanban-board/internal/clock"
	"github.com/dom/kanban-board/internal/mail"
	"github.com/dom/kanban-board/internal/repository/postgres"
	"github.com/dom/kanban-board/internal/service"
	"github.com/spf13/cobra"
)

func serveCommand(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL, gormLevel(log))
	if err != nil {
		return err
	}
	repos := postgres.NewRepositories(db)

	clk := clock.System()
	sender, err := mail.NewSender(cfg, clk, log)
	if err != nil {
		return err
	}
	if c, ok := sender.(io.Closer); ok {
		defer c.Close()
	}
	dispatcher := mail.NewDispatcher(sender, log)

	services := service.NewServices(repos, cfg, clk, dispatcher, log)
	router := api.NewRouter(services, clk, log)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go services.Session.Sweep(ctx, cfg.SessionStampTTL)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment, "mail", cfg.Mail.Transport)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// Let queued invite and verification mails finish.
	dispatcher.Wait()
	log.Info("server stopped")
	return nil
}
