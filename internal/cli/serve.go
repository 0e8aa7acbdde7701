package cli

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

	"github.com/spf13/cobra"

	oaAdapter "github.com/ericfisherdev/colorbook/internal/adapter/driven/openai"
	httphandler "github.com/ericfisherdev/colorbook/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/colorbook/internal/adapter/driving/web"
	"github.com/ericfisherdev/colorbook/internal/application"
	"github.com/ericfisherdev/colorbook/internal/config"
	"github.com/ericfisherdev/colorbook/internal/domain/model"
	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web GUI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	a.logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"store", string(cfg.Store),
		"chat_model", cfg.ChatModel,
		"image_model", cfg.ImageModel,
		"rate_limit", cfg.RateLimit,
	)

	store, closeStore, err := openStore(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Error("error closing idea store", "error", err)
		}
	}()

	settings := providerSettings(cfg)
	handler := newHandler(
		cfg,
		store,
		oaAdapter.NewCredentialChecker(settings),
		oaAdapter.NewFactory(settings),
		a.logger,
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Image batches run inside the request, one provider call per image.
		WriteTimeout: model.MaxImageCount*cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}

func providerSettings(cfg *config.Config) oaAdapter.Settings {
	return oaAdapter.Settings{
		BaseURL:      cfg.OpenAIBaseURL,
		ChatModel:    cfg.ChatModel,
		ImageModel:   cfg.ImageModel,
		ImageSize:    cfg.ImageSize,
		ImageQuality: cfg.ImageQuality,
		Prompts:      cfg.Prompts,
		HTTPClient:   &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// newHandler wires the session service into both driving adapters on one
// mux. The generation limiter is shared so the GUI and the API draw from
// the same per-client budget.
func newHandler(
	cfg *config.Config,
	store driven.IdeaStore,
	validator driven.CredentialValidator,
	factory driven.ProviderFactory,
	logger *slog.Logger,
) http.Handler {
	session := application.NewSessionService(
		store,
		validator,
		factory,
		application.NewProviderHolder(nil),
		logger,
	)
	limit := httphandler.NewGenerationLimiter(cfg.RateLimit)

	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(session, limit, logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(session, limit, logger))

	return httphandler.ApplyMiddleware(mux, logger)
}
