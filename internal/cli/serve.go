package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sheikh-saqib/farminvest/internal/api"
	"github.com/sheikh-saqib/farminvest/internal/config"
	"github.com/sheikh-saqib/farminvest/internal/events"
	"github.com/sheikh-saqib/farminvest/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/farminvest/internal/interfaces"
	"github.com/sheikh-saqib/farminvest/internal/ledger"
	"github.com/sheikh-saqib/farminvest/internal/storage/memory"
	"github.com/sheikh-saqib/farminvest/internal/storage/postgres"
	"github.com/sheikh-saqib/farminvest/internal/storage/sqlite"
)

// NewServeCommand creates the serve command, which runs the investments API.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the investments API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rootOpts.Config, rootOpts.Logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, closeStore, err := newInvestmentStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher := newPublisher(cfg.Kafka, logger)
	defer closePublisher()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandlers(ledger.NewLedger(store, publisher, logger)), logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.Server.Addr, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newInvestmentStore opens the configured backend. The returned func
// releases it.
func newInvestmentStore(ctx context.Context, cfg config.StorageConfig) (interfaces.InvestmentStore, func(), error) {
	switch cfg.Driver {
	case "memory", "":
		return memory.NewMemoryInvestmentStore(), func() {}, nil
	case "postgres":
		store, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newPublisher uses kafka when brokers are configured and the log otherwise.
func newPublisher(cfg config.KafkaConfig, logger *slog.Logger) (interfaces.EventPublisher, func()) {
	if len(cfg.Brokers) == 0 {
		return events.NewLogPublisher(logger), func() {}
	}
	p := kafka.NewPublisher(cfg.Brokers)
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Warn("closing kafka publisher", "error", err)
		}
	}
}
