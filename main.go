package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auction "auction-engine/internal/auctionService"
	"auction-engine/internal/config"
	"auction-engine/internal/eventsink"
	"auction-engine/internal/identity"
	"auction-engine/internal/notifier"
	"auction-engine/internal/registry"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/internal/session"
	"auction-engine/utils"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	storeTimeout    = 5 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "auction server: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "auction-server",
		Short:         "Live auction engine with push updates",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, v)
		},
	}

	if err := config.RegisterFlags(cmd.Flags(), v); err != nil {
		utils.Fatal("failed to register flags", map[string]any{"error": err.Error()})
	}
	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	utils.SetLevel(cfg.LogLevel)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	writer := repository.NewSnapshotWriter(store, storeTimeout)
	events := notifier.New(notifier.DefaultBuffer)

	var roster *eventsink.AMQPPublisher
	if cfg.AMQPURL != "" {
		roster, err = eventsink.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer roster.Close()
		events.AddSink(roster)
	}

	reg := registry.New(session.Options{
		Clock:        clockwork.NewRealClock(),
		Publisher:    events,
		Persister:    writer,
		BidWindow:    cfg.BidWindow,
		TickInterval: cfg.TickInterval,
	}, events, cfg.CodeAttempts)
	defer reg.Close()

	snaps, err := store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("main: load snapshots: %w", err)
	}
	restored := reg.Restore(snaps)

	accounts := identity.New(cfg.VerifiedUsers...)
	svc := auction.NewAuctionService(reg, events, accounts)
	router := server.SetupRouter(svc)

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts end with the process so open streams let go on shutdown
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{
			"addr":             srv.Addr,
			"restored":         restored,
			"verified_users":   len(cfg.VerifiedUsers),
			"mysql":            cfg.MySQLDSN != "",
			"roster_feed":      roster != nil,
			"bid_window":       cfg.BidWindow.String(),
			"tick_interval":    cfg.TickInterval.String(),
			"max_code_retries": cfg.CodeAttempts,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("main: serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		reg.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("main: shutdown: %w", err)
		}
		utils.Info("auction server stopped", nil)
		return nil
	})

	g.Go(func() error { return writer.Run(gctx) })

	if roster != nil {
		g.Go(func() error { return roster.Run(gctx) })
	}

	return g.Wait()
}

// openStore picks MySQL when a DSN is configured, memory otherwise
func openStore(ctx context.Context, cfg config.Config) (repository.SnapshotStore, func(), error) {
	if cfg.MySQLDSN == "" {
		utils.Warn("no mysql_dsn configured, auction snapshots are kept in memory", nil)
		return repository.NewMemoryRepo(), func() {}, nil
	}

	store, err := repository.OpenMySQL(ctx, cfg.MySQLDSN)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			utils.Warn("failed to close mysql store", map[string]any{"error": err.Error()})
		}
	}, nil
}
