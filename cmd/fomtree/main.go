// Package main runs the fom_tree message board server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/config"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/journal"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/messaging"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/server"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/walletconn"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	w, err := newWallet(ctx, cfg, logger)
	if err != nil {
		return err
	}
	connector, err := walletconn.NewConnector(w, cfg.WalletOriginator, logger)
	if err != nil {
		return err
	}

	serviceOpts := []messaging.Option{messaging.WithLogger(logger)}
	serverOpts := server.Options{
		Addr:            cfg.HTTPAddr,
		RequestTimeout:  cfg.RequestTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	}

	if cfg.JournalEnabled() {
		client, storage, err := journal.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warn("Failed to disconnect from MongoDB", "error", err)
			}
		}()

		if err := storage.EnsureIndexes(ctx); err != nil {
			return err
		}
		logger.Info("Submission journal enabled", slog.String("database", cfg.MongoDatabase))
		serviceOpts = append(serviceOpts, messaging.WithJournal(storage))
		serverOpts.Journal = storage
	}

	svc, err := messaging.New(connector, serviceOpts...)
	if err != nil {
		return err
	}
	srv, err := server.New(svc, serverOpts)
	if err != nil {
		return err
	}

	logger.Info("Starting fom_tree message board",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("env", cfg.Env),
		slog.String("walletMode", cfg.WalletMode))
	return srv.ListenAndServe(ctx)
}

// newLogger returns a text logger in development and a JSON logger otherwise.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func newWallet(ctx context.Context, cfg *config.Config, logger *slog.Logger) (walletconn.Wallet, error) {
	switch cfg.WalletMode {
	case config.WalletModeToolbox:
		w, err := walletconn.NewToolboxWallet(ctx, cfg.WalletNetwork, cfg.WalletPrivateKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create toolbox wallet: %w", err)
		}
		return w, nil
	default:
		logger.Info("Using wallet substrate", slog.String("url", cfg.WalletURL))
		return walletconn.NewSubstrateWallet(cfg.WalletURL, cfg.WalletOriginator, cfg.RequestTimeout), nil
	}
}
