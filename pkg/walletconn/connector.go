// Package walletconn connects the message board to a BRC-100 wallet.
// It builds the wallet client (a local wallet substrate or a server-side
// toolbox wallet) and gates every use of it on the wallet being authenticated.
package walletconn

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bsv-blockchain/go-sdk/wallet"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/metrics"
)

// DefaultOriginator is the originator reported to the wallet when none is configured.
const DefaultOriginator = "localhost:3000"

// Static error variables for err113 compliance
var (
	ErrWalletNotConnected = errors.New("wallet not connected")
	errNilWallet          = errors.New("wallet is required")
)

// Wallet is the part of the BRC-100 wallet interface the message board uses.
// Any go-sdk wallet.Interface implementation satisfies it.
type Wallet interface {
	IsAuthenticated(ctx context.Context, args any, originator string) (*wallet.AuthenticatedResult, error)
	CreateAction(ctx context.Context, args wallet.CreateActionArgs, originator string) (*wallet.CreateActionResult, error)
	ListActions(ctx context.Context, args wallet.ListActionsArgs, originator string) (*wallet.ListActionsResult, error)
}

// Compile-time verification that the go-sdk wallet interface satisfies Wallet
var _ Wallet = (wallet.Interface)(nil)

// Connector hands out authenticated wallet sessions.
type Connector struct {
	wallet     Wallet
	originator string
	logger     *slog.Logger
}

// NewConnector creates a Connector for w. An empty originator falls back to
// DefaultOriginator and a nil logger to slog.Default().
func NewConnector(w Wallet, originator string, logger *slog.Logger) (*Connector, error) {
	if w == nil {
		return nil, errNilWallet
	}
	if originator == "" {
		originator = DefaultOriginator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{
		wallet:     w,
		originator: originator,
		logger:     logger,
	}, nil
}

// Originator returns the originator passed on every wallet call.
func (c *Connector) Originator() string {
	return c.originator
}

// Connect checks that the wallet is authenticated and returns a session bound
// to the configured originator. A failing authentication check is reported as
// ErrWalletNotConnected.
func (c *Connector) Connect(ctx context.Context) (*Session, error) {
	start := time.Now()
	result, err := c.wallet.IsAuthenticated(ctx, nil, c.originator)
	metrics.WalletCallDuration.WithLabelValues("isAuthenticated").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WalletChecks.WithLabelValues("error").Inc()
		c.logger.Warn("Wallet authentication check failed", slog.String("originator", c.originator), "error", err)
		return nil, ErrWalletNotConnected
	}
	if result == nil || !result.Authenticated {
		metrics.WalletChecks.WithLabelValues("unauthenticated").Inc()
		return nil, ErrWalletNotConnected
	}

	metrics.WalletChecks.WithLabelValues("authenticated").Inc()
	return &Session{wallet: c.wallet, originator: c.originator}, nil
}

// Session is an authenticated wallet bound to an originator.
type Session struct {
	wallet     Wallet
	originator string
}

// CreateAction asks the wallet to build, sign and broadcast an action.
func (s *Session) CreateAction(ctx context.Context, args wallet.CreateActionArgs) (*wallet.CreateActionResult, error) {
	start := time.Now()
	defer func() {
		metrics.WalletCallDuration.WithLabelValues("createAction").Observe(time.Since(start).Seconds())
	}()
	return s.wallet.CreateAction(ctx, args, s.originator)
}

// ListActions lists the wallet's actions matching args.
func (s *Session) ListActions(ctx context.Context, args wallet.ListActionsArgs) (*wallet.ListActionsResult, error) {
	start := time.Now()
	defer func() {
		metrics.WalletCallDuration.WithLabelValues("listActions").Observe(time.Since(start).Seconds())
	}()
	return s.wallet.ListActions(ctx, args, s.originator)
}
