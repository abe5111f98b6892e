package walletconn

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bsv-blockchain/go-sdk/wallet"
	"github.com/bsv-blockchain/go-sdk/wallet/substrates"
)

// DefaultSubstrateURL is where a locally running wallet serves its JSON API.
const DefaultSubstrateURL = "http://localhost:3321"

// substrateWallet adapts the HTTP JSON substrate to Wallet. The substrate
// binds its originator at construction, so the per-call originator is ignored.
type substrateWallet struct {
	client *substrates.HTTPWalletJSON
}

// Compile-time verification that substrateWallet implements Wallet
var _ Wallet = (*substrateWallet)(nil)

// NewSubstrateWallet creates a JSON-over-HTTP client for a wallet running next
// to the user, such as a desktop Metanet client.
func NewSubstrateWallet(baseURL, originator string, timeout time.Duration) Wallet {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultSubstrateURL
	}
	if originator == "" {
		originator = DefaultOriginator
	}
	client := &http.Client{Timeout: timeout}
	return &substrateWallet{client: substrates.NewHTTPWalletJSON(originator, baseURL, client)}
}

func (w *substrateWallet) IsAuthenticated(ctx context.Context, args any, _ string) (*wallet.AuthenticatedResult, error) {
	return w.client.IsAuthenticated(ctx, args)
}

func (w *substrateWallet) CreateAction(ctx context.Context, args wallet.CreateActionArgs, _ string) (*wallet.CreateActionResult, error) {
	return w.client.CreateAction(ctx, args)
}

func (w *substrateWallet) ListActions(ctx context.Context, args wallet.ListActionsArgs, _ string) (*wallet.ListActionsResult, error) {
	return w.client.ListActions(ctx, args)
}
