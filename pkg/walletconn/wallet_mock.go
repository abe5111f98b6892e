package walletconn

import (
	"context"
	"slices"
	"sync"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/wallet"
)

// MockWallet is an in-memory Wallet for tests. Created actions are recorded
// and become visible to ListActions, which filters by label like a real wallet
// in "any" label query mode.
type MockWallet struct {
	mu sync.Mutex

	Authenticated bool
	AuthErr       error
	CreateErr     error
	ListErr       error
	// ZeroTxid makes CreateAction return an all-zero txid.
	ZeroTxid bool

	Actions     []wallet.Action
	CreateCalls []wallet.CreateActionArgs
	ListCalls   []wallet.ListActionsArgs
	Originators []string
}

// NewMockWallet creates an authenticated MockWallet holding actions.
func NewMockWallet(actions ...wallet.Action) *MockWallet {
	return &MockWallet{Authenticated: true, Actions: actions}
}

// IsAuthenticated reports the configured authentication state.
func (m *MockWallet) IsAuthenticated(_ context.Context, _ any, originator string) (*wallet.AuthenticatedResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Originators = append(m.Originators, originator)
	if m.AuthErr != nil {
		return nil, m.AuthErr
	}
	return &wallet.AuthenticatedResult{Authenticated: m.Authenticated}, nil
}

// CreateAction records args and stores a matching completed action.
func (m *MockWallet) CreateAction(_ context.Context, args wallet.CreateActionArgs, originator string) (*wallet.CreateActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Originators = append(m.Originators, originator)
	m.CreateCalls = append(m.CreateCalls, args)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	var satoshis uint64
	for _, out := range args.Outputs {
		satoshis += out.Satoshis
	}
	txid := chainhash.DoubleHashH([]byte(args.Description))
	m.Actions = append(m.Actions, wallet.Action{
		Txid:        txid,
		Satoshis:    int64(satoshis), //nolint:gosec // test outputs are a few satoshis
		Status:      wallet.ActionStatus("completed"),
		IsOutgoing:  true,
		Description: args.Description,
		Labels:      slices.Clone(args.Labels),
	})

	if m.ZeroTxid {
		return &wallet.CreateActionResult{}, nil
	}
	return &wallet.CreateActionResult{Txid: txid}, nil
}

// ListActions returns the stored actions carrying any of the requested labels.
func (m *MockWallet) ListActions(_ context.Context, args wallet.ListActionsArgs, originator string) (*wallet.ListActionsResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Originators = append(m.Originators, originator)
	m.ListCalls = append(m.ListCalls, args)
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var actions []wallet.Action
	for _, action := range m.Actions {
		if len(args.Labels) == 0 || slices.ContainsFunc(args.Labels, func(label string) bool {
			return slices.Contains(action.Labels, label)
		}) {
			actions = append(actions, action)
		}
	}
	return &wallet.ListActionsResult{
		TotalActions: uint32(len(actions)), //nolint:gosec // test data is small
		Actions:      actions,
	}, nil
}

// CreateCallCount returns the number of CreateAction calls.
func (m *MockWallet) CreateCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CreateCalls)
}

// ListCallCount returns the number of ListActions calls.
func (m *MockWallet) ListCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ListCalls)
}
