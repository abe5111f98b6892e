package journal

import (
	"context"
	"slices"
	"sync"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
)

// MockStorage is an in-memory Storage for tests.
type MockStorage struct {
	mu      sync.Mutex
	entries []*types.JournalEntry

	// StoreErr and FindErr are returned by the matching calls when set
	StoreErr error
	FindErr  error
}

// Compile-time verification that MockStorage implements Storage
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates an empty MockStorage.
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// EnsureIndexes mock implementation
func (m *MockStorage) EnsureIndexes(_ context.Context) error {
	return nil
}

// StoreSubmission mock implementation
func (m *MockStorage) StoreSubmission(_ context.Context, entry *types.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	if err := prepareEntry(entry); err != nil {
		return err
	}
	m.entries = append(m.entries, entry)
	return nil
}

// FindRecent mock implementation
func (m *MockStorage) FindRecent(_ context.Context, limit int) ([]*types.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}

	out := slices.Clone(m.entries)
	slices.Reverse(out)
	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Entries returns the stored entries in insertion order.
func (m *MockStorage) Entries() []*types.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}
