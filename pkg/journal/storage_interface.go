package journal

import (
	"context"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
)

// Storage defines the interface for submission journal operations
type Storage interface {
	// EnsureIndexes ensures the necessary indexes are created for the collection
	EnsureIndexes(ctx context.Context) error

	// StoreSubmission records a submission the wallet accepted
	StoreSubmission(ctx context.Context, entry *types.JournalEntry) error

	// FindRecent returns up to limit entries, newest first
	FindRecent(ctx context.Context, limit int) ([]*types.JournalEntry, error)
}
