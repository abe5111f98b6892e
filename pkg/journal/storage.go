// Package journal implements the submission journal: a MongoDB-backed record of
// every message this server posted successfully through the wallet. The wallet
// remains the source of truth; the journal exists for operators.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
)

const (
	// CollectionName is the collection holding journal entries
	CollectionName = "submissions"
	// DefaultLimit is used when FindRecent is given a non-positive limit
	DefaultLimit = 50
	// MaxLimit caps FindRecent
	MaxLimit = 500
)

// Static error variables for err113 compliance
var (
	errEntryRequired = errors.New("journal entry is required")
	errTxidRequired  = errors.New("journal entry txid is required")
)

// MongoStorage implements Storage on a MongoDB collection.
type MongoStorage struct {
	db          *mongo.Database
	submissions *mongo.Collection
}

// Compile-time verification that MongoStorage implements Storage
var _ Storage = (*MongoStorage)(nil)

// NewMongoStorage creates a MongoStorage using the "submissions" collection of db.
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{
		db:          db,
		submissions: db.Collection(CollectionName),
	}
}

// Connect dials MongoDB at uri and returns the client and a storage on database.
// The caller owns the client and must disconnect it.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *MongoStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, NewMongoStorage(client.Database(database)), nil
}

// EnsureIndexes creates a unique index on txid and a descending index on createdAt.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	txidIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "txid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	createdAtIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}

	if _, err := s.submissions.Indexes().CreateMany(ctx, []mongo.IndexModel{txidIndex, createdAtIndex}); err != nil {
		return fmt.Errorf("failed to create indexes for submissions: %w", err)
	}
	return nil
}

// StoreSubmission inserts entry, assigning an ID and creation time when unset.
func (s *MongoStorage) StoreSubmission(ctx context.Context, entry *types.JournalEntry) error {
	if err := prepareEntry(entry); err != nil {
		return err
	}

	if _, err := s.submissions.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

// FindRecent returns up to limit entries sorted by createdAt descending.
func (s *MongoStorage) FindRecent(ctx context.Context, limit int) ([]*types.JournalEntry, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))

	cursor, err := s.submissions.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	entries := make([]*types.JournalEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	return entries, nil
}

// prepareEntry validates entry and fills in its ID and timestamp.
func prepareEntry(entry *types.JournalEntry) error {
	if entry == nil {
		return errEntryRequired
	}
	if entry.Txid == "" {
		return errTxidRequired
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return nil
}

// clampLimit applies DefaultLimit and MaxLimit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
