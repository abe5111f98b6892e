// Package messaging implements the page loads and form actions of the message
// board. Messages are posted as wallet actions carrying the text in an
// OP_FALSE OP_RETURN output and are read back by listing actions by label.
// Signing, broadcasting and indexing belong to the wallet.
package messaging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/journal"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/metrics"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/recipients"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/walletconn"
)

const (
	// MessageLabel tags every message action in the wallet
	MessageLabel = "fom_tree messages"
	// RecipientLabel additionally tags messages addressed to a recipient
	RecipientLabel = "did-messaging"
	// MessageBasket is the wallet basket receiving message outputs
	MessageBasket = "blockchain messages"
	// MessageSatoshis is the value of the data-carrier output
	MessageSatoshis = 1
	// UnknownTxid is reported when the wallet returns no transaction id
	UnknownTxid = "Unknown"
)

// Static error variables for err113 compliance
var (
	ErrMessageRequired   = errors.New("message is required")
	ErrMessageTooLong    = errors.New("message is too long")
	ErrRecipientRequired = errors.New("recipient is required")
	ErrSubmitFailed      = errors.New("failed to submit message to blockchain")
	ErrEmptyPayload      = errors.New("payload cannot be empty")
	errNilConnector      = errors.New("wallet connector is required")
)

// User-visible failure texts
const (
	textMessageRequired    = "Message is required"
	textMessageTooLong     = "Message is too long"
	textRecipientRequired  = "Recipient is required"
	textRecipientNotFound  = "Recipient not found"
	textWalletNotConnected = "Wallet not connected"
	textSubmitFailed       = "Failed to submit message to blockchain"
)

// Connector hands out authenticated wallet sessions.
type Connector interface {
	Connect(ctx context.Context) (*walletconn.Session, error)
}

// Compile-time verification that walletconn.Connector implements Connector
var _ Connector = (*walletconn.Connector)(nil)

// Service serves the message board pages and form actions.
type Service struct {
	connector Connector
	journal   journal.Storage
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records successful submissions in storage.
func WithJournal(storage journal.Storage) Option {
	return func(s *Service) {
		s.journal = storage
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service using connector to reach the wallet.
func New(connector Connector, opts ...Option) (*Service, error) {
	if connector == nil {
		return nil, errNilConnector
	}
	s := &Service{
		connector: connector,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// failure builds a failed FormResult for err.
func failure(err error) types.FormResult {
	return types.FormResult{
		Success: false,
		Error:   failureText(err),
		Err:     err,
	}
}

// failureText maps a classified error to the text shown to the user.
func failureText(err error) string {
	switch {
	case errors.Is(err, ErrMessageRequired):
		return textMessageRequired
	case errors.Is(err, ErrMessageTooLong):
		return textMessageTooLong
	case errors.Is(err, ErrRecipientRequired):
		return textRecipientRequired
	case errors.Is(err, recipients.ErrRecipientNotFound):
		return textRecipientNotFound
	case errors.Is(err, walletconn.ErrWalletNotConnected):
		return textWalletNotConnected
	default:
		return textSubmitFailed
	}
}

// outcome labels a submission result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, recipients.ErrRecipientNotFound):
		return "not_found"
	case errors.Is(err, walletconn.ErrWalletNotConnected):
		return "not_connected"
	case errors.Is(err, ErrSubmitFailed):
		return "failed"
	default:
		return "invalid"
	}
}

// record counts a submission result and returns it unchanged.
func record(kind string, result types.FormResult) types.FormResult {
	metrics.MessagesSubmitted.WithLabelValues(kind, outcome(result.Err)).Inc()
	return result
}

func stringPtr(s string) *string {
	return &s
}
