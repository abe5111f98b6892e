package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bsv-blockchain/go-sdk/wallet"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/metrics"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/utils"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/walletconn"
)

// LoadMessages returns the message board page. A wallet that is not
// authenticated yields a disconnected page rather than an error; a failure to
// list actions is returned as an error.
func (s *Service) LoadMessages(ctx context.Context) (types.HomePage, error) {
	session, err := s.connector.Connect(ctx)
	if err != nil {
		if errors.Is(err, walletconn.ErrWalletNotConnected) {
			return types.HomePage{
				Connected: false,
				Error:     stringPtr(textWalletNotConnected),
				Messages:  []types.MessageView{},
			}, nil
		}
		return types.HomePage{}, err
	}

	result, err := session.ListActions(ctx, wallet.ListActionsArgs{
		Labels: []string{MessageLabel},
	})
	if err != nil {
		return types.HomePage{}, fmt.Errorf("failed to list messages: %w", err)
	}

	var actions []wallet.Action
	if result != nil {
		actions = result.Actions
	}
	s.logger.Debug("Loaded messages", slog.Int("count", len(actions)))

	return types.HomePage{
		Connected: true,
		Messages:  toMessageViews(actions),
	}, nil
}

// SubmitMessage posts message to the board.
func (s *Service) SubmitMessage(ctx context.Context, message string) types.FormResult {
	message = utils.NormalizeMessage(message)
	if err := checkMessage(message); err != nil {
		return record(metrics.KindBroadcast, failure(err))
	}

	session, err := s.connector.Connect(ctx)
	if err != nil {
		return record(metrics.KindBroadcast, failure(err))
	}

	txid, err := s.post(ctx, session, postArgs{
		description: message,
		labels:      []string{MessageLabel},
		payload:     []byte(message),
		outputDesc:  message,
	})
	if err != nil {
		s.logger.Error("Error submitting message", "error", err)
		return record(metrics.KindBroadcast, failure(err))
	}

	s.logger.Info("Message submitted", slog.String("txid", txid))
	s.remember(ctx, &types.JournalEntry{Txid: txid, Message: message})

	return record(metrics.KindBroadcast, types.FormResult{
		Success: true,
		Message: message,
		Txid:    txid,
	})
}

// checkMessage validates a normalized message.
func checkMessage(message string) error {
	if message == "" {
		return ErrMessageRequired
	}
	if !utils.IsValidMessage(message) {
		return ErrMessageTooLong
	}
	return nil
}

// postArgs is the variable part of a message action.
type postArgs struct {
	description string
	labels      []string
	payload     []byte
	outputDesc  string
}

// post creates the action for p and returns its txid. Every failure is
// reported wrapped in ErrSubmitFailed.
func (s *Service) post(ctx context.Context, session *walletconn.Session, p postArgs) (string, error) {
	lockingScript, err := BuildLockingScript(p.payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	result, err := session.CreateAction(ctx, wallet.CreateActionArgs{
		Description: p.description,
		Labels:      p.labels,
		Outputs: []wallet.CreateActionOutput{
			{
				LockingScript:     lockingScript.Bytes(),
				Satoshis:          MessageSatoshis,
				OutputDescription: p.outputDesc,
				Basket:            MessageBasket,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	if result == nil {
		return UnknownTxid, nil
	}
	return txidString(result.Txid), nil
}

// remember journals a successful submission. Failures are logged only.
func (s *Service) remember(ctx context.Context, entry *types.JournalEntry) {
	if s.journal == nil {
		return
	}
	if entry.Txid == UnknownTxid {
		s.logger.Warn("Not journaling submission without txid")
		return
	}
	entry.CreatedAt = s.now().UTC()
	if err := s.journal.StoreSubmission(ctx, entry); err != nil {
		s.logger.Warn("Failed to journal submission", slog.String("txid", entry.Txid), "error", err)
	}
}
