package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bsv-blockchain/go-sdk/wallet"
	"golang.org/x/sync/errgroup"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/metrics"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/recipients"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/utils"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/walletconn"
)

// LoadRecipients returns every recipient with the messages addressed to it.
// Recipients are listed concurrently; the first listing error is returned.
func (s *Service) LoadRecipients(ctx context.Context) (types.RecipientsPage, error) {
	session, err := s.connector.Connect(ctx)
	if err != nil {
		if errors.Is(err, walletconn.ErrWalletNotConnected) {
			return types.RecipientsPage{
				Connected:  false,
				Error:      stringPtr(textWalletNotConnected),
				Recipients: []types.RecipientView{},
			}, nil
		}
		return types.RecipientsPage{}, err
	}

	directory := recipients.All()
	views := make([]types.RecipientView, len(directory))

	g, gctx := errgroup.WithContext(ctx)
	for i, recipient := range directory {
		g.Go(func() error {
			result, err := session.ListActions(gctx, wallet.ListActionsArgs{
				Labels: []string{MessageLabel, RecipientLabel},
			})
			if err != nil {
				return fmt.Errorf("failed to list messages for %s: %w", recipient.DID, err)
			}

			var actions []wallet.Action
			if result != nil {
				actions = result.Actions
			}
			messages := toMessageViews(FilterByRecipient(actions, recipient.DID))
			views[i] = types.RecipientView{
				Recipient:    recipient,
				Messages:     messages,
				MessageCount: len(messages),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.RecipientsPage{}, err
	}

	return types.RecipientsPage{
		Connected:  true,
		Recipients: views,
	}, nil
}

// SubmitToRecipient posts message addressed to the recipient identified by
// recipientDID. The payload is the JSON encoded submission record.
func (s *Service) SubmitToRecipient(ctx context.Context, message, recipientDID string) types.FormResult {
	message = utils.NormalizeMessage(message)
	if err := checkMessage(message); err != nil {
		return record(metrics.KindRecipient, failure(err))
	}

	recipient, err := resolve(recipientDID)
	if err != nil {
		return record(metrics.KindRecipient, failure(err))
	}

	session, err := s.connector.Connect(ctx)
	if err != nil {
		return record(metrics.KindRecipient, failure(err))
	}

	payload, err := json.Marshal(types.Submission{
		Message:      message,
		RecipientDID: recipient.DID,
		Timestamp:    s.now().UTC(),
	})
	if err != nil {
		return record(metrics.KindRecipient, failure(fmt.Errorf("%w: %w", ErrSubmitFailed, err)))
	}

	txid, err := s.post(ctx, session, postArgs{
		description: fmt.Sprintf("%s (to %s)", message, recipient.DID),
		labels:      []string{MessageLabel, RecipientLabel},
		payload:     payload,
		outputDesc:  message,
	})
	if err != nil {
		s.logger.Error("Error submitting message to recipient",
			slog.String("recipient", recipient.DID),
			"error", err)
		return record(metrics.KindRecipient, failure(err))
	}

	s.logger.Info("Message submitted to recipient",
		slog.String("recipient", recipient.DID),
		slog.String("txid", txid))
	s.remember(ctx, &types.JournalEntry{Txid: txid, Message: message, RecipientDID: recipient.DID})

	return record(metrics.KindRecipient, types.FormResult{
		Success:   true,
		Message:   message,
		Recipient: recipient.Name,
		Txid:      txid,
	})
}

// resolve looks up a recipient DID. Any identifier missing from the
// directory is a lookup failure.
func resolve(did string) (types.Recipient, error) {
	did = strings.TrimSpace(did)
	if did == "" {
		return types.Recipient{}, ErrRecipientRequired
	}
	return recipients.Lookup(did)
}
