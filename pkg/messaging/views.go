package messaging

import (
	"slices"
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/wallet"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
)

// toMessageViews shapes listed wallet actions for rendering. The result is
// never nil so JSON clients always receive an array.
func toMessageViews(actions []wallet.Action) []types.MessageView {
	views := make([]types.MessageView, 0, len(actions))
	for _, action := range actions {
		views = append(views, types.MessageView{
			Txid:        txidString(action.Txid),
			Description: action.Description,
			Status:      string(action.Status),
			Satoshis:    action.Satoshis,
			IsOutgoing:  action.IsOutgoing,
			Labels:      slices.Clone(action.Labels),
		})
	}
	return views
}

// FilterByRecipient keeps the actions whose description mentions did.
func FilterByRecipient(actions []wallet.Action, did string) []wallet.Action {
	filtered := make([]wallet.Action, 0, len(actions))
	for _, action := range actions {
		if strings.Contains(action.Description, did) {
			filtered = append(filtered, action)
		}
	}
	return filtered
}

func txidString(txid chainhash.Hash) string {
	if txid == (chainhash.Hash{}) {
		return UnknownTxid
	}
	return txid.String()
}
