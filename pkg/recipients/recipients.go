// Package recipients holds the fixed directory of addressable recipients.
// The directory is static: addresses and identifiers are predefined so the
// server never generates keys on behalf of a recipient.
package recipients

import (
	"errors"
	"fmt"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
)

// ErrRecipientNotFound is returned when a DID is not in the directory.
var ErrRecipientNotFound = errors.New("recipient not found")

//nolint:gochecknoglobals // fixed directory
var directory = []types.Recipient{
	{
		DID:     "did:bsv:alice",
		Name:    "Alice",
		Address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
	},
	{
		DID:     "did:bsv:bob",
		Name:    "Bob",
		Address: "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
	},
	{
		DID:     "did:bsv:charlie",
		Name:    "Charlie",
		Address: "1Hare1UGoJ8m4f5t3U37VWrmXfFRVN8v6",
	},
}

// All returns a copy of the directory in its fixed order.
func All() []types.Recipient {
	out := make([]types.Recipient, len(directory))
	copy(out, directory)
	return out
}

// Lookup returns the recipient registered under did.
func Lookup(did string) (types.Recipient, error) {
	for _, r := range directory {
		if r.DID == did {
			return r, nil
		}
	}
	return types.Recipient{}, fmt.Errorf("%w: %s", ErrRecipientNotFound, did)
}
