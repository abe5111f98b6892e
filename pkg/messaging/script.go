package messaging

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

// BuildLockingScript returns OP_FALSE OP_RETURN <payload>, a provably
// unspendable output carrying payload as a single push.
func BuildLockingScript(payload []byte) (*script.Script, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	s := &script.Script{}
	if err := s.AppendOpcodes(script.OpFALSE, script.OpRETURN); err != nil {
		return nil, fmt.Errorf("failed to append OP_FALSE OP_RETURN: %w", err)
	}
	if err := s.AppendPushData(payload); err != nil {
		return nil, fmt.Errorf("failed to append payload: %w", err)
	}
	return s, nil
}
