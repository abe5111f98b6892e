package walletconn

import (
	"errors"
	"testing"

	"github.com/bsv-blockchain/go-sdk/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errWalletDown = errors.New("wallet unreachable")

func TestNewConnector(t *testing.T) {
	t.Run("nil wallet", func(t *testing.T) {
		c, err := NewConnector(nil, "", nil)
		require.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("default originator", func(t *testing.T) {
		c, err := NewConnector(NewMockWallet(), "", nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultOriginator, c.Originator())
	})

	t.Run("custom originator", func(t *testing.T) {
		c, err := NewConnector(NewMockWallet(), "fom_tree-test", nil)
		require.NoError(t, err)
		assert.Equal(t, "fom_tree-test", c.Originator())
	})
}

func TestConnectorConnect(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		authErr       error
		expectError   bool
	}{
		{"authenticated", true, nil, false},
		{"not authenticated", false, nil, true},
		{"auth check error", true, errWalletDown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockWallet()
			mock.Authenticated = tt.authenticated
			mock.AuthErr = tt.authErr

			c, err := NewConnector(mock, "fom_tree-test", nil)
			require.NoError(t, err)

			session, err := c.Connect(t.Context())
			if tt.expectError {
				require.ErrorIs(t, err, ErrWalletNotConnected)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, session)
		})
	}
}

func TestSessionPassesOriginator(t *testing.T) {
	mock := NewMockWallet()
	c, err := NewConnector(mock, "fom_tree-test", nil)
	require.NoError(t, err)

	session, err := c.Connect(t.Context())
	require.NoError(t, err)

	_, err = session.CreateAction(t.Context(), wallet.CreateActionArgs{
		Description: "hello world",
		Labels:      []string{"fom_tree messages"},
	})
	require.NoError(t, err)

	res, err := session.ListActions(t.Context(), wallet.ListActionsArgs{Labels: []string{"fom_tree messages"}})
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, "hello world", res.Actions[0].Description)

	for _, originator := range mock.Originators {
		assert.Equal(t, "fom_tree-test", originator)
	}
}

func TestMockWalletLabelFilter(t *testing.T) {
	mock := NewMockWallet(
		wallet.Action{Description: "a", Labels: []string{"fom_tree messages"}},
		wallet.Action{Description: "b", Labels: []string{"did-messaging"}},
		wallet.Action{Description: "c", Labels: []string{"other"}},
	)

	res, err := mock.ListActions(t.Context(), wallet.ListActionsArgs{
		Labels: []string{"fom_tree messages", "did-messaging"},
	}, "")
	require.NoError(t, err)
	require.Len(t, res.Actions, 2)
	assert.Equal(t, "a", res.Actions[0].Description)
	assert.Equal(t, "b", res.Actions[1].Description)
}

func TestMockWalletRecordsOutputValue(t *testing.T) {
	mock := NewMockWallet()

	_, err := mock.CreateAction(t.Context(), wallet.CreateActionArgs{
		Description: "two outputs",
		Labels:      []string{"fom_tree messages"},
		Outputs: []wallet.CreateActionOutput{
			{Satoshis: 1},
			{Satoshis: 2},
		},
	}, "")
	require.NoError(t, err)

	res, err := mock.ListActions(t.Context(), wallet.ListActionsArgs{Labels: []string{"fom_tree messages"}}, "")
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, int64(3), res.Actions[0].Satoshis)
}
