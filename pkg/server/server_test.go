package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/journal"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/messaging"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/walletconn"
)

var errWallet = errors.New("wallet exploded")

type testEnv struct {
	wallet  *walletconn.MockWallet
	journal *journal.MockStorage
	handler http.Handler
}

func newTestEnv(t *testing.T, withJournal bool, actions ...wallet.Action) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := walletconn.NewMockWallet(actions...)

	connector, err := walletconn.NewConnector(mock, "fom_tree-test", logger)
	require.NoError(t, err)

	env := &testEnv{wallet: mock}
	serviceOpts := []messaging.Option{messaging.WithLogger(logger)}
	opts := Options{Logger: logger}
	if withJournal {
		env.journal = journal.NewMockStorage()
		serviceOpts = append(serviceOpts, messaging.WithJournal(env.journal))
		opts.Journal = env.journal
	}

	svc, err := messaging.New(connector, serviceOpts...)
	require.NoError(t, err)
	srv, err := New(svc, opts)
	require.NoError(t, err)
	env.handler = srv.Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values, jsonResponse bool) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if jsonResponse {
		req.Header.Set("Accept", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func messageAction(description string, labels ...string) wallet.Action {
	return wallet.Action{
		Txid:        chainhash.DoubleHashH([]byte(description)),
		Satoshis:    1,
		Status:      wallet.ActionStatus("completed"),
		IsOutgoing:  true,
		Description: description,
		Labels:      labels,
	}
}

func TestNew(t *testing.T) {
	srv, err := New(nil, Options{})
	require.Error(t, err)
	assert.Nil(t, srv)
}

func TestHomeJSON(t *testing.T) {
	env := newTestEnv(t, false, messageAction("gm", messaging.MessageLabel))

	rec := env.do(t, http.MethodGet, "/", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page types.HomePage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.True(t, page.Connected)
	assert.Nil(t, page.Error)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "gm", page.Messages[0].Description)
}

func TestHomeFormatQuery(t *testing.T) {
	env := newTestEnv(t, false)
	env.wallet.Authenticated = false

	rec := env.do(t, http.MethodGet, "/?format=json", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"connected":false,"error":"Wallet not connected","messages":[]}`, rec.Body.String())
}

func TestHomeHTML(t *testing.T) {
	env := newTestEnv(t, false, messageAction("hello from the chain", messaging.MessageLabel))

	rec := env.do(t, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "hello from the chain")
	assert.Contains(t, rec.Body.String(), `action="/"`)
	assert.NotEmpty(t, rec.Header().Get("X-Content-Type-Options"))
}

func TestHomeHTMLNotConnected(t *testing.T) {
	env := newTestEnv(t, false)
	env.wallet.Authenticated = false

	rec := env.do(t, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wallet not connected")
	assert.NotContains(t, rec.Body.String(), "<form")
}

func TestHomeLoadError(t *testing.T) {
	env := newTestEnv(t, false)
	env.wallet.ListErr = errWallet

	rec := env.do(t, http.MethodGet, "/", nil, true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load messages"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSubmitMessageStatus(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		setup      func(*walletconn.MockWallet)
		wantStatus int
		wantError  string
	}{
		{"success", "hello", nil, http.StatusOK, ""},
		{"empty", "  ", nil, http.StatusBadRequest, "Message is required"},
		{"not connected", "hello", func(m *walletconn.MockWallet) { m.Authenticated = false }, http.StatusServiceUnavailable, "Wallet not connected"},
		{"wallet failure", "hello", func(m *walletconn.MockWallet) { m.CreateErr = errWallet }, http.StatusBadGateway, "Failed to submit message to blockchain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, false)
			if tt.setup != nil {
				tt.setup(env.wallet)
			}

			rec := env.do(t, http.MethodPost, "/", url.Values{"message": {tt.message}}, true)
			require.Equal(t, tt.wantStatus, rec.Code)

			var result types.FormResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Equal(t, tt.wantError == "", result.Success)
			assert.Equal(t, tt.wantError, result.Error)
			if result.Success {
				assert.Equal(t, "hello", result.Message)
				assert.NotEmpty(t, result.Txid)
			}
		})
	}
}

func TestSubmitMessageHTML(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/", url.Values{"message": {"posted via form"}}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Message submitted")
	assert.Contains(t, body, chainhash.DoubleHashH([]byte("posted via form")).String())
	// The new message is listed on the re-rendered page
	assert.Contains(t, body, "posted via form")
}

func TestSubmitToRecipientStatus(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		setup      func(*walletconn.MockWallet)
		wantStatus int
		wantError  string
	}{
		{"success", url.Values{"message": {"hi"}, "recipient": {"did:bsv:alice"}}, nil, http.StatusOK, ""},
		{"missing message", url.Values{"recipient": {"did:bsv:alice"}}, nil, http.StatusBadRequest, "Message is required"},
		{"missing recipient", url.Values{"message": {"hi"}}, nil, http.StatusBadRequest, "Recipient is required"},
		{"unknown recipient", url.Values{"message": {"hi"}, "recipient": {"did:bsv:nobody"}}, nil, http.StatusNotFound, "Recipient not found"},
		{"identifier outside directory", url.Values{"message": {"hi"}, "recipient": {"alice"}}, nil, http.StatusNotFound, "Recipient not found"},
		{
			"not connected", url.Values{"message": {"hi"}, "recipient": {"did:bsv:bob"}},
			func(m *walletconn.MockWallet) { m.Authenticated = false }, http.StatusServiceUnavailable, "Wallet not connected",
		},
		{
			"wallet failure", url.Values{"message": {"hi"}, "recipient": {"did:bsv:bob"}},
			func(m *walletconn.MockWallet) { m.CreateErr = errWallet }, http.StatusBadGateway, "Failed to submit message to blockchain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, false)
			if tt.setup != nil {
				tt.setup(env.wallet)
			}

			rec := env.do(t, http.MethodPost, "/recipients", tt.form, true)
			require.Equal(t, tt.wantStatus, rec.Code)

			var result types.FormResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Equal(t, tt.wantError, result.Error)
			if tt.wantError == "" {
				assert.True(t, result.Success)
				assert.Equal(t, "hi", result.Message)
				assert.Equal(t, "Alice", result.Recipient)
				assert.NotEmpty(t, result.Txid)
			}
		})
	}
}

func TestRecipientsPage(t *testing.T) {
	env := newTestEnv(t, false,
		messageAction("hello (to did:bsv:charlie)", messaging.MessageLabel, messaging.RecipientLabel),
	)

	rec := env.do(t, http.MethodGet, "/recipients", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var page types.RecipientsPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.True(t, page.Connected)
	require.Len(t, page.Recipients, 3)
	assert.Equal(t, "Charlie", page.Recipients[2].Name)
	assert.Equal(t, 1, page.Recipients[2].MessageCount)

	rec = env.do(t, http.MethodGet, "/recipients", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "did:bsv:alice")
	assert.Contains(t, body, "hello (to did:bsv:charlie)")
}

func TestRecipientsLoadError(t *testing.T) {
	env := newTestEnv(t, false)
	env.wallet.ListErr = errWallet

	rec := env.do(t, http.MethodGet, "/recipients", nil, true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSubmissions(t *testing.T) {
	t.Run("journal disabled", func(t *testing.T) {
		env := newTestEnv(t, false)
		rec := env.do(t, http.MethodGet, "/api/submissions", nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lists journaled submissions", func(t *testing.T) {
		env := newTestEnv(t, true)
		rec := env.do(t, http.MethodPost, "/", url.Values{"message": {"first"}}, true)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = env.do(t, http.MethodPost, "/recipients", url.Values{"message": {"second"}, "recipient": {"did:bsv:bob"}}, true)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/submissions", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SubmissionsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 2, resp.Count)
		assert.Equal(t, "second", resp.Submissions[0].Message)
		assert.Equal(t, "did:bsv:bob", resp.Submissions[0].RecipientDID)
		assert.Equal(t, "first", resp.Submissions[1].Message)

		rec = env.do(t, http.MethodGet, "/api/submissions?limit=1", nil, false)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("bad limit", func(t *testing.T) {
		env := newTestEnv(t, true)
		rec := env.do(t, http.MethodGet, "/api/submissions?limit=abc", nil, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("journal error", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.journal.FindErr = errWallet
		rec := env.do(t, http.MethodGet, "/api/submissions", nil, false)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/health", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "enabled", health.Journal)

	rec = env.do(t, http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fomtree_http_requests_total")
}

func TestBodyTooLarge(t *testing.T) {
	env := newTestEnv(t, false)

	form := url.Values{"message": {strings.Repeat("a", MaxFormBytes)}}
	rec := env.do(t, http.MethodPost, "/", form, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Request body too large"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/recipients", form, false)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Request body too large")

	assert.Equal(t, 0, env.wallet.CreateCallCount())
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	connector, err := walletconn.NewConnector(walletconn.NewMockWallet(), "", logger)
	require.NoError(t, err)
	svc, err := messaging.New(connector)
	require.NoError(t, err)
	srv, err := New(svc, Options{Addr: "127.0.0.1:0", Logger: logger, ShutdownTimeout: time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(types.FormResult{Success: true}))
	assert.Equal(t, http.StatusBadRequest, statusFor(types.FormResult{Err: messaging.ErrMessageRequired}))
	assert.Equal(t, http.StatusBadRequest, statusFor(types.FormResult{Err: messaging.ErrRecipientRequired}))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(types.FormResult{Err: walletconn.ErrWalletNotConnected}))
	assert.Equal(t, http.StatusBadGateway, statusFor(types.FormResult{Err: messaging.ErrSubmitFailed}))
}
