// Package server exposes the message board over HTTP. Pages render as HTML
// by default; clients sending Accept: application/json (or ?format=json)
// receive the page data or form result as JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/journal"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/messaging"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultAddr            = ":3000"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	// MaxFormBytes bounds a form post body
	MaxFormBytes = 16 * 1024
)

// Static error variables for err113 compliance
var (
	errNilMessenger = errors.New("messenger is required")
	errNilServer    = errors.New("server is nil")
)

// Messenger is the message board behind the HTTP handlers.
type Messenger interface {
	LoadMessages(ctx context.Context) (types.HomePage, error)
	SubmitMessage(ctx context.Context, message string) types.FormResult
	LoadRecipients(ctx context.Context) (types.RecipientsPage, error)
	SubmitToRecipient(ctx context.Context, message, recipientDID string) types.FormResult
}

// Compile-time verification that messaging.Service implements Messenger
var _ Messenger = (*messaging.Service)(nil)

// Options configures a Server.
type Options struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	// Journal backs /api/submissions; nil disables the endpoint
	Journal journal.Storage
	Logger  *slog.Logger
}

// Server serves the message board.
type Server struct {
	messenger       Messenger
	journal         journal.Storage
	logger          *slog.Logger
	renderer        *renderer
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// New creates a Server for messenger.
func New(messenger Messenger, opts Options) (*Server, error) {
	if messenger == nil {
		return nil, errNilMessenger
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		messenger:       messenger,
		journal:         opts.Journal,
		logger:          opts.Logger,
		renderer:        r,
		shutdownTimeout: opts.ShutdownTimeout,
	}
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(opts.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errNilServer
	}

	serveErr := make(chan error, 1)
	s.logger.Info("Starting HTTP server", slog.String("addr", s.httpServer.Addr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
