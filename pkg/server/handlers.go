package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/journal"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/messaging"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/recipients"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/types"
	"github.com/bsv-blockchain/go-fomtree-messages/pkg/walletconn"
)

const (
	textLoadMessagesFailed   = "Failed to load messages"
	textLoadRecipientsFailed = "Failed to load recipients"
	textJournalDisabled      = "Submission journal is not enabled"
	textJournalFailed        = "Failed to load submissions"
	textBadForm              = "Invalid form submission"
	textBodyTooLarge         = "Request body too large"
)

// homeData is the template data of the message board page.
type homeData struct {
	types.HomePage
	Form *types.FormResult
}

// recipientsData is the template data of the recipients page.
type recipientsData struct {
	types.RecipientsPage
	Form      *types.FormResult
	Directory []types.Recipient
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	page, err := s.messenger.LoadMessages(r.Context())
	if err != nil {
		s.logger.Error("Error loading messages", "error", err)
		s.fail(w, r, http.StatusInternalServerError, textLoadMessagesFailed)
		return
	}

	if wantsJSON(r) {
		s.json(w, http.StatusOK, page)
		return
	}
	s.html(w, http.StatusOK, pageHome, homeData{HomePage: page})
}

func (s *Server) submitMessage(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	result := s.messenger.SubmitMessage(r.Context(), r.PostFormValue("message"))
	status := statusFor(result)

	if wantsJSON(r) {
		s.json(w, status, result)
		return
	}

	page, err := s.messenger.LoadMessages(r.Context())
	if err != nil {
		s.logger.Error("Error loading messages", "error", err)
		page = types.HomePage{Error: stringPtr(textLoadMessagesFailed), Messages: []types.MessageView{}}
	}
	s.html(w, status, pageHome, homeData{HomePage: page, Form: &result})
}

func (s *Server) recipients(w http.ResponseWriter, r *http.Request) {
	page, err := s.messenger.LoadRecipients(r.Context())
	if err != nil {
		s.logger.Error("Error loading recipients", "error", err)
		s.fail(w, r, http.StatusInternalServerError, textLoadRecipientsFailed)
		return
	}

	if wantsJSON(r) {
		s.json(w, http.StatusOK, page)
		return
	}
	s.html(w, http.StatusOK, pageRecipients, recipientsData{RecipientsPage: page, Directory: recipients.All()})
}

func (s *Server) submitToRecipient(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	result := s.messenger.SubmitToRecipient(r.Context(), r.PostFormValue("message"), r.PostFormValue("recipient"))
	status := statusFor(result)

	if wantsJSON(r) {
		s.json(w, status, result)
		return
	}

	page, err := s.messenger.LoadRecipients(r.Context())
	if err != nil {
		s.logger.Error("Error loading recipients", "error", err)
		page = types.RecipientsPage{Error: stringPtr(textLoadRecipientsFailed), Recipients: []types.RecipientView{}}
	}
	s.html(w, status, pageRecipients, recipientsData{RecipientsPage: page, Form: &result, Directory: recipients.All()})
}

// SubmissionsResponse is the body of GET /api/submissions.
type SubmissionsResponse struct {
	Submissions []*types.JournalEntry `json:"submissions"`
	Count       int                   `json:"count"`
}

func (s *Server) submissions(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		s.json(w, http.StatusNotFound, errorBody(textJournalDisabled))
		return
	}

	limit := journal.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.json(w, http.StatusBadRequest, errorBody("limit must be a positive integer"))
			return
		}
		limit = n
	}

	entries, err := s.journal.FindRecent(r.Context(), limit)
	if err != nil {
		s.logger.Error("Error loading submissions", "error", err)
		s.json(w, http.StatusInternalServerError, errorBody(textJournalFailed))
		return
	}
	if entries == nil {
		entries = []*types.JournalEntry{}
	}
	s.json(w, http.StatusOK, SubmissionsResponse{Submissions: entries, Count: len(entries)})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Journal   string `json:"journal"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	journalState := "disabled"
	if s.journal != nil {
		journalState = "enabled"
	}
	s.json(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Journal:   journalState,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// parseForm parses the posted form and writes an error response on failure.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseForm()
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		s.fail(w, r, http.StatusRequestEntityTooLarge, textBodyTooLarge)
		return false
	}
	s.logger.Warn("Invalid form submission", "error", err)
	s.fail(w, r, http.StatusBadRequest, textBadForm)
	return false
}

// statusFor maps a form result to its HTTP status.
func statusFor(result types.FormResult) int {
	switch {
	case result.Success:
		return http.StatusOK
	case errors.Is(result.Err, recipients.ErrRecipientNotFound):
		return http.StatusNotFound
	case errors.Is(result.Err, walletconn.ErrWalletNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(result.Err, messaging.ErrSubmitFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// wantsJSON reports whether the client asked for JSON instead of HTML.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

// fail writes an error in the format the client asked for.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := writeError(w, r, status, message); err != nil {
		s.logger.Warn("Failed to write error response", slog.Int("status", status), "error", err)
	}
}

// json sends a JSON response with the given status code.
func (s *Server) json(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.logger.Warn("Failed to write JSON response", slog.Int("status", status), "error", err)
	}
}

// writeError writes message as a JSON error body or plain text, following
// the client's requested format.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) error {
	if wantsJSON(r) {
		return writeJSON(w, status, errorBody(message))
	}
	http.Error(w, message, status)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func stringPtr(s string) *string {
	return &s
}
