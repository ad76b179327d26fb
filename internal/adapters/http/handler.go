package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/datagent/internal/app/conversation"
	"github.com/PabloGalante/datagent/internal/domain"
	"github.com/PabloGalante/datagent/internal/observability"
)

type Server struct {
	svc *conversation.Service
}

func NewServer(svc *conversation.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions → create session (POST)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}          →  GET: timeline, DELETE: end session
	// /sessions/{id}/mode     →  PUT: switch mode
	// /sessions/{id}/messages →  POST: send message
	// /sessions/{id}/ws       →  GET: websocket chat
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Mode  string `json:"mode"`
	Title string `json:"title,omitempty"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type greetingResponse struct {
	Session  sessionResponse `json:"session"`
	Greeting domain.Entry    `json:"greeting"`
}

type switchModeRequest struct {
	Mode string `json:"mode"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserEntry domain.Entry `json:"user_entry"`
	Reply     domain.Entry `json:"reply"`
}

type timelineResponse struct {
	Session     sessionResponse           `json:"session"`
	Entries     []domain.Entry            `json:"entries"`
	Loading     bool                      `json:"loading"`
	Placeholder string                    `json:"placeholder"`
	Suggestions []conversation.Suggestion `json:"suggestions"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id}[/mode|/messages|/ws]
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])

	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, id)
		case http.MethodDelete:
			s.handleEndSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 {
		switch {
		case parts[1] == "mode" && r.Method == http.MethodPut:
			s.handleSwitchMode(w, r, id)
		case parts[1] == "messages" && r.Method == http.MethodPost:
			s.handleSendMessage(w, r, id)
		case parts[1] == "ws" && r.Method == http.MethodGet:
			s.handleWebSocket(w, r, id)
		case parts[1] == "mode", parts[1] == "messages", parts[1] == "ws":
			methodNotAllowed(w)
		default:
			http.NotFound(w, r)
		}
		return
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.StartSession(r.Context(), conversation.StartSessionInput{
		Mode:  domain.ParseMode(req.Mode),
		Title: req.Title,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, greetingResponse{
		Session:  toSessionResponse(out.Session),
		Greeting: out.Greeting,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	tl, err := s.svc.GetSessionTimeline(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, timelineResponse{
		Session:     toSessionResponse(tl.Session),
		Entries:     tl.Entries,
		Loading:     tl.Loading,
		Placeholder: tl.Placeholder,
		Suggestions: tl.Suggestions,
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.svc.EndSession(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSwitchMode(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req switchModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.SwitchMode(r.Context(), id, domain.ParseMode(req.Mode))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, greetingResponse{
		Session:  toSessionResponse(out.Session),
		Greeting: out.Greeting,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), conversation.SendMessageInput{
		SessionID: id,
		Text:      req.Text,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserEntry: out.UserEntry,
		Reply:     out.Reply,
	})
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toSessionResponse(s domain.Session) sessionResponse {
	return sessionResponse{
		ID:        string(s.ID),
		Title:     s.Title,
		Mode:      string(s.Mode),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeErrorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyMessage):
		badRequest(w, "text is required")
	case errors.Is(err, domain.ErrRequestInFlight), errors.Is(err, domain.ErrConversationReset):
		writeErrorJSON(w, http.StatusConflict, err.Error())
	default:
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeErrorJSON(w, http.StatusBadRequest, msg)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
}
