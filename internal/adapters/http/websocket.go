package httpadapter

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/PabloGalante/datagent/internal/app/conversation"
	"github.com/PabloGalante/datagent/internal/domain"
	"github.com/PabloGalante/datagent/internal/observability"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// clientFrame is what the browser sends over the socket.
type clientFrame struct {
	Type string `json:"type"` // "message" or "mode"
	Text string `json:"text,omitempty"`
	Mode string `json:"mode,omitempty"`
}

// serverFrame is pushed on every state transition.
type serverFrame struct {
	Type    string           `json:"type"` // "entry", "reset", "loading", "error"
	Entry   *domain.Entry    `json:"entry,omitempty"`
	Session *sessionResponse `json:"session,omitempty"`
	Loading *bool            `json:"loading,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// wsConn serialises writes; gorilla allows a single concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(f serverFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(f)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if _, err := s.svc.GetSessionTimeline(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	log := observability.LoggerFromContext(r.Context()).With("session_id", id)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Deferred first so cancel runs before the wait.
	var inflight sync.WaitGroup
	defer inflight.Wait()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ws := &wsConn{conn: conn}

	for {
		var f clientFrame
		if err := conn.ReadJSON(&f); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("websocket read failed", "error", err)
			}
			return
		}

		switch f.Type {
		case "message":
			inflight.Add(1)
			go func(text string) {
				defer inflight.Done()
				s.wsSend(ctx, ws, id, text)
			}(f.Text)
		case "mode":
			s.wsSwitchMode(ctx, ws, id, f.Mode)
		default:
			_ = ws.send(serverFrame{Type: "error", Error: "unknown frame type"})
		}
	}
}

func (s *Server) wsSend(ctx context.Context, ws *wsConn, id domain.SessionID, text string) {
	on, off := true, false

	if strings.TrimSpace(text) == "" {
		_ = ws.send(serverFrame{Type: "error", Error: domain.ErrEmptyMessage.Error()})
		return
	}

	_ = ws.send(serverFrame{Type: "loading", Loading: &on})
	out, err := s.svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: id, Text: text})
	if err != nil {
		// A rejected submit leaves any pending request untouched.
		if !errors.Is(err, domain.ErrRequestInFlight) {
			_ = ws.send(serverFrame{Type: "loading", Loading: &off})
		}
		_ = ws.send(serverFrame{Type: "error", Error: err.Error()})
		return
	}

	_ = ws.send(serverFrame{Type: "entry", Entry: &out.UserEntry})
	_ = ws.send(serverFrame{Type: "entry", Entry: &out.Reply})
	_ = ws.send(serverFrame{Type: "loading", Loading: &off})
}

func (s *Server) wsSwitchMode(ctx context.Context, ws *wsConn, id domain.SessionID, mode string) {
	out, err := s.svc.SwitchMode(ctx, id, domain.ParseMode(mode))
	if err != nil {
		_ = ws.send(serverFrame{Type: "error", Error: err.Error()})
		return
	}

	session := toSessionResponse(out.Session)
	_ = ws.send(serverFrame{Type: "reset", Session: &session, Entry: &out.Greeting})
}
