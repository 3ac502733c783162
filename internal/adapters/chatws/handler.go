// Package chatws bridges websocket connections to the chat router. Each
// connection authenticates a single member into a single session; frames
// are JSON chat lines in, JSON replies out.
package chatws

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"

	"github.com/stellarsig/msig/internal/adapters/chat"
	"github.com/stellarsig/msig/internal/domain"
)

// ClientMessage is one inbound frame: a chat line from the member this
// connection authenticated as.
type ClientMessage struct {
	Text string `json:"text"`
}

// ServerMessage is one outbound frame. Private frames reach only the
// connection whose command produced them; Member attributes group echoes
// of inbound lines.
type ServerMessage struct {
	Member  string `json:"member,omitempty"`
	Text    string `json:"text"`
	Private bool   `json:"private,omitempty"`
}

type client struct {
	conn   *websocket.Conn
	member domain.MemberID

	// writeMu protects websocket writes from concurrent access
	writeMu sync.Mutex
}

func (c *client) send(ctx context.Context, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

type Handler struct {
	token  string
	router *chat.Router
	log    *slog.Logger

	mu    sync.Mutex
	rooms map[domain.SessionID]map[*client]struct{}
}

func NewHandler(token string, router *chat.Router, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		token:  token,
		router: router,
		log:    log,
		rooms:  make(map[domain.SessionID]map[*client]struct{}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	queryToken := r.URL.Query().Get("token")
	if queryToken == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	if subtle.ConstantTimeCompare([]byte(queryToken), []byte(h.token)) != 1 {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	sessionID := domain.SessionID(r.URL.Query().Get("session"))
	member := domain.MemberID(r.URL.Query().Get("member"))
	if sessionID == "" || member == "" {
		http.Error(w, "Missing session or member", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	c := &client{conn: conn, member: member}
	h.join(sessionID, c)
	defer h.leave(sessionID, c)

	h.log.Info("member connected", "session", sessionID, "member", member)
	h.serve(r.Context(), sessionID, c)
	h.log.Info("member disconnected", "session", sessionID, "member", member)
}

func (h *Handler) serve(ctx context.Context, sessionID domain.SessionID, c *client) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = c.send(ctx, ServerMessage{Text: "Invalid message format", Private: true})
			continue
		}
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}

		// Echo the line to the rest of the room so every member sees the
		// conversation, as they would in a group chat. A plain line
		// answering a pending key import is the member's secret seed and
		// never leaves this connection; the check happens before routing,
		// which clears the pending import.
		isCommand := strings.HasPrefix(text, "/")
		if isCommand || !h.router.AwaitingSecret(ctx, sessionID, c.member) {
			h.broadcast(ctx, sessionID, ServerMessage{Member: string(c.member), Text: msg.Text}, c)
		}

		replies := h.router.Handle(ctx, chat.Event{
			SessionID: sessionID,
			MemberID:  c.member,
			Text:      msg.Text,
		})
		for _, reply := range replies {
			if reply.Private {
				if err := c.send(ctx, ServerMessage{Text: reply.Text, Private: true}); err != nil {
					return
				}
				continue
			}
			h.broadcast(ctx, sessionID, ServerMessage{Text: reply.Text}, nil)
		}
	}
}

func (h *Handler) join(sessionID domain.SessionID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[sessionID]
	if room == nil {
		room = make(map[*client]struct{})
		h.rooms[sessionID] = room
	}
	room[c] = struct{}{}
}

func (h *Handler) leave(sessionID domain.SessionID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.rooms[sessionID], c)
	if len(h.rooms[sessionID]) == 0 {
		delete(h.rooms, sessionID)
	}
}

// broadcast sends to every connection in the room except the given one.
func (h *Handler) broadcast(ctx context.Context, sessionID domain.SessionID, msg ServerMessage, except *client) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.rooms[sessionID]))
	for c := range h.rooms[sessionID] {
		if c != except {
			clients = append(clients, c)
		}
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.send(ctx, msg); err != nil {
			h.log.Debug("broadcast write failed", "session", sessionID, "member", c.member, "error", err)
		}
	}
}
