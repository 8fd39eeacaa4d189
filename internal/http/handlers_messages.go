package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/solenne/boutique/internal/core"
	"github.com/solenne/boutique/internal/domain/model"
	"github.com/solenne/boutique/internal/service"
)

// MessageHandlers provides HTTP handlers for concierge message threads.
type MessageHandlers struct {
	Svc      *service.MessageService
	Notices  core.NoticeSubscriber
	Logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewMessageHandlers constructs MessageHandlers with a same-origin upgrader.
func NewMessageHandlers(svc *service.MessageService, notices core.NoticeSubscriber, logger *slog.Logger) *MessageHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageHandlers{
		Svc:     svc,
		Notices: notices,
		Logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Send handles POST /api/messages.
func (h *MessageHandlers) Send(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requireVisitor(w, r)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	// Members write to their own thread; the thread ID may be omitted.
	if req.ThreadID == "" && !visitor.Role.IsAdmin() {
		req.ThreadID = visitor.Identity.UserID
	}

	msg, err := h.Svc.Send(r.Context(), visitor.Identity.UserID, visitor.Role.IsAdmin(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, msg)
}

// Thread handles GET /api/messages and GET /api/messages/{thread}.
func (h *MessageHandlers) Thread(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requireVisitor(w, r)
	if !ok {
		return
	}

	threadID := r.PathValue("thread")
	if threadID == "" {
		threadID = visitor.Identity.UserID
	}

	limit, offset := paginationParams(r)
	msgs, err := h.Svc.Thread(r.Context(), visitor.Identity.UserID, threadID, visitor.Role.IsAdmin(), limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// Notifications handles GET /api/messages/notifications, upgrading to a
// websocket that streams new-message notices for the visitor. The pub/sub
// subscription is released when the socket closes.
func (h *MessageHandlers) Notifications(w http.ResponseWriter, r *http.Request) {
	visitor, ok := requireVisitor(w, r)
	if !ok {
		return
	}
	if h.Notices == nil {
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "notifications_unavailable",
			Err: errors.New("notifications are not configured")})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	notices, err := h.Notices.Subscribe(ctx, visitor.Identity.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "subscribe_failed", Err: err})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	// The read loop exists to observe the close handshake; clients never
	// send application data on this socket.
	go func() {
		defer cancel()
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case notice, open := <-notices:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if writeErr := conn.WriteJSON(notice); writeErr != nil {
				h.Logger.DebugContext(ctx, "notification write failed, closing socket", "error", writeErr)
				return
			}
		}
	}
}
