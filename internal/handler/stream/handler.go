package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/sports-explorer/backend/internal/service/assistant"
	chatService "github.com/zhouzirui/sports-explorer/backend/internal/service/chat"
	"github.com/zhouzirui/sports-explorer/backend/pkg/logger"
	"github.com/zhouzirui/sports-explorer/backend/pkg/utils"
)

// Handler manages streaming replies via Server-Sent Events
type Handler struct {
	assistantSvc *assistant.Service
	chatSvc      *chatService.Service
}

// New creates a new stream handler
func New(assistantSvc *assistant.Service, chatSvc *chatService.Service) *Handler {
	return &Handler{
		assistantSvc: assistantSvc,
		chatSvc:      chatSvc,
	}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string          `json:"event"`
	Content   string          `json:"content,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Turn      *assistant.Turn `json:"turn,omitempty"`
	Finished  bool            `json:"finished,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// RegisterRoutes mounts the SSE endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")

	if userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := h.HandleStreamRequest(r.Context(), w, session, userMessage); err != nil {
		logger.WithCtx(r.Context()).Warn("stream request failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// HandleStreamRequest runs one submission on an already resolved session and
// relays every fragment as a named delta event.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, session *chatService.Session, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return errors.New("streaming unsupported")
	}

	sessionID := session.ID()
	send := func(payload StreamResponse) {
		utils.SendSSEEvent(w, flusher, payload.Event, payload)
	}

	utils.SetupSSEHeaders(w)

	send(StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	turn, err := h.assistantSvc.Submit(ctx, session, userMessage, func(fragment string) {
		send(StreamResponse{
			Event:     "delta",
			SessionID: sessionID,
			Content:   fragment,
		})
	})
	if err != nil {
		send(StreamResponse{
			Event: "error",
			Error: fmt.Sprintf("submission failed: %v", err),
		})
		return err
	}

	send(StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   turn.Bot.Text,
		Turn:      &turn,
	})

	send(StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	logger.WithCtx(ctx).Debug("stream completed", zap.String("session_id", sessionID))
	return nil
}
