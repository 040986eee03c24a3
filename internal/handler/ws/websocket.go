package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/chat"
	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/assistant"
	chatservice "github.com/zhouzirui/sports-explorer/backend/internal/service/chat"
	"github.com/zhouzirui/sports-explorer/backend/pkg/logger"
)

const (
	defaultReadTimeout = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket聊天处理器，按会话推送回复片段
type Handler struct {
	chatSvc      *chatservice.Service
	assistantSvc *assistant.Service
	languages    language.Store
	upgrader     websocket.Upgrader
	// readTimeout 只约束等待客户端消息的时间，不包含生成回复的时间
	readTimeout time.Duration
}

// New 创建WebSocket处理器
func New(chatSvc *chatservice.Service, assistantSvc *assistant.Service, languages language.Store) *Handler {
	return &Handler{
		chatSvc:      chatSvc,
		assistantSvc: assistantSvc,
		languages:    languages,
		readTimeout:  defaultReadTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TextMessage 用户提交的文本
type TextMessage struct {
	Text string `json:"text"`
}

// PreferencesMessage 语言与深色模式设置
type PreferencesMessage struct {
	Language *string `json:"language,omitempty"`
	DarkMode *bool   `json:"darkMode,omitempty"`
}

// FeedbackMessage 点赞/点踩
type FeedbackMessage struct {
	FeedbackID string    `json:"feedbackId"`
	Vote       chat.Vote `json:"vote"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	log := logger.WithCtx(r.Context()).With(zap.String("session_id", sessionID))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log.Info("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		return nil
	})

	go pingLoop(ctx, conn)

	h.send(conn, sessionID, "info", map[string]any{
		"event":       "connected",
		"preferences": session.Preferences(),
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		conn.SetReadDeadline(time.Time{})
		h.handleMessage(ctx, conn, session, &msg)
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, session *chatservice.Session, msg *inboundMessage) {
	switch msg.Type {
	case "message":
		h.handleTextMessage(ctx, conn, session, msg.Data)
	case "preferences":
		h.handlePreferencesMessage(conn, session, msg.Data)
	case "feedback":
		h.handleFeedbackMessage(conn, session, msg.Data)
	case "reset":
		session.Reset()
		h.send(conn, session.ID(), "info", map[string]any{"event": "reset"})
	default:
		h.sendError(conn, session.ID(), "unsupported message type: "+msg.Type)
	}
}

func (h *Handler) handleTextMessage(ctx context.Context, conn *websocket.Conn, session *chatservice.Session, raw json.RawMessage) {
	var text TextMessage
	if err := json.Unmarshal(raw, &text); err != nil {
		h.sendError(conn, session.ID(), "invalid message payload")
		return
	}

	turn, err := h.assistantSvc.Submit(ctx, session, text.Text, func(fragment string) {
		h.send(conn, session.ID(), "delta", map[string]string{"content": fragment})
	})
	if err != nil {
		h.sendError(conn, session.ID(), err.Error())
		return
	}

	h.send(conn, session.ID(), "message", turn)
}

func (h *Handler) handlePreferencesMessage(conn *websocket.Conn, session *chatservice.Session, raw json.RawMessage) {
	var prefs PreferencesMessage
	if err := json.Unmarshal(raw, &prefs); err != nil {
		h.sendError(conn, session.ID(), "invalid preferences payload")
		return
	}

	if prefs.Language != nil {
		lang, err := h.languages.Find(*prefs.Language)
		if err != nil {
			h.sendError(conn, session.ID(), err.Error())
			return
		}
		session.SetLanguage(lang.Code)
	}
	if prefs.DarkMode != nil {
		session.SetDarkMode(*prefs.DarkMode)
	}

	h.send(conn, session.ID(), "info", map[string]any{
		"event":       "preferences",
		"preferences": session.Preferences(),
	})
}

func (h *Handler) handleFeedbackMessage(conn *websocket.Conn, session *chatservice.Session, raw json.RawMessage) {
	var feedback FeedbackMessage
	if err := json.Unmarshal(raw, &feedback); err != nil {
		h.sendError(conn, session.ID(), "invalid feedback payload")
		return
	}

	if err := session.Vote(feedback.FeedbackID, feedback.Vote); err != nil {
		h.sendError(conn, session.ID(), err.Error())
		return
	}
	h.send(conn, session.ID(), "info", map[string]any{"event": "feedback", "votes": session.Votes()})
}

func (h *Handler) send(conn *websocket.Conn, sessionID, msgType string, data interface{}) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}); err != nil {
		logger.L().Debug("websocket write failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (h *Handler) sendError(conn *websocket.Conn, sessionID, message string) {
	h.send(conn, sessionID, "error", map[string]string{"message": message})
}

// pingLoop uses WriteControl, which is safe alongside the reader loop's writes.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
