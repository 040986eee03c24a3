package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/sports-explorer/backend/internal/model/chat"
	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/assistant"
	chatService "github.com/zhouzirui/sports-explorer/backend/internal/service/chat"
	"github.com/zhouzirui/sports-explorer/backend/pkg/logger"
	"github.com/zhouzirui/sports-explorer/backend/pkg/utils"
)

// Handler 聊天会话的HTTP处理器
type Handler struct {
	chatSvc      *chatService.Service
	assistantSvc *assistant.Service
	languages    language.Store
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, assistantSvc *assistant.Service, languages language.Store) *Handler {
	return &Handler{
		chatSvc:      chatSvc,
		assistantSvc: assistantSvc,
		languages:    languages,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleDeleteSession)
		r.Post("/reset", h.handleReset)
		r.Put("/preferences", h.handlePreferences)
		r.Post("/messages", h.handleSubmit)
		r.Post("/feedback", h.handleFeedback)
	})
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Language string `json:"language"`
		DarkMode bool   `json:"darkMode"`
	}

	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	lang, err := h.languages.Find(payload.Language)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), chat.Preferences{Language: lang.Code, DarkMode: payload.DarkMode})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("session created", zap.String("session_id", session.ID()), zap.String("language", lang.Code))
	utils.RespondJSON(w, http.StatusCreated, session.Snapshot())
}

// handleGetSession 返回会话记录、反馈与偏好
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// handleDeleteSession 结束会话
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReset 清空聊天记录
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	session.Reset()
	utils.RespondJSON(w, http.StatusOK, session.Snapshot())
}

// handlePreferences 更新语言或深色模式
func (h *Handler) handlePreferences(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var payload struct {
		Language *string `json:"language"`
		DarkMode *bool   `json:"darkMode"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Language != nil {
		lang, err := h.languages.Find(*payload.Language)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		session.SetLanguage(lang.Code)
	}
	if payload.DarkMode != nil {
		session.SetDarkMode(*payload.DarkMode)
	}

	utils.RespondJSON(w, http.StatusOK, session.Preferences())
}

// handleSubmit 非流式提交一条消息
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := h.assistantSvc.Submit(r.Context(), session, payload.Text, nil)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, turn)
}

// handleFeedback 记录点赞/点踩
func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var payload struct {
		FeedbackID string    `json:"feedbackId"`
		Vote       chat.Vote `json:"vote"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := session.Vote(payload.FeedbackID, payload.Vote); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"votes": session.Votes()})
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*chatService.Session, bool) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return nil, false
	}
	return session, true
}

// respondServiceError 将服务层错误映射为HTTP状态码
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound), errors.Is(err, chatService.ErrFeedbackNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chatService.ErrInvalidVote),
		errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, language.ErrUnsupportedLanguage):
		status = http.StatusBadRequest
	}
	utils.RespondError(w, status, err.Error())
}
