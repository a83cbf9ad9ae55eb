package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"quizagent/internal/config"
	"quizagent/internal/service"

	"github.com/gorilla/mux"
)

// ChatHandler handles conversation endpoints
type ChatHandler struct {
	chatSvc *service.ChatService
}

func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	PersonaID string `json:"personaId"`
}

// CreateSession handles POST /v1/chat/session
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // empty body means defaults
	}

	session, greeting, err := h.chatSvc.CreateSession(r.Context(), req.PersonaID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"userId":   session.UserID,
		"persona":  config.GetPersona(session.PersonaID),
		"greeting": greeting,
	})
}

// SendRequest is the request body for sending a message
type SendRequest struct {
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	PersonaID string `json:"personaId,omitempty"`
}

// Send handles POST /v1/chat/send
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "userId and message are required")
		return
	}

	response, err := h.chatSvc.HandleMessage(r.Context(), req.UserID, req.Message, req.PersonaID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// History handles GET /v1/chat/history/{userId}
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	messages, err := h.chatSvc.History(r.Context(), userID, limit)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// ClearHistory handles POST /v1/chat/history/{userId}/clear
func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := h.chatSvc.ClearHistory(r.Context(), userID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// DeleteSession handles DELETE /v1/chat/session/{userId}
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := h.chatSvc.DeleteSession(r.Context(), userID); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Personas handles GET /v1/chat/personas
func (h *ChatHandler) Personas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.AllPersonas())
}

// statusFor maps caller errors to 4xx and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrProgressNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
