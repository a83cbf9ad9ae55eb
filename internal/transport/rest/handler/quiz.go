package handler

import (
	"encoding/json"
	"net/http"

	"quizagent/internal/service"
)

// QuizHandler exposes the quiz state machine over REST
type QuizHandler struct {
	quizSvc *service.QuizService
}

func NewQuizHandler(quizSvc *service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// StartRequest is the request body for starting a quiz
type StartRequest struct {
	UserID         string `json:"userId"`
	TotalQuestions int    `json:"totalQuestions,omitempty"`
}

// Start handles POST /v1/quiz/start
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	response, err := h.quizSvc.StartWithTotal(r.Context(), req.UserID, req.TotalQuestions)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// AnswerRequest is the request body for submitting an answer
type AnswerRequest struct {
	UserID string `json:"userId"`
	Answer string `json:"answer"`
}

// Answer handles POST /v1/quiz/answer
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	response, err := h.quizSvc.ProcessAnswer(r.Context(), req.UserID, req.Answer)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// UserRequest is a request body carrying only a user id
type UserRequest struct {
	UserID string `json:"userId"`
}

// Next handles POST /v1/quiz/next
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.quizSvc.Next(r.Context(), req.UserID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// End handles POST /v1/quiz/end
func (h *QuizHandler) End(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.quizSvc.End(r.Context(), req.UserID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}
