package handler

import (
	"encoding/json"
	"net/http"

	"quizagent/internal/model"
	"quizagent/internal/repository"

	"github.com/gorilla/mux"
)

// QuestionHandler handles admin question-bank management
type QuestionHandler struct {
	questions repository.QuestionRepo
}

func NewQuestionHandler(questions repository.QuestionRepo) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// Create handles POST /v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var question model.Question
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := question.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.questions.Create(r.Context(), &question); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

// List handles GET /v1/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questions.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// Get handles GET /v1/questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	question, err := h.questions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if question == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	writeJSON(w, http.StatusOK, question)
}
