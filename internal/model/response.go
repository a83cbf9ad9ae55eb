package model

// QuizInfo carries the question-facing half of an AgentResponse. Fields
// after Options are only populated once the user has answered.
type QuizInfo struct {
	Step          int          `json:"step"`
	TotalSteps    int          `json:"totalSteps"`
	QuestionType  QuestionType `json:"questionType"`
	QuestionID    string       `json:"questionId"`
	QuestionText  string       `json:"questionText"`
	Options       []string     `json:"options,omitempty"`
	UserAnswer    string       `json:"userAnswer,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Feedback      string       `json:"feedback,omitempty"`
}

// AgentResponse is the single wire shape every operation returns.
type AgentResponse struct {
	Mode     SessionMode `json:"mode"`
	Message  string      `json:"message"`
	QuizInfo *QuizInfo   `json:"quizInfo,omitempty"`
	AudioURL string      `json:"audioUrl,omitempty"`
}

// ChatResponse builds a chat-mode response with no quiz payload.
func ChatResponse(message string) *AgentResponse {
	return &AgentResponse{Mode: ModeChat, Message: message}
}

// QuizResponse builds a quiz-mode response.
func QuizResponse(message string, info *QuizInfo) *AgentResponse {
	return &AgentResponse{Mode: ModeQuiz, Message: message, QuizInfo: info}
}

// JudgeResult is the outcome of grading one answer. Never persisted.
type JudgeResult struct {
	IsCorrect   bool
	Explanation string
}
