package model

import "time"

type SessionMode string

const (
	ModeChat SessionMode = "chat"
	ModeQuiz SessionMode = "quiz"
)

type QuizState string

const (
	QuizStateInit        QuizState = "init"
	QuizStateAsk         QuizState = "ask"
	QuizStateAwaitAnswer QuizState = "await_answer"
	QuizStateFeedback    QuizState = "feedback"
	QuizStateEnd         QuizState = "end"
)

// Message is one conversation entry. AudioURL is only set for agent
// messages that went through the TTS step.
type Message struct {
	Role      string    `json:"role" bson:"role"` // "user" or "agent"
	Content   string    `json:"content" bson:"content"`
	AudioURL  string    `json:"audioUrl,omitempty" bson:"audioUrl,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// AnsweredQuestion is one entry in a quiz run's history. The ids collected
// here are excluded from later draws in the same run.
type AnsweredQuestion struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	UserAnswer string `json:"userAnswer" bson:"userAnswer"`
	IsCorrect  bool   `json:"isCorrect" bson:"isCorrect"`
}

// QuizProgress tracks where a user is within one quiz run.
type QuizProgress struct {
	CurrentStep       int                `json:"currentStep" bson:"currentStep"`
	TotalSteps        int                `json:"totalSteps" bson:"totalSteps"`
	CurrentQuestionID string             `json:"currentQuestionId" bson:"currentQuestionId"`
	CorrectCount      int                `json:"correctCount" bson:"correctCount"`
	State             QuizState          `json:"state" bson:"state"`
	AnsweredQuestions []AnsweredQuestion `json:"answeredQuestions" bson:"answeredQuestions"`
}

// AnsweredIDs returns the ids of every question answered so far in this run.
func (p *QuizProgress) AnsweredIDs() []string {
	ids := make([]string, 0, len(p.AnsweredQuestions))
	for _, aq := range p.AnsweredQuestions {
		ids = append(ids, aq.QuestionID)
	}
	return ids
}

// UserSession is the per-user record of conversation, mode and quiz progress.
// QuizProgress is nil whenever Mode is chat.
type UserSession struct {
	UserID       string        `json:"userId" bson:"_id"`
	PersonaID    string        `json:"personaId" bson:"personaId"`
	Conversation []Message     `json:"conversation" bson:"conversation"`
	Mode         SessionMode   `json:"mode" bson:"mode"`
	QuizProgress *QuizProgress `json:"quizProgress,omitempty" bson:"quizProgress,omitempty"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// RecentMessages returns up to max of the newest conversation entries,
// oldest first. Used to build LLM context windows.
func (s *UserSession) RecentMessages(max int) []Message {
	if len(s.Conversation) <= max {
		return s.Conversation
	}
	return s.Conversation[len(s.Conversation)-max:]
}
