package model

import (
	"errors"
	"time"
)

type QuestionType string

const (
	QuestionTypeChoice    QuestionType = "choice"
	QuestionTypeTrueFalse QuestionType = "tf"
	QuestionTypeShort     QuestionType = "short"
)

// TrueFalse canonical answers
const (
	AnswerTrue  = "T"
	AnswerFalse = "F"
)

var ErrQuestionUnusable = errors.New("question data is unusable")

// Question is a single bank entry. Type decides which optional fields apply:
// Options for choice questions, Keywords for short-answer grading hints.
type Question struct {
	ID         string       `json:"id" bson:"_id,omitempty"`
	Type       QuestionType `json:"type" bson:"type"`
	Stem       string       `json:"stem" bson:"stem"`
	Answer     string       `json:"answer" bson:"answer"`
	Options    []string     `json:"options,omitempty" bson:"options,omitempty"`
	Keywords   []string     `json:"keywords,omitempty" bson:"keywords,omitempty"`
	Analysis   string       `json:"analysis,omitempty" bson:"analysis,omitempty"`
	Difficulty int          `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	CreatedAt  time.Time    `json:"createdAt" bson:"createdAt"`
}

// Validate checks the internal consistency of a question record.
// A failing question is treated like a draw failure, never a crash.
func (q *Question) Validate() error {
	if q.Stem == "" || q.Answer == "" {
		return ErrQuestionUnusable
	}
	switch q.Type {
	case QuestionTypeChoice:
		if len(q.Options) < 2 || len(q.Answer) != 1 {
			return ErrQuestionUnusable
		}
		idx := int(q.Answer[0] - 'A')
		if idx < 0 || idx >= len(q.Options) {
			return ErrQuestionUnusable
		}
	case QuestionTypeTrueFalse:
		if q.Answer != AnswerTrue && q.Answer != AnswerFalse {
			return ErrQuestionUnusable
		}
	case QuestionTypeShort:
		// Free text, nothing more to check.
	default:
		return ErrQuestionUnusable
	}
	return nil
}

// CorrectOption returns the option text the canonical answer points at.
// Only meaningful for choice questions that pass Validate.
func (q *Question) CorrectOption() string {
	idx := int(q.Answer[0] - 'A')
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}
