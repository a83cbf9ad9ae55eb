package model

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		wantErr  bool
	}{
		{
			name: "valid choice",
			question: Question{
				Type:    QuestionTypeChoice,
				Stem:    "Pick one",
				Answer:  "B",
				Options: []string{"first", "second", "third"},
			},
		},
		{
			name: "choice answer outside options",
			question: Question{
				Type:    QuestionTypeChoice,
				Stem:    "Pick one",
				Answer:  "D",
				Options: []string{"first", "second", "third"},
			},
			wantErr: true,
		},
		{
			name: "choice with one option",
			question: Question{
				Type:    QuestionTypeChoice,
				Stem:    "Pick one",
				Answer:  "A",
				Options: []string{"only"},
			},
			wantErr: true,
		},
		{
			name: "choice multi-letter answer",
			question: Question{
				Type:    QuestionTypeChoice,
				Stem:    "Pick one",
				Answer:  "AB",
				Options: []string{"first", "second"},
			},
			wantErr: true,
		},
		{
			name: "valid true/false",
			question: Question{
				Type:   QuestionTypeTrueFalse,
				Stem:   "Water is wet.",
				Answer: AnswerTrue,
			},
		},
		{
			name: "true/false with free-text answer",
			question: Question{
				Type:   QuestionTypeTrueFalse,
				Stem:   "Water is wet.",
				Answer: "yes",
			},
			wantErr: true,
		},
		{
			name: "valid short",
			question: Question{
				Type:   QuestionTypeShort,
				Stem:   "Explain something.",
				Answer: "Because reasons.",
			},
		},
		{
			name: "empty stem",
			question: Question{
				Type:   QuestionTypeShort,
				Answer: "Because reasons.",
			},
			wantErr: true,
		},
		{
			name: "empty answer",
			question: Question{
				Type: QuestionTypeShort,
				Stem: "Explain something.",
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			question: Question{
				Type:   QuestionType("essay"),
				Stem:   "Write a lot.",
				Answer: "words",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrQuestionUnusable) {
					t.Fatalf("Validate() = %v, want ErrQuestionUnusable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestCorrectOption(t *testing.T) {
	q := Question{
		Type:    QuestionTypeChoice,
		Stem:    "Pick one",
		Answer:  "C",
		Options: []string{"first", "second", "third"},
	}
	if got := q.CorrectOption(); got != "third" {
		t.Errorf("CorrectOption() = %q, want %q", got, "third")
	}
}

func TestRecentMessages(t *testing.T) {
	session := UserSession{
		Conversation: []Message{
			{Role: "user", Content: "one"},
			{Role: "agent", Content: "two"},
			{Role: "user", Content: "three"},
		},
	}

	got := session.RecentMessages(2)
	if len(got) != 2 {
		t.Fatalf("RecentMessages(2) returned %d messages, want 2", len(got))
	}
	if got[0].Content != "two" || got[1].Content != "three" {
		t.Errorf("RecentMessages(2) = [%q, %q], want newest two in order", got[0].Content, got[1].Content)
	}

	if got := session.RecentMessages(10); len(got) != 3 {
		t.Errorf("RecentMessages(10) returned %d messages, want all 3", len(got))
	}
}
