package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quizagent/internal/config"
	"quizagent/internal/model"
)

// fakeLLM records every call so tests can assert the grader consulted
// (or skipped) the model.
type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Complete(ctx context.Context, modelName string, messages []ChatMessage, temperature float64) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestJudge(llm LLMClient) *JudgeService {
	cfg := &config.AIConfig{
		Models: config.LLMModels{Judge: "test-judge-model"},
	}
	return NewJudgeService(llm, cfg)
}

func TestJudgeChoice(t *testing.T) {
	question := &model.Question{
		Type:    model.QuestionTypeChoice,
		Stem:    "Which of the following is a programming language?",
		Answer:  "B",
		Options: []string{"Oracle", "Go", "Linux", "HTML"},
	}

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
	}{
		{"uppercase letter", "B", true},
		{"lowercase letter", "b", true},
		{"letter with noise", " b) ", true},
		{"one-indexed digit", "2", true},
		{"option text", "I think it's Go", true},
		{"wrong letter", "A", false},
		{"wrong digit", "4", false},
		{"wrong option text", "java", false},
		{"out of range digit", "9", false},
	}

	llm := &fakeLLM{}
	judge := newTestJudge(llm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := judge.Judge(context.Background(), question, tt.answer)
			if result.IsCorrect != tt.wantCorrect {
				t.Errorf("Judge(%q).IsCorrect = %v, want %v", tt.answer, result.IsCorrect, tt.wantCorrect)
			}
			if result.Explanation == "" {
				t.Errorf("Judge(%q) returned empty explanation", tt.answer)
			}
		})
	}
	if llm.calls != 0 {
		t.Errorf("choice grading called the LLM %d times, want 0", llm.calls)
	}
}

func TestJudgeChoiceUnresolvable(t *testing.T) {
	question := &model.Question{
		Type:    model.QuestionTypeChoice,
		Stem:    "Pick one",
		Answer:  "A",
		Options: []string{"alpha", "beta"},
	}

	judge := newTestJudge(&fakeLLM{})
	result := judge.Judge(context.Background(), question, "???")
	if result.IsCorrect {
		t.Error("unresolvable answer graded correct")
	}
	if !strings.Contains(result.Explanation, "option letter") {
		t.Errorf("explanation should ask for an option letter, got %q", result.Explanation)
	}
}

func TestJudgeTrueFalse(t *testing.T) {
	falseQuestion := &model.Question{
		Type:   model.QuestionTypeTrueFalse,
		Stem:   "In Go, a nil map can be written to without panicking.",
		Answer: model.AnswerFalse,
	}
	trueQuestion := &model.Question{
		Type:   model.QuestionTypeTrueFalse,
		Stem:   "HTTP is a stateless protocol.",
		Answer: model.AnswerTrue,
	}

	tests := []struct {
		name        string
		question    *model.Question
		answer      string
		wantCorrect bool
	}{
		{"false via word", falseQuestion, "false", true},
		{"false via letter", falseQuestion, "F", true},
		{"false via cjk", falseQuestion, "错误", true},
		{"true token is wrong here", falseQuestion, "true", false},
		{"true via word", trueQuestion, "true", true},
		{"true via yes", trueQuestion, "yes", true},
		{"false token is wrong here", trueQuestion, "false", false},
	}

	llm := &fakeLLM{}
	judge := newTestJudge(llm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := judge.Judge(context.Background(), tt.question, tt.answer)
			if result.IsCorrect != tt.wantCorrect {
				t.Errorf("Judge(%q).IsCorrect = %v, want %v", tt.answer, result.IsCorrect, tt.wantCorrect)
			}
		})
	}
	if llm.calls != 0 {
		t.Errorf("true/false grading called the LLM %d times, want 0", llm.calls)
	}
}

func TestJudgeTrueFalseAmbiguous(t *testing.T) {
	question := &model.Question{
		Type:   model.QuestionTypeTrueFalse,
		Stem:   "Water is wet.",
		Answer: model.AnswerTrue,
	}

	judge := newTestJudge(&fakeLLM{})
	result := judge.Judge(context.Background(), question, "hmm...")
	if result.IsCorrect {
		t.Error("ambiguous answer graded correct")
	}
	if !strings.Contains(result.Explanation, "true or false") {
		t.Errorf("explanation should ask for an explicit answer, got %q", result.Explanation)
	}
}

func TestJudgeShortAllKeywordsSkipsLLM(t *testing.T) {
	question := &model.Question{
		Type:     model.QuestionTypeShort,
		Stem:     "Describe an index.",
		Answer:   "An auxiliary structure for fast lookup.",
		Keywords: []string{"index", "b-tree", "lookup", "scan"},
	}

	llm := &fakeLLM{}
	judge := newTestJudge(llm)
	result := judge.Judge(context.Background(), question,
		"An index is a b-tree used for lookup so the engine avoids a full scan.")
	if !result.IsCorrect {
		t.Error("answer hitting every keyword graded incorrect")
	}
	if llm.calls != 0 {
		t.Errorf("full keyword coverage called the LLM %d times, want 0", llm.calls)
	}
}

func TestJudgeShortNoKeywordHitsSkipsLLM(t *testing.T) {
	question := &model.Question{
		Type:     model.QuestionTypeShort,
		Stem:     "Describe an index.",
		Answer:   "An auxiliary structure for fast lookup.",
		Keywords: []string{"index", "b-tree", "lookup", "scan"},
	}

	llm := &fakeLLM{}
	judge := newTestJudge(llm)
	result := judge.Judge(context.Background(), question, "I have no idea.")
	if result.IsCorrect {
		t.Error("answer hitting no keywords graded correct")
	}
	if llm.calls != 0 {
		t.Errorf("zero keyword coverage called the LLM %d times, want 0", llm.calls)
	}
	if !strings.Contains(result.Explanation, "Reference answer") {
		t.Errorf("explanation should include the reference answer, got %q", result.Explanation)
	}
}

func TestJudgeShortBorderlineAsksLLM(t *testing.T) {
	question := &model.Question{
		Type:     model.QuestionTypeShort,
		Stem:     "Describe an index.",
		Answer:   "An auxiliary structure for fast lookup.",
		Keywords: []string{"index", "b-tree", "lookup", "scan"},
	}

	// Two of four keywords puts the ratio at 0.5, inside the band where
	// the model decides.
	answer := "An index speeds up lookup."

	llm := &fakeLLM{reply: "correct. You captured the essential idea of faster access."}
	judge := newTestJudge(llm)
	result := judge.Judge(context.Background(), question, answer)
	if llm.calls != 1 {
		t.Fatalf("borderline coverage called the LLM %d times, want 1", llm.calls)
	}
	if !result.IsCorrect {
		t.Error("verdict leading with \"correct\" graded incorrect")
	}

	llm = &fakeLLM{reply: "incorrect. The answer never explains how the index avoids a scan."}
	judge = newTestJudge(llm)
	result = judge.Judge(context.Background(), question, answer)
	if result.IsCorrect {
		t.Error("verdict leading with \"incorrect\" graded correct")
	}
	if !strings.Contains(result.Explanation, "missed these points") {
		t.Errorf("incorrect borderline verdict should keep the keyword hint, got %q", result.Explanation)
	}
}

func TestJudgeShortNoKeywordsUsesLLM(t *testing.T) {
	question := &model.Question{
		Type:   model.QuestionTypeShort,
		Stem:   "What is recursion?",
		Answer: "A function calling itself with a smaller input.",
	}

	llm := &fakeLLM{reply: "correct! A function that calls itself is the heart of it."}
	judge := newTestJudge(llm)
	result := judge.Judge(context.Background(), question, "a function that calls itself")
	if llm.calls != 1 {
		t.Fatalf("keywordless question called the LLM %d times, want 1", llm.calls)
	}
	if !result.IsCorrect {
		t.Error("LLM-approved answer graded incorrect")
	}
}

func TestJudgeShortLLMFailureDegrades(t *testing.T) {
	question := &model.Question{
		Type:   model.QuestionTypeShort,
		Stem:   "What is recursion?",
		Answer: "A function calling itself with a smaller input.",
	}

	judge := newTestJudge(&fakeLLM{err: errors.New("upstream down")})
	result := judge.Judge(context.Background(), question, "something")
	if result.IsCorrect {
		t.Error("LLM failure graded correct")
	}
	if !strings.Contains(result.Explanation, "Reference answer") {
		t.Errorf("degraded explanation should show the reference answer, got %q", result.Explanation)
	}
}

func TestJudgeLLMVerdictParsing(t *testing.T) {
	question := &model.Question{
		Type:   model.QuestionTypeShort,
		Stem:   "What is recursion?",
		Answer: "A function calling itself.",
	}

	tests := []struct {
		name        string
		reply       string
		wantCorrect bool
	}{
		{"leads correct", "Correct, nicely put.", true},
		{"leads incorrect", "Incorrect. The key idea is missing.", false},
		{"localized correct", "正确。回答抓住了要点。", true},
		{"localized incorrect", "不正确。回答偏离了问题。", false},
		{"verdict past head window", strings.Repeat("x", 60) + " correct", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judge := newTestJudge(&fakeLLM{reply: tt.reply})
			result := judge.Judge(context.Background(), question, "an answer")
			if result.IsCorrect != tt.wantCorrect {
				t.Errorf("verdict for %q = %v, want %v", tt.reply, result.IsCorrect, tt.wantCorrect)
			}
		})
	}
}
