package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"quizagent/internal/config"
	"quizagent/internal/model"
)

// Grading thresholds for short answers with keywords. Between the two the
// LLM verdict decides.
const (
	keywordCorrectRatio   = 0.8
	keywordIncorrectRatio = 0.3
)

const genericJudgeExplanation = "I could not fully evaluate this answer, so it is marked incorrect. Check the reference answer below."

// Answer token sets for true/false questions. Matched as lowercase
// substrings; true tokens win when both sides match.
var (
	trueTokens  = []string{"t", "true", "正确", "对", "是", "yes", "y", "√"}
	falseTokens = []string{"f", "false", "错误", "错", "不对", "no", "n", "×"}
)

// JudgeService maps (question, raw answer) to a JudgeResult. It never
// returns an error: LLM trouble degrades to incorrect with a generic
// explanation so the quiz flow keeps moving.
type JudgeService struct {
	llm LLMClient
	cfg *config.AIConfig
}

func NewJudgeService(llm LLMClient, cfg *config.AIConfig) *JudgeService {
	return &JudgeService{llm: llm, cfg: cfg}
}

func (s *JudgeService) Judge(ctx context.Context, question *model.Question, rawAnswer string) model.JudgeResult {
	switch question.Type {
	case model.QuestionTypeChoice:
		return s.judgeChoice(question, rawAnswer)
	case model.QuestionTypeTrueFalse:
		return s.judgeTrueFalse(question, rawAnswer)
	default:
		return s.judgeShort(ctx, question, rawAnswer)
	}
}

func (s *JudgeService) judgeChoice(question *model.Question, rawAnswer string) model.JudgeResult {
	normalized := strings.ToUpper(strings.TrimSpace(rawAnswer))

	// Bare digit answers are 1-indexed option numbers.
	if isDigits(normalized) {
		idx := parseDigits(normalized) - 1
		if idx >= 0 && idx < len(question.Options) {
			normalized = string(rune('A' + idx))
		}
	}

	normalized = stripNonAlnum(normalized)

	choice := ""
	if normalized != "" {
		first := normalized[0]
		lastLetter := byte('A' + len(question.Options) - 1)
		switch {
		case first >= 'A' && first <= lastLetter:
			choice = string(first)
		case first >= '1' && first <= '9':
			idx := int(first-'1')
			if idx < len(question.Options) {
				choice = string(rune('A' + idx))
			}
		}
	}

	// No letter or digit found: try matching option text inside the answer.
	if choice == "" {
		lower := strings.ToLower(rawAnswer)
		for i, option := range question.Options {
			if strings.Contains(lower, strings.ToLower(option)) {
				choice = string(rune('A' + i))
				break
			}
		}
	}

	if choice == "" {
		return model.JudgeResult{
			IsCorrect:   false,
			Explanation: "I could not tell which option you picked. Please answer with the option letter (A, B, C, ...).",
		}
	}

	correct := strings.ToUpper(strings.TrimSpace(question.Answer))
	result := model.JudgeResult{IsCorrect: choice == correct}
	if result.IsCorrect {
		result.Explanation = fmt.Sprintf("Correct! %s: %s", correct, question.CorrectOption())
	} else {
		result.Explanation = fmt.Sprintf("Not quite. The correct answer is %s: %s", correct, question.CorrectOption())
	}
	if question.Analysis != "" {
		result.Explanation += "\n\nAnalysis: " + question.Analysis
	}
	return result
}

func (s *JudgeService) judgeTrueFalse(question *model.Question, rawAnswer string) model.JudgeResult {
	lower := strings.ToLower(strings.TrimSpace(rawAnswer))

	userTrue := containsAny(lower, trueTokens)
	userFalse := false
	if !userTrue {
		userFalse = containsAny(lower, falseTokens)
	}
	if !userTrue && !userFalse {
		return model.JudgeResult{
			IsCorrect:   false,
			Explanation: "I could not tell whether you meant true or false. Please answer explicitly.",
		}
	}

	correctTrue := question.Answer == model.AnswerTrue
	result := model.JudgeResult{IsCorrect: userTrue == correctTrue}

	correctText := "True (T)"
	if !correctTrue {
		correctText = "False (F)"
	}
	if result.IsCorrect {
		result.Explanation = fmt.Sprintf("Correct! The answer is %q.", correctText)
	} else {
		userText := "True (T)"
		if userFalse {
			userText = "False (F)"
		}
		result.Explanation = fmt.Sprintf("You answered %q, but the correct answer is %q.", userText, correctText)
	}
	if question.Analysis != "" {
		result.Explanation += "\n\nAnalysis: " + question.Analysis
	}
	return result
}

func (s *JudgeService) judgeShort(ctx context.Context, question *model.Question, rawAnswer string) model.JudgeResult {
	if len(question.Keywords) == 0 {
		return s.judgeByLLM(ctx, question, rawAnswer)
	}

	lower := strings.ToLower(strings.TrimSpace(rawAnswer))
	var missed []string
	hits := 0
	for _, kw := range question.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			hits++
		} else {
			missed = append(missed, kw)
		}
	}
	ratio := float64(hits) / float64(len(question.Keywords))

	switch {
	case ratio >= keywordCorrectRatio:
		explanation := "Correct! Your answer covers the key points."
		explanation += referenceAnswer(question)
		return model.JudgeResult{IsCorrect: true, Explanation: explanation}

	case ratio < keywordIncorrectRatio:
		explanation := "Your answer misses the key points." + missedKeywordHint(missed)
		explanation += referenceAnswer(question)
		return model.JudgeResult{IsCorrect: false, Explanation: explanation}

	default:
		// Borderline: let the LLM decide, keep the keyword hint in the
		// explanation either way.
		result := s.judgeByLLM(ctx, question, rawAnswer)
		if !result.IsCorrect {
			result.Explanation += missedKeywordHint(missed)
		}
		return result
	}
}

// judgeByLLM asks the judge model for a verdict. The model is prompted to
// lead with "correct" or "incorrect"; the verdict is read from the first
// 50 runes of the reply and the full reply becomes the explanation.
func (s *JudgeService) judgeByLLM(ctx context.Context, question *model.Question, rawAnswer string) model.JudgeResult {
	analysis := question.Analysis
	if analysis == "" {
		analysis = "none"
	}
	prompt := fmt.Sprintf(`You are a fair grader. Judge whether the student's answer is correct using the reference answer and analysis.

Question: %s
Reference answer: %s
Analysis: %s

Student's answer: %s

Start your reply with the single word "correct" or "incorrect", then explain. Be encouraging: acknowledge what is right before pointing out what is missing.`,
		question.Stem, question.Answer, analysis, rawAnswer)

	reply, err := s.llm.Complete(ctx, s.cfg.Models.Judge, []ChatMessage{
		{Role: "system", Content: "You are a professional educational grader who gives fair, encouraging feedback."},
		{Role: "user", Content: prompt},
	}, 0.3)
	if err != nil {
		log.Printf("llm judge failed: %v", err)
		return model.JudgeResult{
			IsCorrect:   false,
			Explanation: genericJudgeExplanation + referenceAnswer(question),
		}
	}

	head := strings.ToLower(firstRunes(reply, 50))
	isCorrect := strings.Contains(head, "correct") && !strings.Contains(head, "incorrect")
	if !isCorrect {
		// Localized verdict form used by some judge models.
		isCorrect = strings.Contains(head, "正确") && !strings.Contains(head, "不正确")
	}
	return model.JudgeResult{IsCorrect: isCorrect, Explanation: reply}
}

func referenceAnswer(question *model.Question) string {
	out := "\n\nReference answer: " + question.Answer
	if question.Analysis != "" {
		out += "\n\nAnalysis: " + question.Analysis
	}
	return out
}

func missedKeywordHint(missed []string) string {
	if len(missed) == 0 {
		return ""
	}
	shown := missed
	suffix := ""
	if len(shown) > 3 {
		shown = shown[:3]
		suffix = ", ..."
	}
	return "\n\nYou may have missed these points: " + strings.Join(shown, ", ") + suffix
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseDigits(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
