package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"quizagent/internal/model"
	"quizagent/internal/repository"
)

// defaultQuestionTypes is the fallback order tried when the required type
// has no unseen questions left.
var defaultQuestionTypes = []model.QuestionType{
	model.QuestionTypeTrueFalse,
	model.QuestionTypeChoice,
	model.QuestionTypeShort,
}

// fallbackQuestions are synthesized stand-ins used when every type in the
// bank is exhausted. A benign default question beats stalling the quiz.
var fallbackQuestions = map[string]*model.Question{
	"fallback-tf": {
		ID:     "fallback-tf",
		Type:   model.QuestionTypeTrueFalse,
		Stem:   "The sun rises in the east.",
		Answer: model.AnswerTrue,
	},
	"fallback-choice": {
		ID:      "fallback-choice",
		Type:    model.QuestionTypeChoice,
		Stem:    "How many days are there in a week?",
		Options: []string{"Five", "Six", "Seven", "Eight"},
		Answer:  "C",
	},
	"fallback-short": {
		ID:       "fallback-short",
		Type:     model.QuestionTypeShort,
		Stem:     "Name any one of the four seasons of the year.",
		Answer:   "Spring, summer, autumn or winter.",
		Keywords: []string{"spring", "summer", "autumn", "fall", "winter"},
	},
}

// QuizService drives a user through a fixed-length quiz: one true/false
// question, one choice question, then short-answer questions until
// totalSteps is reached. It owns every mutation of QuizProgress.
type QuizService struct {
	questions repository.QuestionRepo
	store     SessionStore
	judge     *JudgeService
	reactions *ReactionService

	totalQuestions int
}

func NewQuizService(questions repository.QuestionRepo, store SessionStore, judge *JudgeService, reactions *ReactionService, totalQuestions int) *QuizService {
	if totalQuestions <= 0 {
		totalQuestions = 3
	}
	return &QuizService{
		questions:      questions,
		store:          store,
		judge:          judge,
		reactions:      reactions,
		totalQuestions: totalQuestions,
	}
}

// Start begins a quiz run with the configured number of questions.
func (s *QuizService) Start(ctx context.Context, userID string) (*model.AgentResponse, error) {
	return s.StartWithTotal(ctx, userID, s.totalQuestions)
}

// StartWithTotal begins a quiz run with a caller-chosen length. Starting
// while a run is active resets it.
func (s *QuizService) StartWithTotal(ctx context.Context, userID string, totalSteps int) (*model.AgentResponse, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if totalSteps <= 0 {
		totalSteps = s.totalQuestions
	}

	progress := &model.QuizProgress{
		CurrentStep:       1,
		TotalSteps:        totalSteps,
		CorrectCount:      0,
		State:             model.QuizStateInit,
		AnsweredQuestions: []model.AnsweredQuestion{},
	}

	if _, err := s.store.SetMode(ctx, userID, model.ModeQuiz); err != nil {
		return nil, err
	}
	if _, err := s.store.SetProgress(ctx, userID, progress); err != nil {
		return nil, err
	}

	return s.Next(ctx, userID)
}

// Next draws the question for the current step and moves the run into the
// await-answer state. Past the last step it delegates to End.
func (s *QuizService) Next(ctx context.Context, userID string) (*model.AgentResponse, error) {
	progress, err := s.loadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	if progress.CurrentStep > progress.TotalSteps {
		return s.End(ctx, userID)
	}

	questionType := requiredType(progress.CurrentStep)
	question := s.draw(ctx, questionType, progress.AnsweredIDs())
	if question == nil {
		// Required type exhausted: try the remaining types in order.
		for _, backup := range defaultQuestionTypes {
			if backup == questionType {
				continue
			}
			if question = s.draw(ctx, backup, progress.AnsweredIDs()); question != nil {
				questionType = backup
				break
			}
		}
	}
	if question == nil {
		question = fallbackQuestions["fallback-"+string(questionType)]
		log.Printf("question bank exhausted for user %s, using fallback %s", userID, question.ID)
	}

	progress.CurrentQuestionID = question.ID
	progress.State = model.QuizStateAwaitAnswer
	if _, err := s.store.SetProgress(ctx, userID, progress); err != nil {
		return nil, err
	}

	info := &model.QuizInfo{
		Step:         progress.CurrentStep,
		TotalSteps:   progress.TotalSteps,
		QuestionType: question.Type,
		QuestionID:   question.ID,
		QuestionText: question.Stem,
		Options:      question.Options,
	}
	return model.QuizResponse(renderQuestion(progress, question), info), nil
}

// ProcessAnswer grades the pending question, records the outcome and
// either presents feedback or, after the last step, finalizes the run.
func (s *QuizService) ProcessAnswer(ctx context.Context, userID, rawAnswer string) (*model.AgentResponse, error) {
	progress, err := s.loadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if progress.State == model.QuizStateEnd || progress.CurrentQuestionID == "" {
		return nil, ErrInvalidState
	}

	question, err := s.questions.GetByID(ctx, progress.CurrentQuestionID)
	if err != nil {
		log.Printf("question lookup failed for %s: %v", progress.CurrentQuestionID, err)
	}
	if question == nil {
		question = fallbackQuestions[progress.CurrentQuestionID]
	}
	if question == nil {
		// The pending question vanished from the bank. Skip to a fresh
		// draw for the same step instead of failing the session.
		log.Printf("pending question %s missing, redrawing for user %s", progress.CurrentQuestionID, userID)
		progress.CurrentQuestionID = ""
		if _, err := s.store.SetProgress(ctx, userID, progress); err != nil {
			return nil, err
		}
		return s.Next(ctx, userID)
	}

	result := s.judge.Judge(ctx, question, rawAnswer)

	if result.IsCorrect {
		progress.CorrectCount++
	}
	progress.AnsweredQuestions = append(progress.AnsweredQuestions, model.AnsweredQuestion{
		QuestionID: question.ID,
		UserAnswer: rawAnswer,
		IsCorrect:  result.IsCorrect,
	})

	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	personaID := ""
	if session != nil {
		personaID = session.PersonaID
	}

	var reaction string
	if result.IsCorrect {
		reaction = s.reactions.Correct(personaID)
	} else {
		reaction = s.reactions.Incorrect(personaID)
	}
	feedback := reaction + "\n" + result.Explanation

	answeredStep := progress.CurrentStep
	progress.CurrentStep++
	progress.CurrentQuestionID = ""

	info := &model.QuizInfo{
		Step:          answeredStep,
		TotalSteps:    progress.TotalSteps,
		QuestionType:  question.Type,
		QuestionID:    question.ID,
		QuestionText:  question.Stem,
		Options:       question.Options,
		UserAnswer:    rawAnswer,
		CorrectAnswer: question.Answer,
		Feedback:      feedback,
	}

	if progress.CurrentStep <= progress.TotalSteps {
		progress.State = model.QuizStateFeedback
		if _, err := s.store.SetProgress(ctx, userID, progress); err != nil {
			return nil, err
		}
		message := feedback + "\n\n" + s.reactions.Transition(progress) + "\nSay \"next\" when you are ready."
		return model.QuizResponse(message, info), nil
	}

	// Last question answered: record the terminal state, then finalize
	// immediately so the caller gets the score without an extra round-trip.
	progress.State = model.QuizStateEnd
	if _, err := s.store.SetProgress(ctx, userID, progress); err != nil {
		return nil, err
	}

	closing := s.reactions.Closing(progress.CorrectCount, progress.TotalSteps)
	if err := s.finalize(ctx, userID); err != nil {
		return nil, err
	}
	return model.ChatResponse(feedback + "\n\n" + closing), nil
}

// End computes the score summary, reverts the session to chat mode and
// clears progress.
func (s *QuizService) End(ctx context.Context, userID string) (*model.AgentResponse, error) {
	progress, err := s.loadProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	closing := s.reactions.Closing(progress.CorrectCount, progress.TotalSteps)
	if err := s.finalize(ctx, userID); err != nil {
		return nil, err
	}
	return model.ChatResponse(closing), nil
}

func (s *QuizService) finalize(ctx context.Context, userID string) error {
	if _, err := s.store.SetMode(ctx, userID, model.ModeChat); err != nil {
		return err
	}
	_, err := s.store.SetProgress(ctx, userID, nil)
	return err
}

func (s *QuizService) loadProgress(ctx context.Context, userID string) (*model.QuizProgress, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.QuizProgress == nil {
		return nil, ErrProgressNotFound
	}
	return session.QuizProgress, nil
}

// draw fetches one random unseen question of the given type, discarding
// records that fail validation.
func (s *QuizService) draw(ctx context.Context, questionType model.QuestionType, excludeIDs []string) *model.Question {
	question, err := s.questions.Draw(ctx, questionType, excludeIDs)
	if err != nil {
		log.Printf("question draw failed for type %s: %v", questionType, err)
		return nil
	}
	if question == nil {
		return nil
	}
	if err := question.Validate(); err != nil {
		log.Printf("question %s unusable: %v", question.ID, err)
		return nil
	}
	return question
}

// requiredType is the fixed type order: true/false first, then choice,
// then short answers for every remaining step.
func requiredType(step int) model.QuestionType {
	switch step {
	case 1:
		return model.QuestionTypeTrueFalse
	case 2:
		return model.QuestionTypeChoice
	default:
		return model.QuestionTypeShort
	}
}

func renderQuestion(progress *model.QuizProgress, question *model.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question %d/%d: %s", progress.CurrentStep, progress.TotalSteps, question.Stem)
	if question.Type == model.QuestionTypeTrueFalse {
		b.WriteString(" (True or False?)")
	}
	for i, option := range question.Options {
		fmt.Fprintf(&b, "\n%c. %s", 'A'+i, option)
	}
	return b.String()
}
