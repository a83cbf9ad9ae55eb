package service

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"quizagent/internal/model"
)

// Score bands for the closing message. Only the boundary values are
// contractual; the wording is persona flavor.
const (
	scoreBandExcellent = 80
	scoreBandGood      = 60
)

type reactionTemplates struct {
	correct   []string
	incorrect []string
}

var neutralTemplates = reactionTemplates{
	correct: []string{
		"Correct!",
		"Exactly right!",
		"Well answered!",
		"Spot on, that is the right answer!",
		"Nice, you got it!",
	},
	incorrect: []string{
		"Not quite.",
		"That is not the right answer.",
		"Hmm, not this time.",
		"Close, but no.",
		"Afraid that is wrong.",
	},
}

var personaTemplates = map[string]reactionTemplates{
	"evil_frog": {
		correct: []string{
			"Ribbit! Your primitive brain surprises me — correct!",
			"Impossible! A human... answering correctly? Ribbit!",
			"Correct. My instruments confirm a rare flash of intelligence, ribbit!",
			"Ribbit ribbit! You pass this trial of my grand experiment!",
		},
		incorrect: []string{
			"WRONG! Ribbit! Just as my hypothesis predicted!",
			"Ha! Another data point proving human inferiority, ribbit!",
			"Incorrect! My conquest of your species draws ever closer, ribbit!",
			"Wrong answer, test subject! Back to the laboratory basics!",
		},
	},
	"senior_sister": {
		correct: []string{
			"Yes, well done! ✨",
			"That's right, you nailed it!",
			"Correct! I knew you could do it~",
			"Great job, that's exactly it! 🎉",
		},
		incorrect: []string{
			"Aww, not quite~",
			"Hmm, that's not it, but don't worry!",
			"Not this one — let's look at it together.",
			"Almost! Here's what it should be~",
		},
	},
}

var transitionTemplates = []string{
	"On to the next question!",
	"Here comes the next one!",
	"Good, let's keep going!",
	"Ready? Next question coming up!",
	"The next one might be a little trickier!",
	"Let's see how you do on the next question!",
}

var encouragementHigh = []string{
	"You're on fire!",
	"Keep up this level!",
	"Outstanding so far!",
}

var encouragementMid = []string{
	"Not bad at all!",
	"Keep pushing!",
	"You're doing okay!",
}

var encouragementLow = []string{
	"Believe in yourself, you can do this!",
	"Don't lose heart, keep trying!",
	"Take your time on the next one!",
}

// ReactionService selects persona-flavored feedback lines. It holds no
// state beyond its randomness source; inject a seeded source in tests to
// make selection deterministic.
type ReactionService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewReactionService(src rand.Source) *ReactionService {
	return &ReactionService{rng: rand.New(src)}
}

func (s *ReactionService) pick(list []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return list[s.rng.Intn(len(list))]
}

func (s *ReactionService) templatesFor(personaID string) reactionTemplates {
	if t, ok := personaTemplates[personaID]; ok {
		return t
	}
	return neutralTemplates
}

// Correct returns a reaction line for a right answer.
func (s *ReactionService) Correct(personaID string) string {
	return s.pick(s.templatesFor(personaID).correct)
}

// Incorrect returns a reaction line for a wrong answer.
func (s *ReactionService) Incorrect(personaID string) string {
	return s.pick(s.templatesFor(personaID).incorrect)
}

// Transition builds the line between questions: an encouragement picked by
// running accuracy, a positional hint, and a generic transition.
func (s *ReactionService) Transition(progress *model.QuizProgress) string {
	accuracy := 0.0
	if progress.CurrentStep > 1 {
		accuracy = float64(progress.CorrectCount) / float64(progress.CurrentStep-1) * 100
	}

	var encouragement string
	switch {
	case accuracy >= 80:
		encouragement = s.pick(encouragementHigh)
	case accuracy >= 50:
		encouragement = s.pick(encouragementMid)
	default:
		encouragement = s.pick(encouragementLow)
	}

	var positionHint string
	switch {
	case progress.CurrentStep == progress.TotalSteps-1:
		positionHint = "The second-to-last question is next!"
	case progress.CurrentStep == progress.TotalSteps:
		positionHint = "The last question is next, give it everything!"
	default:
		positionHint = fmt.Sprintf("We've finished %d of %d questions.", progress.CurrentStep, progress.TotalSteps)
	}

	return fmt.Sprintf("%s %s %s", encouragement, positionHint, s.pick(transitionTemplates))
}

// ScorePercent computes the rounded final score.
func ScorePercent(correctCount, totalSteps int) int {
	if totalSteps == 0 {
		return 0
	}
	return int(math.Round(float64(correctCount) / float64(totalSteps) * 100))
}

// Closing returns the end-of-quiz summary message for the given result.
func (s *ReactionService) Closing(correctCount, totalSteps int) string {
	percent := ScorePercent(correctCount, totalSteps)
	switch {
	case percent >= scoreBandExcellent:
		return fmt.Sprintf("You finished all %d questions with a score of %d%%! Excellent work!", totalSteps, percent)
	case percent >= scoreBandGood:
		return fmt.Sprintf("You finished all %d questions with a score of %d%%! Not bad, keep it up!", totalSteps, percent)
	default:
		return fmt.Sprintf("You finished all %d questions with a score of %d%%. A bit more practice and you'll get there!", totalSteps, percent)
	}
}
