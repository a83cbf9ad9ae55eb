package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"quizagent/internal/config"
	"quizagent/internal/model"

	"github.com/google/uuid"
)

// historyWindow caps how many past messages are sent as LLM context.
const historyWindow = 10

// quizTriggers are matched case-insensitively anywhere in a chat message
// and start a quiz without consulting the classifier.
var quizTriggers = []string{
	"quiz", "test me", "challenge me", "考考我", "出题", "答题",
}

const fallbackChatReply = "Sorry, I lost my train of thought for a moment. Could you say that again?"

// ChatService is the dialog router: it owns session bootstrap, decides
// between chat and quiz handling for every inbound message, and finishes
// each reply with history bookkeeping and optional TTS audio. It never
// mutates quiz progress itself; that is QuizService territory.
type ChatService struct {
	store SessionStore
	llm   LLMClient
	cfg   *config.AIConfig
	tts   TTSClient
	quiz  *QuizService
}

func NewChatService(store SessionStore, llm LLMClient, cfg *config.AIConfig, tts TTSClient, quiz *QuizService) *ChatService {
	return &ChatService{
		store: store,
		llm:   llm,
		cfg:   cfg,
		tts:   tts,
		quiz:  quiz,
	}
}

// CreateSession makes a fresh session with a generated user id and an
// opening greeting from the persona.
func (s *ChatService) CreateSession(ctx context.Context, personaID string) (*model.UserSession, string, error) {
	persona := config.GetPersona(personaID)
	userID := "user_" + uuid.New().String()[:8]

	session, err := s.store.Create(ctx, userID, persona.ID)
	if err != nil {
		return nil, "", err
	}

	greeting := s.greet(ctx, persona)
	audioURL := s.synthesize(ctx, greeting)
	if _, err := s.store.AppendMessage(ctx, userID, "agent", greeting, audioURL); err != nil {
		return nil, "", err
	}
	return session, greeting, nil
}

// HandleMessage routes one user message: to the quiz machine when a run
// is active or requested, to the chat model otherwise.
func (s *ChatService) HandleMessage(ctx context.Context, userID, message, personaID string) (*model.AgentResponse, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session, err = s.store.Create(ctx, userID, config.GetPersona(personaID).ID)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.store.AppendMessage(ctx, userID, "user", message, ""); err != nil {
		return nil, err
	}

	if session.Mode == model.ModeQuiz {
		return s.handleQuizMessage(ctx, userID, message, session)
	}

	if hasQuizTrigger(message) {
		response, err := s.quiz.Start(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.finish(ctx, userID, response)
	}

	response := s.chatReply(ctx, message, session)
	if response.Mode == model.ModeQuiz {
		// The classifier recognized quiz intent the keyword list missed.
		quizResponse, err := s.quiz.Start(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.finish(ctx, userID, quizResponse)
	}
	return s.finish(ctx, userID, response)
}

// handleQuizMessage forwards mid-quiz input. Between questions any message
// advances to the next draw; awaiting an answer it is graded.
func (s *ChatService) handleQuizMessage(ctx context.Context, userID, message string, session *model.UserSession) (*model.AgentResponse, error) {
	progress := session.QuizProgress
	var response *model.AgentResponse
	var err error
	if progress != nil && progress.State == model.QuizStateFeedback {
		response, err = s.quiz.Next(ctx, userID)
	} else {
		response, err = s.quiz.ProcessAnswer(ctx, userID, message)
	}
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, userID, response)
}

// chatReply asks the chat model for a persona-flavored answer. The model
// is prompted for a JSON AgentResponse; plain prose is accepted as the
// fallback branch, and transport failure yields a canned line.
func (s *ChatService) chatReply(ctx context.Context, message string, session *model.UserSession) *model.AgentResponse {
	persona := config.GetPersona(session.PersonaID)

	messages := []ChatMessage{{Role: "system", Content: buildSystemPrompt(persona)}}
	for _, m := range session.RecentMessages(historyWindow) {
		role := "assistant"
		if m.Role == "user" {
			role = "user"
		}
		messages = append(messages, ChatMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	reply, err := s.llm.Complete(ctx, s.cfg.Models.Chat, messages, 0.7)
	if err != nil {
		log.Printf("chat completion failed: %v", err)
		return model.ChatResponse(fallbackChatReply)
	}

	parsed := ParseAgentReply(reply)
	if parsed.Structured {
		return parsed.Response
	}
	return model.ChatResponse(parsed.Raw)
}

// finish appends the agent reply to history and attaches audio. TTS
// failure only costs the audio, never the reply.
func (s *ChatService) finish(ctx context.Context, userID string, response *model.AgentResponse) (*model.AgentResponse, error) {
	response.AudioURL = s.synthesize(ctx, response.Message)
	if _, err := s.store.AppendMessage(ctx, userID, "agent", response.Message, response.AudioURL); err != nil {
		return nil, err
	}
	return response, nil
}

func (s *ChatService) synthesize(ctx context.Context, text string) string {
	audioURL, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		log.Printf("tts failed: %v", err)
		return ""
	}
	return audioURL
}

func (s *ChatService) greet(ctx context.Context, persona config.Persona) string {
	reply, err := s.llm.Complete(ctx, s.cfg.Models.Chat, []ChatMessage{
		{Role: "system", Content: fmt.Sprintf("You are %s. %s Tone: %s", persona.Name, persona.Background, persona.Tone)},
		{Role: "user", Content: "Greet a new user briefly, in character."},
	}, 0.7)
	if err != nil {
		log.Printf("greeting completion failed: %v", err)
		return fmt.Sprintf("Hello! I am %s. Chat with me, or ask me to quiz you!", persona.Name)
	}
	return reply
}

// History returns up to limit recent conversation entries.
func (s *ChatService) History(ctx context.Context, userID string, limit int) ([]model.Message, error) {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if limit <= 0 {
		limit = 20
	}
	return session.RecentMessages(limit), nil
}

// ClearHistory wipes the conversation but keeps mode and progress.
func (s *ChatService) ClearHistory(ctx context.Context, userID string) error {
	_, err := s.store.ClearHistory(ctx, userID)
	return err
}

// DeleteSession removes the session entirely.
func (s *ChatService) DeleteSession(ctx context.Context, userID string) error {
	session, err := s.store.Load(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	return s.store.Delete(ctx, userID)
}

func hasQuizTrigger(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range quizTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

func buildSystemPrompt(persona config.Persona) string {
	return fmt.Sprintf(`You are playing the following character:

Name: %s
Background: %s
Tone: %s
Scope: %s

Stay in character in every reply.

Answer with JSON in this exact shape:
{"mode": "chat" or "quiz", "message": "the text to show the user"}

Use mode "quiz" only when the user clearly asks to be quizzed or tested; otherwise use "chat". Put your whole in-character reply in "message".`,
		persona.Name, persona.Background, persona.Tone, persona.Scope)
}
