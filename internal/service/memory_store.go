package service

import (
	"context"
	"sync"
	"time"

	"quizagent/internal/model"
)

// MemorySessionStore is the reference SessionStore used by tests and by
// local runs without Mongo/Redis. Same semantics as the backed store,
// guarded by a single mutex.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.UserSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*model.UserSession),
	}
}

func (s *MemorySessionStore) Load(ctx context.Context, userID string) (*model.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	return copySession(session), nil
}

func (s *MemorySessionStore) Create(ctx context.Context, userID, personaID string) (*model.UserSession, error) {
	now := time.Now()
	session := &model.UserSession{
		UserID:       userID,
		PersonaID:    personaID,
		Conversation: []model.Message{},
		Mode:         model.ModeChat,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.mu.Lock()
	s.sessions[userID] = copySession(session)
	s.mu.Unlock()
	return session, nil
}

func (s *MemorySessionStore) Save(ctx context.Context, session *model.UserSession) error {
	session.UpdatedAt = time.Now()
	s.mu.Lock()
	s.sessions[session.UserID] = copySession(session)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) AppendMessage(ctx context.Context, userID, role, content, audioURL string) (*model.UserSession, error) {
	return s.mutate(userID, func(session *model.UserSession) {
		msg := model.Message{
			Role:      role,
			Content:   content,
			Timestamp: time.Now(),
		}
		if role == "agent" {
			msg.AudioURL = audioURL
		}
		session.Conversation = append(session.Conversation, msg)
	})
}

func (s *MemorySessionStore) SetMode(ctx context.Context, userID string, mode model.SessionMode) (*model.UserSession, error) {
	return s.mutate(userID, func(session *model.UserSession) {
		session.Mode = mode
	})
}

func (s *MemorySessionStore) SetProgress(ctx context.Context, userID string, progress *model.QuizProgress) (*model.UserSession, error) {
	return s.mutate(userID, func(session *model.UserSession) {
		session.QuizProgress = progress
	})
}

func (s *MemorySessionStore) ClearHistory(ctx context.Context, userID string) (*model.UserSession, error) {
	return s.mutate(userID, func(session *model.UserSession) {
		session.Conversation = []model.Message{}
	})
}

func (s *MemorySessionStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) mutate(userID string, fn func(*model.UserSession)) (*model.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	fn(session)
	session.UpdatedAt = time.Now()
	return copySession(session), nil
}

// copySession makes the stored record independent of caller mutations.
func copySession(in *model.UserSession) *model.UserSession {
	out := *in
	out.Conversation = append([]model.Message(nil), in.Conversation...)
	if in.QuizProgress != nil {
		progress := *in.QuizProgress
		progress.AnsweredQuestions = append([]model.AnsweredQuestion(nil), in.QuizProgress.AnsweredQuestions...)
		out.QuizProgress = &progress
	}
	return &out
}
