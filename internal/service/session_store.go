package service

import (
	"context"
	"errors"
	"log"
	"time"

	"quizagent/internal/cache"
	"quizagent/internal/model"
	"quizagent/internal/repository"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrProgressNotFound = errors.New("quiz progress not found")
	ErrInvalidState     = errors.New("operation not valid in current quiz state")
)

// SessionStore is the per-user session contract. The core state machine
// depends only on this interface so tests can substitute the in-memory
// implementation.
//
// Load returns (nil, nil) when no session exists for the user; every
// mutating method returns ErrSessionNotFound instead.
type SessionStore interface {
	Load(ctx context.Context, userID string) (*model.UserSession, error)
	Create(ctx context.Context, userID, personaID string) (*model.UserSession, error)
	Save(ctx context.Context, session *model.UserSession) error
	AppendMessage(ctx context.Context, userID, role, content, audioURL string) (*model.UserSession, error)
	SetMode(ctx context.Context, userID string, mode model.SessionMode) (*model.UserSession, error)
	SetProgress(ctx context.Context, userID string, progress *model.QuizProgress) (*model.UserSession, error)
	ClearHistory(ctx context.Context, userID string) (*model.UserSession, error)
	Delete(ctx context.Context, userID string) error
}

// sessionStore pairs the Redis cache with the Mongo user collection.
// Reads hit Redis first; writes go to both. Concurrent writers for the
// same user resolve last-write-wins.
type sessionStore struct {
	users repository.UserRepo
	cache cache.SessionCache
}

func NewSessionStore(users repository.UserRepo, c cache.SessionCache) SessionStore {
	return &sessionStore{users: users, cache: c}
}

func (s *sessionStore) Load(ctx context.Context, userID string) (*model.UserSession, error) {
	session, err := s.cache.Get(ctx, userID)
	if err != nil {
		// Cache trouble is not fatal, fall through to Mongo.
		log.Printf("session cache read failed for %s: %v", userID, err)
	}
	if session != nil {
		return session, nil
	}

	session, err = s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if err := s.cache.Set(ctx, session); err != nil {
		log.Printf("session cache backfill failed for %s: %v", userID, err)
	}
	return session, nil
}

func (s *sessionStore) Create(ctx context.Context, userID, personaID string) (*model.UserSession, error) {
	now := time.Now()
	session := &model.UserSession{
		UserID:       userID,
		PersonaID:    personaID,
		Conversation: []model.Message{},
		Mode:         model.ModeChat,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionStore) Save(ctx context.Context, session *model.UserSession) error {
	session.UpdatedAt = time.Now()
	if err := s.users.Upsert(ctx, session); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, session); err != nil {
		log.Printf("session cache write failed for %s: %v", session.UserID, err)
	}
	return nil
}

func (s *sessionStore) AppendMessage(ctx context.Context, userID, role, content, audioURL string) (*model.UserSession, error) {
	session, err := s.mustLoad(ctx, userID)
	if err != nil {
		return nil, err
	}
	msg := model.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	if role == "agent" {
		msg.AudioURL = audioURL
	}
	session.Conversation = append(session.Conversation, msg)
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionStore) SetMode(ctx context.Context, userID string, mode model.SessionMode) (*model.UserSession, error) {
	session, err := s.mustLoad(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Mode = mode
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionStore) SetProgress(ctx context.Context, userID string, progress *model.QuizProgress) (*model.UserSession, error) {
	session, err := s.mustLoad(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.QuizProgress = progress
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionStore) ClearHistory(ctx context.Context, userID string) (*model.UserSession, error) {
	session, err := s.mustLoad(ctx, userID)
	if err != nil {
		return nil, err
	}
	session.Conversation = []model.Message{}
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	return s.cache.Delete(ctx, userID)
}

func (s *sessionStore) mustLoad(ctx context.Context, userID string) (*model.UserSession, error) {
	session, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
