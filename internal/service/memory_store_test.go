package service

import (
	"context"
	"errors"
	"testing"

	"quizagent/internal/model"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	if session, err := store.Load(ctx, "u1"); err != nil || session != nil {
		t.Fatalf("Load before create = (%v, %v), want (nil, nil)", session, err)
	}

	created, err := store.Create(ctx, "u1", "evil_frog")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Mode != model.ModeChat || created.PersonaID != "evil_frog" {
		t.Fatalf("created session = %+v, want chat mode with persona", created)
	}

	if _, err := store.AppendMessage(ctx, "u1", "user", "hello", ""); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	session, err := store.AppendMessage(ctx, "u1", "agent", "hi there", "/static/audio/x.wav")
	if err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	if len(session.Conversation) != 2 {
		t.Fatalf("conversation has %d entries, want 2", len(session.Conversation))
	}
	if session.Conversation[1].AudioURL != "/static/audio/x.wav" {
		t.Errorf("agent message lost its audio url: %+v", session.Conversation[1])
	}

	if _, err := store.SetMode(ctx, "u1", model.ModeQuiz); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	progress := &model.QuizProgress{CurrentStep: 1, TotalSteps: 3, State: model.QuizStateInit}
	if _, err := store.SetProgress(ctx, "u1", progress); err != nil {
		t.Fatalf("SetProgress: %v", err)
	}

	session, _ = store.Load(ctx, "u1")
	if session.Mode != model.ModeQuiz || session.QuizProgress == nil {
		t.Fatalf("loaded session = %+v, want quiz mode with progress", session)
	}

	if _, err := store.ClearHistory(ctx, "u1"); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	session, _ = store.Load(ctx, "u1")
	if len(session.Conversation) != 0 {
		t.Errorf("ClearHistory left %d messages", len(session.Conversation))
	}
	if session.Mode != model.ModeQuiz || session.QuizProgress == nil {
		t.Errorf("ClearHistory touched mode or progress: %+v", session)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if session, _ := store.Load(ctx, "u1"); session != nil {
		t.Errorf("session survived Delete: %+v", session)
	}
}

func TestMemoryStoreMutatingMissingSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	if _, err := store.AppendMessage(ctx, "ghost", "user", "boo", ""); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("AppendMessage on missing session = %v, want ErrSessionNotFound", err)
	}
	if _, err := store.SetMode(ctx, "ghost", model.ModeQuiz); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SetMode on missing session = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStoreLoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	if _, err := store.Create(ctx, "u1", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.SetProgress(ctx, "u1", &model.QuizProgress{CurrentStep: 1, TotalSteps: 3}); err != nil {
		t.Fatalf("SetProgress: %v", err)
	}

	first, _ := store.Load(ctx, "u1")
	first.QuizProgress.CurrentStep = 99
	first.Conversation = append(first.Conversation, model.Message{Role: "user", Content: "rogue"})

	second, _ := store.Load(ctx, "u1")
	if second.QuizProgress.CurrentStep != 1 {
		t.Errorf("mutating a loaded session leaked into the store: step = %d", second.QuizProgress.CurrentStep)
	}
	if len(second.Conversation) != 0 {
		t.Errorf("mutating a loaded conversation leaked into the store")
	}
}
