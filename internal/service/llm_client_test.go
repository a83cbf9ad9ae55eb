package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizagent/internal/config"
	"quizagent/internal/model"
)

func TestParseAgentReply(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantStructured bool
		wantMode       model.SessionMode
	}{
		{
			name:           "plain json",
			raw:            `{"mode": "chat", "message": "hello"}`,
			wantStructured: true,
			wantMode:       model.ModeChat,
		},
		{
			name:           "fenced json",
			raw:            "```json\n{\"mode\": \"quiz\", \"message\": \"let us begin\"}\n```",
			wantStructured: true,
			wantMode:       model.ModeQuiz,
		},
		{
			name:           "bare fence",
			raw:            "```\n{\"mode\": \"chat\", \"message\": \"hi\"}\n```",
			wantStructured: true,
			wantMode:       model.ModeChat,
		},
		{
			name: "prose",
			raw:  "Well, hello there! Ribbit!",
		},
		{
			name: "json with unknown mode",
			raw:  `{"mode": "poetry", "message": "roses are red"}`,
		},
		{
			name: "json with empty message",
			raw:  `{"mode": "chat", "message": ""}`,
		},
		{
			name: "empty reply",
			raw:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseAgentReply(tt.raw)
			if parsed.Structured != tt.wantStructured {
				t.Fatalf("ParseAgentReply(%q).Structured = %v, want %v", tt.raw, parsed.Structured, tt.wantStructured)
			}
			if parsed.Raw != tt.raw {
				t.Errorf("Raw = %q, want the original reply", parsed.Raw)
			}
			if tt.wantStructured && parsed.Response.Mode != tt.wantMode {
				t.Errorf("Response.Mode = %q, want %q", parsed.Response.Mode, tt.wantMode)
			}
		})
	}
}

func TestHTTPLLMClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("request path = %q, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}

		var req struct {
			Model    string        `json:"model"`
			Messages []ChatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 2 {
			t.Errorf("request = %+v, want model and both messages", req)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "a fine reply"}},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPLLMClient(&config.AIConfig{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		TimeoutMS: 5000,
	})

	reply, err := client.Complete(context.Background(), "test-model", []ChatMessage{
		{Role: "system", Content: "be nice"},
		{Role: "user", Content: "hello"},
	}, 0.7)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "a fine reply" {
		t.Errorf("Complete = %q, want %q", reply, "a fine reply")
	}
}

func TestHTTPLLMClientErrors(t *testing.T) {
	t.Run("disabled without key", func(t *testing.T) {
		client := NewHTTPLLMClient(&config.AIConfig{TimeoutMS: 5000})
		_, err := client.Complete(context.Background(), "m", nil, 0)
		if !errors.Is(err, ErrLLMDisabled) {
			t.Errorf("Complete without key = %v, want ErrLLMDisabled", err)
		}
	})

	t.Run("upstream error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewHTTPLLMClient(&config.AIConfig{APIKey: "k", BaseURL: server.URL, TimeoutMS: 5000})
		if _, err := client.Complete(context.Background(), "m", nil, 0); err == nil {
			t.Error("Complete with 429 response returned nil error")
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		client := NewHTTPLLMClient(&config.AIConfig{APIKey: "k", BaseURL: server.URL, TimeoutMS: 5000})
		if _, err := client.Complete(context.Background(), "m", nil, 0); err == nil {
			t.Error("Complete with empty choices returned nil error")
		}
	})
}
