package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quizagent/internal/config"
	"quizagent/internal/model"
)

// ChatMessage is one turn in an LLM conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient is the language-model collaborator. Implementations must honor
// the context deadline; callers are responsible for degrading on error.
type LLMClient interface {
	Complete(ctx context.Context, modelName string, messages []ChatMessage, temperature float64) (string, error)
}

var ErrLLMDisabled = errors.New("llm api key not configured")

// HTTPLLMClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPLLMClient struct {
	config *config.AIConfig
	client *http.Client
}

func NewHTTPLLMClient(cfg *config.AIConfig) *HTTPLLMClient {
	return &HTTPLLMClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

func (c *HTTPLLMClient) Complete(ctx context.Context, modelName string, messages []ChatMessage, temperature float64) (string, error) {
	if !c.config.IsEnabled() {
		return "", ErrLLMDisabled
	}

	reqBody := map[string]interface{}{
		"model":       modelName,
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  1000,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.ChatCompletionsEndpoint(), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm request failed: %d %s", resp.StatusCode, string(body))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return completion.Choices[0].Message.Content, nil
}

// ParsedReply is the tagged result of interpreting a model reply.
// Structured replies carry a decoded AgentResponse; everything else
// falls back to the raw text.
type ParsedReply struct {
	Structured bool
	Response   *model.AgentResponse
	Raw        string
}

// ParseAgentReply attempts to decode a model reply as a JSON AgentResponse.
// Models are prompted to answer in JSON but frequently wrap it in markdown
// fences or drop into prose, so any decode failure is the raw-text branch,
// never an error.
func ParseAgentReply(raw string) ParsedReply {
	trimmed := stripCodeFence(strings.TrimSpace(raw))

	var resp model.AgentResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err == nil {
		if (resp.Mode == model.ModeChat || resp.Mode == model.ModeQuiz) && resp.Message != "" {
			return ParsedReply{Structured: true, Response: &resp, Raw: raw}
		}
	}
	return ParsedReply{Structured: false, Raw: raw}
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
