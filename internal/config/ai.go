package config

import "os"

// LLMModels defines which models to use for different tasks
type LLMModels struct {
	// Chat is for persona conversation replies (needs personality, can be slower)
	Chat string `json:"chat"`

	// Judge is for short-answer grading (needs to be deterministic, low temperature)
	Judge string `json:"judge"`

	// Classify is for quiz-intent classification on inbound messages (needs to be fast)
	Classify string `json:"classify"`
}

// AIConfig holds all LLM-related configuration
type AIConfig struct {
	APIKey    string    `json:"-"` // Never serialize
	BaseURL   string    `json:"baseUrl"`
	Models    LLMModels `json:"models"`
	TimeoutMS int       `json:"timeoutMs"`
}

// DefaultAIConfig returns the default LLM configuration. The endpoint is any
// OpenAI-compatible chat completions API (OpenRouter by default).
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("LLM_API_KEY"),
		BaseURL: getEnvOrDefault("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		Models: LLMModels{
			Chat:     getEnvOrDefault("LLM_MODEL_CHAT", "google/gemini-2.5-flash-preview"),
			Judge:    getEnvOrDefault("LLM_MODEL_JUDGE", "google/gemini-2.5-flash-preview"),
			Classify: getEnvOrDefault("LLM_MODEL_CLASSIFY", "google/gemini-2.5-flash-preview"),
		},
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the LLM API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ChatCompletionsEndpoint returns the full chat completions URL
func (c *AIConfig) ChatCompletionsEndpoint() string {
	return c.BaseURL + "/chat/completions"
}

// TTSConfig holds text-to-speech configuration
type TTSConfig struct {
	APIURL      string `json:"apiUrl"`
	AppID       string `json:"-"`
	AccessToken string `json:"-"`
	VoiceType   string `json:"voiceType"`
	Cluster     string `json:"cluster"`
	TimeoutMS   int    `json:"timeoutMs"`
}

// DefaultTTSConfig returns the default TTS configuration
func DefaultTTSConfig() *TTSConfig {
	return &TTSConfig{
		APIURL:      getEnvOrDefault("TTS_API_URL", "https://openspeech.bytedance.com/api/v1/tts"),
		AppID:       os.Getenv("TTS_APP_ID"),
		AccessToken: os.Getenv("TTS_ACCESS_TOKEN"),
		VoiceType:   getEnvOrDefault("TTS_VOICE_TYPE", "BV119_streaming"),
		Cluster:     getEnvOrDefault("TTS_CLUSTER", "volcano_tts"),
		TimeoutMS:   10000,
	}
}

// IsEnabled returns true if the TTS API is configured
func (c *TTSConfig) IsEnabled() bool {
	return c.AppID != "" && c.AccessToken != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
