package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"quizagent/internal/config"

	"github.com/google/uuid"
)

// TTSClient turns agent text into an audio file reference. An empty URL
// means no audio; it is never an error the user sees.
type TTSClient interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// HTTPTTSClient calls the Volcano-style TTS API and writes the returned
// wav bytes under the audio dir, served at /static/audio/.
type HTTPTTSClient struct {
	config   *config.TTSConfig
	client   *http.Client
	audioDir string
}

func NewHTTPTTSClient(cfg *config.TTSConfig, audioDir string) *HTTPTTSClient {
	return &HTTPTTSClient{
		config:   cfg,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		audioDir: audioDir,
	}
}

func (c *HTTPTTSClient) Synthesize(ctx context.Context, text string) (string, error) {
	if !c.config.IsEnabled() || text == "" {
		return "", nil
	}

	reqID := uuid.New().String()
	payload := map[string]interface{}{
		"app": map[string]string{
			"appid":   c.config.AppID,
			"cluster": c.config.Cluster,
		},
		"user": map[string]string{
			"uid": c.config.AppID,
		},
		"audio": map[string]interface{}{
			"voice_type":   c.config.VoiceType,
			"encoding":     "wav",
			"rate":         24000,
			"speed_ratio":  1.0,
			"volume_ratio": 1.0,
			"pitch_ratio":  1.0,
		},
		"request": map[string]string{
			"reqid":     reqID,
			"text":      text,
			"text_type": "plain",
			"operation": "query",
		},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.APIURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer;"+c.config.AccessToken)

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
		return "", fmt.Errorf("tts request failed: %d", resp.StatusCode)
	}

	var ttsResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"` // base64 wav
	}
	if err := json.Unmarshal(body, &ttsResp); err != nil {
		return "", err
	}
	if ttsResp.Data == "" {
		return "", fmt.Errorf("tts returned no audio: %s", ttsResp.Message)
	}

	audio, err := base64.StdEncoding.DecodeString(ttsResp.Data)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.audioDir, 0o755); err != nil {
		return "", err
	}
	name := reqID + ".wav"
	if err := os.WriteFile(filepath.Join(c.audioDir, name), audio, 0o644); err != nil {
		return "", err
	}
	return "/static/audio/" + name, nil
}

// NoopTTSClient is used when TTS is not configured.
type NoopTTSClient struct{}

func (NoopTTSClient) Synthesize(ctx context.Context, text string) (string, error) {
	return "", nil
}
