package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/util"
	"net/http"
	"strings"
)

// OpenAICompatible 调用 /chat/completions 接口，Groq 等兼容服务均可使用
type OpenAICompatible struct {
	config config.AIConfig
	client *http.Client
}

func NewOpenAICompatible(cfg config.AIConfig) (*OpenAICompatible, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, util.ErrAIUnavailable
	}
	return &OpenAICompatible{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}, nil
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAICompatible) Name() string {
	return ProviderOpenAI
}

func (p *OpenAICompatible) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		MaxTokens:   p.config.MaxTokens,
		Temperature: opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}
	if reqBody.Temperature == nil {
		t := p.config.Temperature
		reqBody.Temperature = &t
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(p.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", util.ErrAIEmptyResponse
	}
	return result.Choices[0].Message.Content, nil
}
