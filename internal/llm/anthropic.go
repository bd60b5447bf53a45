package llm

import (
	"context"
	"fmt"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/util"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int
	temp      float64
}

func NewAnthropic(cfg config.AIConfig) (*Anthropic, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, util.ErrAIUnavailable
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	// 默认的 base_url 指向 Groq，只有显式配置成 Anthropic 地址时才覆盖
	if strings.Contains(cfg.BaseURL, "anthropic") {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		temp:      cfg.Temperature,
	}, nil
}

func (a *Anthropic) Name() string {
	return ProviderAnthropic
}

func (a *Anthropic) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	system, rest := splitSystem(messages)

	params := make([]anthropic.MessageParam, 0, len(rest))
	for _, m := range rest {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params = append(params, anthropic.NewAssistantMessage(block))
		} else {
			params = append(params, anthropic.NewUserMessage(block))
		}
	}

	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		Messages:  params,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = int64(opts.MaxTokens)
	}
	if system != "" {
		req.System = []anthropic.TextBlockParam{{Text: system}}
	}
	temp := a.temp
	if opts.Temperature != nil {
		temp = *opts.Temperature
	}
	req.Temperature = anthropic.Float(temp)

	msg, err := a.client.Messages.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var reply strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			reply.WriteString(text.Text)
		}
	}
	if reply.Len() == 0 {
		return "", util.ErrAIEmptyResponse
	}
	return strings.TrimSpace(reply.String()), nil
}
