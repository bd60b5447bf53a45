package llm

import (
	"context"
	"fmt"
	"mapmyroute_backend/internal/config"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options 单次调用的生成参数，零值表示使用 Provider 的默认值
type Options struct {
	MaxTokens   int
	Temperature *float64
}

// Provider 抽象了一个聊天补全后端
type Provider interface {
	Name() string
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}

// New 根据配置构造 Provider
func New(cfg config.AIConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderOpenAI, "groq", "":
		return NewOpenAICompatible(cfg)
	case ProviderGemini:
		return NewGemini(cfg)
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
}

// splitSystem 把 system 消息合并为一段提示词，供不支持 system 角色的 API 使用
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
