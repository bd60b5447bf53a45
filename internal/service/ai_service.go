package service

import (
	"context"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/llm"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"mapmyroute_backend/pkg/monitoring"
	"mapmyroute_backend/pkg/tracing"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	SystemPathGenerator       = "You are an expert learning path generator."
	SystemLearningCoach       = "You are an expert learning coach."
	SystemResourceRecommender = "You are an expert learning resource recommender."
)

// AIService 包装当前生效的 LLM 后端，配置热更新时整体替换
type AIService struct {
	mu       sync.RWMutex
	provider llm.Provider
	cfg      config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{}
	s.Reload(cfg)
	return s
}

// NewAIServiceWithProvider 直接注入后端，测试中使用
func NewAIServiceWithProvider(p llm.Provider, cfg config.AIConfig) *AIService {
	return &AIService{provider: p, cfg: cfg}
}

// Reload 用新配置重建后端；失败时保留 nil，调用方会得到 ErrAIUnavailable
func (s *AIService) Reload(cfg config.AIConfig) {
	p, err := llm.New(cfg)
	if err != nil {
		logger.Log.Warn("AI provider unavailable",
			zap.String("provider", cfg.Provider),
			zap.Error(err),
		)
		p = nil
	}

	s.mu.Lock()
	s.provider = p
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *AIService) current() (llm.Provider, config.AIConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider, s.cfg
}

// Complete 发送一轮 system + user 对话，返回模型的原始文本
func (s *AIService) Complete(ctx context.Context, system, prompt string, opts llm.Options) (string, error) {
	provider, cfg := s.current()
	if provider == nil {
		monitoring.AIRequests.WithLabelValues("none", "unavailable").Inc()
		return "", util.ErrAIUnavailable
	}

	if cfg.Timeout() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()
	}

	ctx, span := tracing.Tracer.Start(ctx, "llm.chat")
	span.SetAttributes(attribute.String("llm.provider", provider.Name()))
	defer span.End()

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: prompt},
	}

	start := time.Now()
	text, err := provider.Chat(ctx, messages, opts)
	if err != nil {
		monitoring.AIRequests.WithLabelValues(provider.Name(), "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Log.Error("AI completion failed",
			zap.String("provider", provider.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}

	monitoring.AIRequests.WithLabelValues(provider.Name(), "ok").Inc()
	logger.Log.Debug("AI completion",
		zap.String("provider", provider.Name()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}

// CompleteJSON 在 Complete 的基础上剥离代码块并解码到 v，同时返回原始文本
func (s *AIService) CompleteJSON(ctx context.Context, system, prompt string, v interface{}, opts llm.Options) (string, error) {
	text, err := s.Complete(ctx, system, prompt, opts)
	if err != nil {
		return "", err
	}
	if err := llm.ParseJSON(text, v); err != nil {
		return text, err
	}
	return text, nil
}
