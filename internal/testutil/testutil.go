// Package testutil 提供测试共用的内存数据库和假的模型后端
package testutil

import (
	"context"
	"errors"
	"fmt"
	"mapmyroute_backend/internal/llm"
	"mapmyroute_backend/pkg/database"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试独享一个已迁移的内存 SQLite
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

var ErrNoReply = errors.New("fake llm: no reply configured")

// FakeLLM 按顺序返回预设回复；Replies 用完后重复最后一条
type FakeLLM struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Prompts []string
	// Respond 非空时优先使用，便于按提示词内容返回不同结果
	Respond func(prompt string) (string, error)
}

func (f *FakeLLM) Name() string { return "fake" }

func (f *FakeLLM) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var prompt string
	for _, m := range messages {
		if m.Role == llm.RoleUser {
			prompt = m.Content
		}
	}
	f.Prompts = append(f.Prompts, prompt)

	if f.Respond != nil {
		return f.Respond(prompt)
	}
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Replies) == 0 {
		return "", ErrNoReply
	}
	reply := f.Replies[0]
	if len(f.Replies) > 1 {
		f.Replies = f.Replies[1:]
	}
	return reply, nil
}

// PromptContaining 返回第一条包含 substr 的提示词
func (f *FakeLLM) PromptContaining(substr string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Prompts {
		if strings.Contains(p, substr) {
			return p, true
		}
	}
	return "", false
}
