package service

import (
	"context"
	"encoding/json"
	"errors"
	"mapmyroute_backend/internal/cache"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache 进程内缓存，与 Redis 实现一样以 JSON 保存
type memCache struct {
	items map[string][]byte
	sets  int
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	b, ok := m.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.items == nil {
		m.items = map[string][]byte{}
	}
	m.items[key] = b
	m.sets++
	return nil
}

var _ cache.Cache = (*memCache)(nil)

func TestParseResourceList(t *testing.T) {
	text := "Sure!\n```json\n[{\"title\":\"Tour of Go\",\"url\":\"https://go.dev/tour\"},{\"title\":\"No link\"}]\n```"
	got, err := ParseResourceList(text)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tour of Go", got[0]["title"])
}

func TestParseResourceListRepairsQuotes(t *testing.T) {
	text := "Here you go: [{'title': 'Docs', 'url': 'https://docs', 'type': 'Free',}] enjoy"
	got, err := ParseResourceList(text)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Free", got[0]["type"])
}

func TestParseResourceListInvalid(t *testing.T) {
	_, err := ParseResourceList("no json here")
	assert.Error(t, err)
}

func TestParseCategorized(t *testing.T) {
	text := "```json\n{\"videos\":[{\"title\":\"A\",\"url\":\"u\"}],\"books\":[]}\n```"
	got := ParseCategorized(text)

	assert.NotContains(t, got, "error")
	for _, key := range ResourceCategories {
		assert.Contains(t, got, key)
	}
	assert.Len(t, got["videos"], 1)
	assert.Len(t, got["online_courses"], 0)
}

func TestParseCategorizedTruncated(t *testing.T) {
	text := "```json\n{\"videos\":[{\"title\":\"A\",\"url\":\"u\"}],\"books\":[{\"title\":\"C\",\"url\":\"w\"}], \"tools\":[{\"title\":\"T\"\n```"
	got := ParseCategorized(text)

	assert.Len(t, got["videos"], 1)
	assert.Len(t, got["books"], 1)
	assert.Len(t, got["tools"], 0)
	msg, ok := got["error"].(string)
	require.True(t, ok)
	assert.Contains(t, msg, "Partial results")
	assert.Contains(t, msg, "Some results may be missing")
	assert.Equal(t, text, got["raw_response"])
}

func TestResourceListBlankTopic(t *testing.T) {
	fake := &testutil.FakeLLM{}
	s := NewResourceService(NewAIServiceWithProvider(fake, config.AIConfig{}), nil)

	out := s.List(context.Background(), "   ")
	assert.Equal(t, []interface{}{}, out["resources"])
	assert.Empty(t, fake.Prompts)
}

func TestResourceListCaches(t *testing.T) {
	fake := &testutil.FakeLLM{Replies: []string{`[{"title":"A","url":"u"}]`}}
	c := &memCache{}
	s := NewResourceService(NewAIServiceWithProvider(fake, config.AIConfig{}), c)

	first := s.List(context.Background(), "Go")
	second := s.List(context.Background(), "go ")
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))
	assert.Len(t, fake.Prompts, 1)
	assert.Equal(t, 1, c.sets)
}

func TestCategorizedAIFailure(t *testing.T) {
	fake := &testutil.FakeLLM{Err: errors.New("quota")}
	c := &memCache{}
	s := NewResourceService(NewAIServiceWithProvider(fake, config.AIConfig{}), c)

	out := s.Categorized(context.Background(), "Go", "")
	assert.Equal(t, "quota", out["error"])
	for _, key := range ResourceCategories {
		assert.Equal(t, []interface{}{}, out[key])
	}
	assert.Zero(t, c.sets)
	assert.Contains(t, fake.Prompts[0], "at Beginner level")
}
