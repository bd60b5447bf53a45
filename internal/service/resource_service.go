package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mapmyroute_backend/internal/cache"
	"mapmyroute_backend/internal/llm"
	"mapmyroute_backend/pkg/logger"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ResourceCategories 分类资源响应中始终存在的列表
var ResourceCategories = []string{"videos", "video_tutorials", "articles", "courses", "online_courses", "books", "tools"}

var (
	jsonBlockRe         = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	categorizedObjectRe = regexp.MustCompile(`(?s)(\{\s*"videos".*\})`)
)

const truncatedNote = " Some results may be missing due to incomplete data from the AI."

type ResourceService struct {
	AI    *AIService
	Cache cache.Cache
}

func NewResourceService(ai *AIService, c cache.Cache) *ResourceService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ResourceService{AI: ai, Cache: c}
}

func cacheKey(parts ...string) string {
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return strings.Join(parts, ":")
}

// List 返回 {resources: [...]}，只保留带 title 和 url 的条目
func (s *ResourceService) List(ctx context.Context, topic string) map[string]interface{} {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return map[string]interface{}{"resources": []interface{}{}}
	}

	key := cacheKey("list", topic)
	var cached map[string]interface{}
	if hit, err := s.Cache.Get(ctx, key, &cached); err == nil && hit {
		return cached
	}

	prompt := fmt.Sprintf(
		"List the best online resources (courses, videos, articles) for learning %s. "+
			"Include links from Udemy, YouTube, Coursera, freeCodeCamp, and other reputable sites. "+
			"For each, provide: title, url, type (Free/Paid), difficulty, and platform. "+
			`Respond in JSON as [{"title":..., "url":..., "type":..., "difficulty":..., "platform":...}].`,
		topic,
	)

	text, err := s.AI.Complete(ctx, SystemResourceRecommender, prompt, llm.Options{})
	if err != nil {
		return map[string]interface{}{"resources": []interface{}{}, "error": err.Error()}
	}

	resources, err := ParseResourceList(text)
	if err != nil {
		logger.Log.Warn("Failed to parse resource list", zap.String("topic", topic), zap.Error(err))
		return map[string]interface{}{"resources": []interface{}{}, "error": err.Error()}
	}

	result := map[string]interface{}{"resources": resources}
	if err := s.Cache.Set(ctx, key, result, 0); err != nil {
		logger.Log.Warn("Failed to cache resources", zap.Error(err))
	}
	return result
}

// ParseResourceList 从模型回复中提取资源数组，必要时修正引号和尾随逗号
func ParseResourceList(text string) ([]map[string]interface{}, error) {
	jsonStr := llm.ExtractObjectArray(text)

	var parsed interface{}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		if err := json.Unmarshal([]byte(llm.RepairQuotesAndCommas(jsonStr)), &parsed); err != nil {
			return nil, err
		}
	}

	items, ok := parsed.([]interface{})
	if !ok {
		return []map[string]interface{}{}, nil
	}
	filtered := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		_, hasTitle := obj["title"]
		_, hasURL := obj["url"]
		if hasTitle && hasURL {
			filtered = append(filtered, obj)
		}
	}
	return filtered, nil
}

// EmptyCategorized 所有分类都为空列表
func EmptyCategorized() map[string]interface{} {
	out := make(map[string]interface{}, len(ResourceCategories)+1)
	for _, key := range ResourceCategories {
		out[key] = []interface{}{}
	}
	return out
}

// Categorized 按类别推荐资源；模型失败时返回全空列表和 error
func (s *ResourceService) Categorized(ctx context.Context, topic, difficulty string) map[string]interface{} {
	if strings.TrimSpace(difficulty) == "" {
		difficulty = "Beginner"
	}

	key := cacheKey("categorized", topic, difficulty)
	var cached map[string]interface{}
	if hit, err := s.Cache.Get(ctx, key, &cached); err == nil && hit {
		return cached
	}

	prompt := fmt.Sprintf(`
For the topic '%s' at %s level, curate and rank the best resources from across the entire internet. Include:
- Free videos
- Articles
- Premium and free courses
- Books
- Tools
For each resource, provide: title, url, type (Free/Paid), platform/source, and a userRating (1-5) or rank (1=best). Group the response as:
{
  "videos": [{"title":..., "url":..., "type":..., "platform":..., "userRating":...}],
  "articles": [{...}],
  "courses": [{...}],
  "books": [{"title":..., "url":..., "author":..., "userRating":...}],
  "tools": [{...}]
}
Respond in JSON only.
`, topic, difficulty)

	text, err := s.AI.Complete(ctx, SystemResourceRecommender, prompt, llm.Options{MaxTokens: 1000})
	if err != nil {
		out := EmptyCategorized()
		out["error"] = err.Error()
		return out
	}

	result := ParseCategorized(text)
	if _, failed := result["error"]; !failed {
		if err := s.Cache.Set(ctx, key, result, 0); err != nil {
			logger.Log.Warn("Failed to cache categorized resources", zap.Error(err))
		}
	}
	return result
}

// ParseCategorized 清洗、截断并修复模型输出，保证每个分类都是列表
func ParseCategorized(text string) map[string]interface{} {
	var jsonStr string
	if m := jsonBlockRe.FindStringSubmatch(text); m != nil {
		jsonStr = m[1]
	} else if m := categorizedObjectRe.FindStringSubmatch(text); m != nil {
		jsonStr = m[1]
	} else {
		jsonStr = text
	}

	jsonStr = llm.CleanJSONString(jsonStr)
	jsonStr, truncated := llm.TruncateToLastComplete(jsonStr)
	jsonStr = llm.KeepFlatObjects(jsonStr)

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil || result == nil {
		logger.Log.Warn("Failed to parse categorized resources, recovering arrays", zap.Error(err))
		result = map[string]interface{}{}
		for key, items := range llm.RecoverArrays(jsonStr, ResourceCategories) {
			result[key] = items
		}
		result["error"] = "Partial results: failed to parse full response, but some arrays were recovered."
		result["raw_response"] = text
	}

	for _, key := range ResourceCategories {
		if _, ok := result[key].([]interface{}); ok {
			continue
		}
		if _, ok := result[key].([]map[string]interface{}); ok {
			continue
		}
		result[key] = []interface{}{}
	}

	if truncated {
		prev, _ := result["error"].(string)
		result["error"] = prev + truncatedNote
	}
	return result
}
