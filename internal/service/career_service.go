package service

import (
	"context"
	"errors"
	"fmt"
	"mapmyroute_backend/internal/cache"
	"mapmyroute_backend/internal/jobboard"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"math"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultPostings = 10
	maxPostings     = 50
	salarySample    = 50
)

type CareerService struct {
	Jobs  jobboard.Client
	Cache cache.Cache
	Paths *SkillPathService
}

func NewCareerService(jobs jobboard.Client, c cache.Cache, paths *SkillPathService) *CareerService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CareerService{Jobs: jobs, Cache: c, Paths: paths}
}

// swagger:model SkillScore
type SkillScore struct {
	Postings int `json:"postings"`
	Score    int `json:"score"`
}

// swagger:model SalaryBenchmark
type SalaryBenchmark struct {
	Role     string  `json:"role"`
	Location string  `json:"location"`
	Average  float64 `json:"average"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Samples  int     `json:"samples"`
}

// swagger:model UserSkills
type UserSkills struct {
	Acquired   []string `json:"acquired"`
	InProgress []string `json:"in_progress"`
}

// Categories 未配置招聘接口凭证时退回内置分类
func (s *CareerService) Categories(ctx context.Context) ([]jobboard.Category, error) {
	var cached []jobboard.Category
	if hit, err := s.Cache.Get(ctx, "categories", &cached); err == nil && hit {
		return cached, nil
	}

	cats, err := s.Jobs.Categories(ctx)
	if errors.Is(err, util.ErrJobsUnavailable) {
		return jobboard.StaticCategories, nil
	}
	if err != nil {
		return nil, err
	}
	s.store(ctx, "categories", cats)
	return cats, nil
}

func clampResults(n int) int {
	if n <= 0 {
		return defaultPostings
	}
	if n > maxPostings {
		return maxPostings
	}
	return n
}

func (s *CareerService) search(ctx context.Context, q jobboard.SearchQuery) (*jobboard.SearchResult, error) {
	key := cacheKey("search", q.What, q.Where, fmt.Sprint(q.ResultsPerPage))
	var cached jobboard.SearchResult
	if hit, err := s.Cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	res, err := s.Jobs.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, res)
	return res, nil
}

func (s *CareerService) store(ctx context.Context, key string, value interface{}) {
	if err := s.Cache.Set(ctx, key, value, 0); err != nil {
		logger.Log.Warn("Failed to cache job board response", zap.String("key", key), zap.Error(err))
	}
}

func (s *CareerService) Postings(ctx context.Context, skill, location string, results int) ([]jobboard.Posting, error) {
	res, err := s.search(ctx, jobboard.SearchQuery{
		What:           strings.TrimSpace(skill),
		Where:          strings.TrimSpace(location),
		ResultsPerPage: clampResults(results),
	})
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

// SkillRelevance 每项技能的岗位数，以及相对最多那一项的 0-100 分
func (s *CareerService) SkillRelevance(ctx context.Context, skills []string, location string) (map[string]SkillScore, error) {
	counts := make(map[string]int, len(skills))
	maxCount := 0
	for _, skill := range skills {
		res, err := s.search(ctx, jobboard.SearchQuery{What: skill, Where: location, ResultsPerPage: 1})
		if err != nil {
			return nil, err
		}
		counts[skill] = res.Count
		if res.Count > maxCount {
			maxCount = res.Count
		}
	}
	return RelevanceScores(counts, maxCount), nil
}

func RelevanceScores(counts map[string]int, maxCount int) map[string]SkillScore {
	out := make(map[string]SkillScore, len(counts))
	for skill, n := range counts {
		score := 0
		if maxCount > 0 {
			score = int(math.Round(float64(n) * 100 / float64(maxCount)))
		}
		out[skill] = SkillScore{Postings: n, Score: score}
	}
	return out
}

func (s *CareerService) SalaryBenchmark(ctx context.Context, role, location string) (*SalaryBenchmark, error) {
	res, err := s.search(ctx, jobboard.SearchQuery{What: role, Where: location, ResultsPerPage: salarySample})
	if err != nil {
		return nil, err
	}
	b := BenchmarkSalaries(res.Results)
	b.Role = role
	b.Location = location
	return b, nil
}

// BenchmarkSalaries 只统计带薪资的岗位，单个岗位取区间中点
func BenchmarkSalaries(postings []jobboard.Posting) *SalaryBenchmark {
	b := &SalaryBenchmark{}
	var sum float64
	for _, p := range postings {
		low, high := p.SalaryMin, p.SalaryMax
		if low <= 0 && high <= 0 {
			continue
		}
		if low <= 0 {
			low = high
		}
		if high <= 0 {
			high = low
		}
		if b.Samples == 0 || low < b.Min {
			b.Min = low
		}
		if high > b.Max {
			b.Max = high
		}
		sum += (low + high) / 2
		b.Samples++
	}
	if b.Samples > 0 {
		b.Average = math.Round(sum / float64(b.Samples))
	}
	return b
}

// UserSkills 进度达到 100 的路径视为已掌握
func (s *CareerService) UserSkills(userID uint) (*UserSkills, error) {
	paths, err := s.Paths.PathRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := &UserSkills{Acquired: []string{}, InProgress: []string{}}
	for _, p := range paths {
		progress, err := s.Paths.Progress(p.ID)
		if err != nil {
			return nil, err
		}
		if progress >= 100 {
			out.Acquired = append(out.Acquired, p.Title)
		} else {
			out.InProgress = append(out.InProgress, p.Title)
		}
	}
	return out, nil
}
