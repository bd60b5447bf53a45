package service

import (
	"context"
	"fmt"
	"mapmyroute_backend/internal/llm"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/internal/util"
	"math"
)

type AnalyticsService struct {
	PlannerRepo  *repository.PlannerRepository
	PathRepo     *repository.SkillPathRepository
	TrackingRepo *repository.TimeTrackingRepository
	ProgressRepo *repository.ProgressRepository
	Paths        *SkillPathService
	AI           *AIService
}

func NewAnalyticsService(
	plannerRepo *repository.PlannerRepository,
	pathRepo *repository.SkillPathRepository,
	trackingRepo *repository.TimeTrackingRepository,
	progressRepo *repository.ProgressRepository,
	paths *SkillPathService,
	ai *AIService,
) *AnalyticsService {
	return &AnalyticsService{
		PlannerRepo:  plannerRepo,
		PathRepo:     pathRepo,
		TrackingRepo: trackingRepo,
		ProgressRepo: progressRepo,
		Paths:        paths,
		AI:           ai,
	}
}

// swagger:model Analytics
type Analytics struct {
	TotalTasks      int64   `json:"total_tasks"`
	Completed       int64   `json:"completed"`
	Pending         int64   `json:"pending"`
	Deferred        int64   `json:"deferred"`
	PercentComplete float64 `json:"percent_complete"`
	TimeSpentHours  int64   `json:"time_spent_hours"`
}

// swagger:model Dashboard
type Dashboard struct {
	SkillPaths     int     `json:"skill_paths"`
	TotalTasks     int     `json:"total_tasks"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	Deferred       int     `json:"deferred"`
	CompletionRate float64 `json:"completion_rate"`
	TimeSpentHours int     `json:"time_spent_hours"`
	DueToday       int     `json:"due_today"`
	Overdue        int     `json:"overdue"`

	// TotalHoursSpent 来自已结束的计时，保留两位小数
	TotalHoursSpent float64               `json:"total_hours_spent"`
	RecentProgress  []model.ProgressEntry `json:"recent_progress"`
}

func (s *AnalyticsService) Stats(pathID, userID uint) (*Analytics, error) {
	if _, err := s.Paths.Owned(pathID, userID); err != nil {
		return nil, err
	}
	counts, err := s.PlannerRepo.CountByStatus(pathID)
	if err != nil {
		return nil, err
	}

	var percent float64
	if counts.Total > 0 {
		percent = float64(counts.Completed) / float64(counts.Total) * 100
	}
	return &Analytics{
		TotalTasks:      counts.Total,
		Completed:       counts.Completed,
		Pending:         counts.Pending,
		Deferred:        counts.Deferred,
		PercentComplete: percent,
		TimeSpentHours:  counts.Completed * util.HoursPerCompletedTask,
	}, nil
}

// Suggestions 基于统计数据让模型给出 3 条建议；模型失败时返回空列表和错误信息
func (s *AnalyticsService) Suggestions(ctx context.Context, pathID, userID uint) (map[string]interface{}, error) {
	stats, err := s.Stats(pathID, userID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Here are my learning stats: %d completed, %d pending, %d deferred, %.1f%% complete, %d hours spent. "+
			"Give me 3 specific, actionable suggestions to improve my learning progress.",
		stats.Completed, stats.Pending, stats.Deferred, stats.PercentComplete, stats.TimeSpentHours,
	)

	text, err := s.AI.Complete(ctx, SystemLearningCoach, prompt, llm.Options{MaxTokens: 300})
	if err != nil {
		return map[string]interface{}{"suggestions": []string{}, "error": err.Error()}, nil
	}
	return map[string]interface{}{"suggestions": text}, nil
}

// Dashboard 汇总用户全部路径的任务、计时与最近进度
func (s *AnalyticsService) Dashboard(userID uint, today model.Date) (*Dashboard, error) {
	paths, err := s.PathRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.PlannerRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{SkillPaths: len(paths), TotalTasks: len(tasks)}
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case model.TaskComplete:
			d.Completed++
		case model.TaskDeferred:
			d.Deferred++
		default:
			d.Pending++
		}
		if t.IsComplete() {
			continue
		}
		if eff := t.EffectiveDate(); eff != nil {
			if eff.Equal(today) {
				d.DueToday++
			} else if eff.Before(today) {
				d.Overdue++
			}
		}
	}
	if d.TotalTasks > 0 {
		d.CompletionRate = math.Round(float64(d.Completed)/float64(d.TotalTasks)*10000) / 100
	}
	d.TimeSpentHours = d.Completed * util.HoursPerCompletedTask

	minutes, err := s.TrackingRepo.TotalMinutes(userID)
	if err != nil {
		return nil, err
	}
	d.TotalHoursSpent = math.Round(float64(minutes)/60*100) / 100

	d.RecentProgress, err = s.ProgressRepo.Recent(userID, util.RecentProgressLimit)
	if err != nil {
		return nil, err
	}
	if d.RecentProgress == nil {
		d.RecentProgress = []model.ProgressEntry{}
	}
	return d, nil
}
