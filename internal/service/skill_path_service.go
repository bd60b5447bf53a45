package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mapmyroute_backend/internal/llm"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SkillPathService struct {
	PathRepo    *repository.SkillPathRepository
	PlannerRepo *repository.PlannerRepository
	AI          *AIService
}

func NewSkillPathService(pathRepo *repository.SkillPathRepository, plannerRepo *repository.PlannerRepository, ai *AIService) *SkillPathService {
	return &SkillPathService{
		PathRepo:    pathRepo,
		PlannerRepo: plannerRepo,
		AI:          ai,
	}
}

// SkillPathView 学习路径的对外表示，Data 为用户保存的原始路线
// swagger:model SkillPathView
type SkillPathView struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data"`
	CreatedAt   time.Time              `json:"created_at"`
	Progress    *int                   `json:"progress,omitempty"`
	HoursSpent  int                    `json:"total_hours_spent"`
}

type SkillPathUpdate struct {
	Title       *string
	Description *string
	Data        map[string]interface{}
}

func viewOf(p *model.SkillPath, data map[string]interface{}) SkillPathView {
	return SkillPathView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Data:        data,
		CreatedAt:   p.CreatedAt,
		HoursSpent:  p.TotalHoursSpent,
	}
}

// Owned 查找属于该用户的路径，找不到时返回 ErrSkillPathNotFound
func (s *SkillPathService) Owned(id, userID uint) (*model.SkillPath, error) {
	path, err := s.PathRepo.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillPathNotFound
		}
		return nil, err
	}
	return path, nil
}

// Progress 已完成任务占比的整数百分比，没有任务时为 0
func (s *SkillPathService) Progress(pathID uint) (int, error) {
	counts, err := s.PlannerRepo.CountByStatus(pathID)
	if err != nil {
		return 0, err
	}
	if counts.Total == 0 {
		return 0, nil
	}
	return int(counts.Completed * 100 / counts.Total), nil
}

func (s *SkillPathService) List(userID uint) ([]SkillPathView, error) {
	paths, err := s.PathRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]SkillPathView, 0, len(paths))
	for i := range paths {
		progress, err := s.Progress(paths[i].ID)
		if err != nil {
			return nil, err
		}
		view := viewOf(&paths[i], paths[i].RawData())
		view.Progress = &progress
		views = append(views, view)
	}
	return views, nil
}

func (s *SkillPathService) Get(id, userID uint) (*SkillPathView, error) {
	path, err := s.Owned(id, userID)
	if err != nil {
		return nil, err
	}
	view := viewOf(path, path.SafeData())
	return &view, nil
}

// Create 保存路径，并为每一周生成 7 个每日任务
func (s *SkillPathService) Create(ctx context.Context, userID uint, title, description string, data map[string]interface{}) (*SkillPathView, error) {
	path := &model.SkillPath{
		UserID:      userID,
		Title:       title,
		Description: description,
	}
	if err := path.SetData(data); err != nil {
		return nil, err
	}

	today := model.Today()
	var tasks []model.PlannerTask
	for _, week := range path.Roadmap().Weeks {
		if week.Week < 1 {
			logger.Log.Warn("Skipping roadmap week without a valid number", zap.Int("week", week.Week))
			continue
		}
		daily := s.DailyTasks(ctx, week.Week, week.Goals)
		start := today.AddDays((week.Week - 1) * util.DaysPerWeek)
		tasks = append(tasks, scheduleDaily(week.Week, start, daily)...)
	}

	if err := s.PathRepo.CreateWithTasks(path, tasks); err != nil {
		return nil, err
	}

	logger.Log.Info("Skill path created",
		zap.Uint("user_id", userID),
		zap.Uint("skill_path_id", path.ID),
		zap.Int("tasks", len(tasks)),
	)
	view := viewOf(path, data)
	return &view, nil
}

func (s *SkillPathService) Update(id, userID uint, upd SkillPathUpdate) (*SkillPathView, error) {
	path, err := s.Owned(id, userID)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		path.Title = *upd.Title
	}
	if upd.Description != nil {
		path.Description = *upd.Description
	}
	if upd.Data != nil {
		if err := path.SetData(upd.Data); err != nil {
			return nil, err
		}
	}
	if err := s.PathRepo.Update(path); err != nil {
		return nil, err
	}
	view := viewOf(path, path.RawData())
	return &view, nil
}

func (s *SkillPathService) Delete(id, userID uint) error {
	path, err := s.Owned(id, userID)
	if err != nil {
		return err
	}
	return s.PathRepo.Delete(path)
}

// DailyTasks 让模型把一周的目标拆成 7 个每日任务，失败时轮流复用目标
func (s *SkillPathService) DailyTasks(ctx context.Context, week int, goals []string) []string {
	goalsJSON, _ := json.Marshal(goals)
	prompt := fmt.Sprintf(
		"Given these goals for Week %d: %s, break them down into 7 daily tasks (one for each day, Monday to Sunday). "+
			"Respond as a JSON list of 7 strings.",
		week, goalsJSON,
	)

	var daily []string
	_, err := s.AI.CompleteJSON(ctx, SystemLearningCoach, prompt, &daily, llm.Options{})
	if err == nil && len(daily) == util.DaysPerWeek {
		return daily
	}
	if err == nil {
		err = fmt.Errorf("expected %d daily tasks, got %d", util.DaysPerWeek, len(daily))
	}
	logger.Log.Warn("Falling back to goal rotation for daily tasks",
		zap.Int("week", week),
		zap.Error(err),
	)
	return fallbackDaily(goals)
}

func fallbackDaily(goals []string) []string {
	daily := make([]string, util.DaysPerWeek)
	for i := range daily {
		if len(goals) > 0 {
			daily[i] = goals[i%len(goals)]
		} else {
			daily[i] = fmt.Sprintf("Task %d", i+1)
		}
	}
	return daily
}

// scheduleDaily 第 i 个任务的截止日期为 start + i 天
func scheduleDaily(week int, start model.Date, daily []string) []model.PlannerTask {
	tasks := make([]model.PlannerTask, 0, len(daily))
	for i, desc := range daily {
		due := start.AddDays(i)
		tasks = append(tasks, model.PlannerTask{
			Week:        week,
			Description: desc,
			Status:      model.TaskPending,
			DueDate:     &due,
		})
	}
	return tasks
}
