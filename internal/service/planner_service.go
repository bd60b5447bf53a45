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
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	RegenerateDeeper = "deeper"
	RegenerateEasier = "easier"
)

type PlannerService struct {
	PlannerRepo *repository.PlannerRepository
	PathRepo    *repository.SkillPathRepository
	Paths       *SkillPathService
	AI          *AIService
}

func NewPlannerService(plannerRepo *repository.PlannerRepository, pathRepo *repository.SkillPathRepository, paths *SkillPathService, ai *AIService) *PlannerService {
	return &PlannerService{
		PlannerRepo: plannerRepo,
		PathRepo:    pathRepo,
		Paths:       paths,
		AI:          ai,
	}
}

type TaskInput struct {
	SkillPathID uint
	Week        int
	Description string
	DueDate     *model.Date
}

// TaskPatch 为 nil 的字段保持不变
type TaskPatch struct {
	Description   *string
	Status        *model.TaskStatus
	DueDate       *model.Date
	RescheduledTo *model.Date
}

// swagger:model ShiftResult
type ShiftResult struct {
	Shifted int    `json:"shifted"`
	Message string `json:"message"`
}

// swagger:model CalendarDay
type CalendarDay struct {
	Date  model.Date          `json:"date"`
	Tasks []model.PlannerTask `json:"tasks"`
}

// swagger:model CalendarWeek
type CalendarWeek struct {
	Start model.Date          `json:"start"`
	End   model.Date          `json:"end"`
	Tasks []model.PlannerTask `json:"tasks"`
}

// CalendarView 按日期分组的任务，以及参考日期所在周和已逾期的任务
// swagger:model CalendarView
type CalendarView struct {
	Date        model.Date          `json:"date"`
	Days        []CalendarDay       `json:"days"`
	Unscheduled []model.PlannerTask `json:"unscheduled"`
	CurrentWeek CalendarWeek        `json:"current_week"`
	Overdue     []model.PlannerTask `json:"overdue"`
}

// swagger:model RegenerateResult
type RegenerateResult struct {
	Week     int      `json:"week"`
	NewGoals []string `json:"new_goals"`
}

func (s *PlannerService) ownedTask(id, userID uint) (*model.PlannerTask, error) {
	task, err := s.PlannerRepo.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *PlannerService) List(pathID, userID uint) ([]model.PlannerTask, error) {
	if _, err := s.Paths.Owned(pathID, userID); err != nil {
		return nil, err
	}
	return s.PlannerRepo.ListByPath(pathID)
}

// Week 返回 week 字段等于 date 的 ISO 周序号的任务
func (s *PlannerService) Week(userID uint, date model.Date) ([]model.PlannerTask, error) {
	_, isoWeek := date.ISOWeek()
	return s.PlannerRepo.ListByUserAndWeek(userID, isoWeek)
}

// Calendar 生成日历视图，pathID 为 0 时包含用户的全部路径
func (s *PlannerService) Calendar(userID, pathID uint, date model.Date) (*CalendarView, error) {
	var (
		tasks []model.PlannerTask
		err   error
	)
	if pathID != 0 {
		tasks, err = s.List(pathID, userID)
	} else {
		tasks, err = s.PlannerRepo.ListByUser(userID)
	}
	if err != nil {
		return nil, err
	}
	return BuildCalendar(tasks, date), nil
}

func BuildCalendar(tasks []model.PlannerTask, date model.Date) *CalendarView {
	weekStart := date.WeekStart()
	weekEnd := weekStart.AddDays(util.DaysPerWeek - 1)

	view := &CalendarView{
		Date:        date,
		Days:        []CalendarDay{},
		Unscheduled: []model.PlannerTask{},
		CurrentWeek: CalendarWeek{Start: weekStart, End: weekEnd, Tasks: []model.PlannerTask{}},
		Overdue:     []model.PlannerTask{},
	}

	byDate := make(map[string]int)
	for _, t := range tasks {
		eff := t.EffectiveDate()
		if eff == nil {
			view.Unscheduled = append(view.Unscheduled, t)
			continue
		}

		key := eff.String()
		idx, ok := byDate[key]
		if !ok {
			idx = len(view.Days)
			byDate[key] = idx
			view.Days = append(view.Days, CalendarDay{Date: *eff})
		}
		view.Days[idx].Tasks = append(view.Days[idx].Tasks, t)

		if !eff.Before(weekStart) && !eff.After(weekEnd) {
			view.CurrentWeek.Tasks = append(view.CurrentWeek.Tasks, t)
		}
		if eff.Before(date) && !t.IsComplete() {
			view.Overdue = append(view.Overdue, t)
		}
	}

	sort.SliceStable(view.Days, func(i, j int) bool {
		return view.Days[i].Date.Before(view.Days[j].Date)
	})
	return view
}

func (s *PlannerService) Create(userID uint, in TaskInput) (*model.PlannerTask, error) {
	if _, err := s.Paths.Owned(in.SkillPathID, userID); err != nil {
		return nil, err
	}
	task := &model.PlannerTask{
		SkillPathID: in.SkillPathID,
		Week:        in.Week,
		Description: in.Description,
		Status:      model.TaskPending,
		DueDate:     in.DueDate,
	}
	if err := s.PlannerRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *PlannerService) Patch(id, userID uint, patch TaskPatch) (*model.PlannerTask, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, util.ErrInvalidStatus
	}
	task, err := s.ownedTask(id, userID)
	if err != nil {
		return nil, err
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.RescheduledTo != nil {
		task.RescheduledTo = patch.RescheduledTo
	}
	if err := s.PlannerRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *PlannerService) Delete(id, userID uint) error {
	task, err := s.ownedTask(id, userID)
	if err != nil {
		return err
	}
	return s.PlannerRepo.Delete(task)
}

// ShiftPending 把该周未完成的任务依次排到路径最晚截止日期之后的每一天
func (s *PlannerService) ShiftPending(userID, pathID uint, week int) (*ShiftResult, error) {
	if _, err := s.Paths.Owned(pathID, userID); err != nil {
		return nil, err
	}

	weekTasks, err := s.PlannerRepo.ListByPathAndWeek(pathID, week)
	if err != nil {
		return nil, err
	}
	if len(weekTasks) == 0 {
		return &ShiftResult{Shifted: 0, Message: "No tasks found for this week."}, nil
	}

	var pending []model.PlannerTask
	for _, t := range weekTasks {
		if !t.IsComplete() {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return &ShiftResult{Shifted: 0, Message: "All tasks in the current week are complete. No pending tasks to shift."}, nil
	}

	all, err := s.PlannerRepo.ListByPath(pathID)
	if err != nil {
		return nil, err
	}
	var latest *model.Date
	for i := range all {
		if d := all[i].DueDate; d != nil && !d.IsZero() && (latest == nil || d.After(*latest)) {
			latest = d
		}
	}
	next := model.Today()
	if latest != nil {
		next = *latest
	}

	for i := range pending {
		next = next.AddDays(1)
		due := next
		pending[i].DueDate = &due
	}
	if err := s.PlannerRepo.SaveDueDates(pending); err != nil {
		return nil, err
	}

	return &ShiftResult{
		Shifted: len(pending),
		Message: fmt.Sprintf("Shifted %d pending tasks to future dates.", len(pending)),
	}, nil
}

// GenerateWeeklyPlan 让模型扩写整条路线；失败时返回已保存的周目标和错误信息
func (s *PlannerService) GenerateWeeklyPlan(ctx context.Context, pathID, userID uint) (map[string]interface{}, error) {
	path, err := s.Paths.Owned(pathID, userID)
	if err != nil {
		return nil, err
	}

	roadmap := path.RawData()
	if roadmap == nil {
		roadmap = map[string]interface{}{}
	}
	roadmapJSON, _ := json.Marshal(roadmap)
	prompt := fmt.Sprintf(
		"Given this skill path roadmap: %s, generate a detailed weekly planner with actionable tasks for each week. "+
			"Respond in JSON as: [{week, goals: [..]}]",
		roadmapJSON,
	)

	var plan interface{}
	if _, err := s.AI.CompleteJSON(ctx, SystemLearningCoach, prompt, &plan, llm.Options{}); err != nil {
		weeks, ok := roadmap["weeks"]
		if !ok {
			weeks = []interface{}{}
		}
		return map[string]interface{}{"weekly_plan": weeks, "error": err.Error()}, nil
	}
	return map[string]interface{}{"weekly_plan": plan}, nil
}

// RegenerateWeek 按 mode 重写某一周的目标，并重建该周的每日任务
func (s *PlannerService) RegenerateWeek(ctx context.Context, userID, pathID uint, week int, mode string) (*RegenerateResult, error) {
	path, err := s.Paths.Owned(pathID, userID)
	if err != nil {
		return nil, err
	}

	roadmap := path.Roadmap()
	target := roadmap.FindWeek(week)
	if target == nil {
		return nil, util.ErrWeekNotFound
	}

	goalsJSON, _ := json.Marshal(target.Goals)
	var prompt string
	if mode == RegenerateDeeper {
		prompt = fmt.Sprintf(
			"Given this learning week for %s: %s, expand and go deeper. "+
				"Break down each goal into more advanced sub-topics or tasks. Respond as a JSON list of new goals.",
			path.Title, goalsJSON,
		)
	} else {
		prompt = fmt.Sprintf(
			"Given this learning week for %s: %s, make it easier and more beginner-friendly. "+
				"Break down each goal into simpler sub-tasks or easier steps. Respond as a JSON list of new goals.",
			path.Title, goalsJSON,
		)
	}

	var raw []interface{}
	if _, err := s.AI.CompleteJSON(ctx, SystemLearningCoach, prompt, &raw, llm.Options{}); err != nil {
		return nil, fmt.Errorf("AI error: %w", err)
	}
	newGoals := model.GoalStrings(raw)

	data := path.RawData()
	setWeekGoals(data, week, newGoals)
	if err := path.SetData(data); err != nil {
		return nil, err
	}

	daily := s.Paths.DailyTasks(ctx, week, newGoals)
	start := model.Today().AddDays((week - 1) * util.DaysPerWeek)
	tasks := scheduleDaily(week, start, daily)
	if err := s.PathRepo.ReplaceWeek(path, week, tasks); err != nil {
		return nil, err
	}

	logger.Log.Info("Week regenerated",
		zap.Uint("skill_path_id", pathID),
		zap.Int("week", week),
		zap.String("mode", mode),
	)
	return &RegenerateResult{Week: week, NewGoals: newGoals}, nil
}

// setWeekGoals 原地修改原始路线数据中对应周的 goals，保留其它字段
func setWeekGoals(data map[string]interface{}, week int, goals []string) {
	weeks, _ := data["weeks"].([]interface{})
	for _, w := range weeks {
		entry, ok := w.(map[string]interface{})
		if !ok {
			continue
		}
		if n, ok := model.WeekNumber(entry["week"]); ok && n == week {
			entry["goals"] = goals
		}
	}
}

