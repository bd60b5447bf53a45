package service

import (
	"context"
	"fmt"
	"mapmyroute_backend/internal/llm"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/pkg/logger"

	"go.uber.org/zap"
)

type RoadmapService struct {
	AI      *AIService
	History *HistoryService
}

func NewRoadmapService(ai *AIService, history *HistoryService) *RoadmapService {
	return &RoadmapService{AI: ai, History: history}
}

// RoadmapRequest 生成路线的参数，Time/Duration 保留前端传入的原始字符串
// swagger:model RoadmapRequest
type RoadmapRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Level    string `json:"level" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Duration string `json:"duration" binding:"required"`
	Goal     string `json:"goal"`
}

// swagger:model UpdateRoadmapRequest
type UpdateRoadmapRequest struct {
	CurrentWeek     int           `json:"currentWeek"`
	CompletedTasks  []interface{} `json:"completedTasks"`
	NewHoursPerWeek int           `json:"newHoursPerWeek"`
	Topic           string        `json:"topic"`
	CurrentLevel    string        `json:"currentLevel"`
	TotalWeeks      int           `json:"totalWeeks"`
	ExpectedTasks   int           `json:"expectedTasks"`
}

func roadmapPrompt(req RoadmapRequest) string {
	goalPart := ""
	if req.Goal != "" {
		goalPart = fmt.Sprintf(" The end goal is: %s.", req.Goal)
	}
	return fmt.Sprintf(
		"Generate a %s-week learning roadmap for %s at %s level. "+
			"Assume the learner has %s available per week."+
			"%s "+
			"For each week, list 2-4 specific learning goals or tasks. Respond in JSON as: "+
			"{title, description, weeks: [{week, goals: [..]}]}",
		req.Duration, req.Topic, req.Level, req.Time, goalPart,
	)
}

// Generate 调用模型生成路线；userID 非 0 时记录历史
func (s *RoadmapService) Generate(ctx context.Context, userID uint, req RoadmapRequest) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	if _, err := s.AI.CompleteJSON(ctx, SystemPathGenerator, roadmapPrompt(req), &roadmap, llm.Options{}); err != nil {
		return nil, fmt.Errorf("AI error: %w", err)
	}
	if roadmap.Weeks == nil {
		roadmap.Weeks = []model.RoadmapWeek{}
	}

	s.History.Record(userID, model.HistoryRoadmap, req, roadmap)
	return &roadmap, nil
}

// RemainingWeeks 总周数缺省为 12，至少剩 1 周
func (r UpdateRoadmapRequest) RemainingWeeks() int {
	total := r.TotalWeeks
	if total <= 0 {
		total = 12
	}
	remaining := total - r.CurrentWeek
	if remaining < 1 {
		remaining = 1
	}
	return remaining
}

// Update 按新的每周时长为剩余周数重新生成计划，落后时附带补进度建议
func (s *RoadmapService) Update(ctx context.Context, userID uint, req UpdateRoadmapRequest) (map[string]interface{}, error) {
	remaining := req.RemainingWeeks()
	prompt := fmt.Sprintf(`
Create a detailed weekly learning plan for %s with the following parameters:
- Current level: %s
- Duration: %d weeks
- Available time: %d hours per week

Format the response as a JSON with the following structure:
{
    "weekly_plans": [
        {
            "week": 1,
            "topics": [],
            "estimated_hours": 0,
            "learning_objectives": [],
            "practice_tasks": []
        }
    ]
}
`, req.Topic, req.CurrentLevel, remaining, req.NewHoursPerWeek)

	var plan map[string]interface{}
	if _, err := s.AI.CompleteJSON(ctx, SystemPathGenerator, prompt, &plan, llm.Options{}); err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}
	if plan == nil {
		plan = map[string]interface{}{}
	}

	if len(req.CompletedTasks) < req.ExpectedTasks {
		plan["catch_up_suggestions"] = s.catchUp(ctx, req.Topic)
	}

	s.History.Record(userID, model.HistoryRoadmapUpdate, req, plan)
	return plan, nil
}

func (s *RoadmapService) catchUp(ctx context.Context, topic string) []string {
	prompt := fmt.Sprintf(`
Generate catch-up suggestions for incomplete tasks in %s learning.
Format the response as a JSON object with this structure:
{
    "catch_up_suggestions": [
        "suggestion1",
        "suggestion2"
    ]
}
`, topic)

	var out struct {
		CatchUp []string `json:"catch_up_suggestions"`
	}
	if _, err := s.AI.CompleteJSON(ctx, SystemLearningCoach, prompt, &out, llm.Options{}); err != nil {
		logger.Log.Warn("Failed to generate catch-up suggestions", zap.Error(err))
		return []string{}
	}
	if out.CatchUp == nil {
		return []string{}
	}
	return out.CatchUp
}
