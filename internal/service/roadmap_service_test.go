package service

import (
	"context"
	"errors"
	"mapmyroute_backend/internal/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoadmap(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	s := NewRoadmapService(e.ai, e.history)
	e.llm.Replies = []string{"```json\n{\"title\":\"Go\",\"description\":\"d\",\"weeks\":[{\"week\":1,\"goals\":[\"a\",\"b\"]}]}\n```"}

	req := RoadmapRequest{Topic: "Go", Level: "beginner", Time: "5 hours", Duration: "4", Goal: "build an API"}
	roadmap, err := s.Generate(context.Background(), u.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Go", roadmap.Title)
	require.Len(t, roadmap.Weeks, 1)
	assert.Equal(t, []string{"a", "b"}, roadmap.Weeks[0].Goals)

	prompt := e.llm.Prompts[0]
	assert.True(t, strings.HasPrefix(prompt, "Generate a 4-week learning roadmap for Go at beginner level."))
	assert.Contains(t, prompt, "5 hours available per week")
	assert.Contains(t, prompt, "The end goal is: build an API.")

	entries, err := e.history.List(u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.HistoryRoadmap, entries[0].Type)
}

func TestGenerateRoadmapAIError(t *testing.T) {
	e := newEnv(t)
	s := NewRoadmapService(e.ai, e.history)
	e.llm.Err = errors.New("timeout")

	_, err := s.Generate(context.Background(), 0, RoadmapRequest{Topic: "Go", Level: "x", Time: "1h", Duration: "2"})
	require.Error(t, err)
	assert.Equal(t, "AI error: timeout", err.Error())
}

func TestRemainingWeeks(t *testing.T) {
	assert.Equal(t, 9, UpdateRoadmapRequest{CurrentWeek: 3}.RemainingWeeks())
	assert.Equal(t, 2, UpdateRoadmapRequest{CurrentWeek: 4, TotalWeeks: 6}.RemainingWeeks())
	assert.Equal(t, 1, UpdateRoadmapRequest{CurrentWeek: 8, TotalWeeks: 6}.RemainingWeeks())
}

func TestUpdateRoadmapAddsCatchUp(t *testing.T) {
	e := newEnv(t)
	s := NewRoadmapService(e.ai, e.history)
	e.llm.Respond = func(prompt string) (string, error) {
		if strings.Contains(prompt, "catch-up") {
			return `{"catch_up_suggestions": ["Review week 2"]}`, nil
		}
		return `{"weekly_plans": [{"week": 1, "topics": ["x"]}]}`, nil
	}

	plan, err := s.Update(context.Background(), 0, UpdateRoadmapRequest{
		CurrentWeek:     2,
		CompletedTasks:  []interface{}{"a"},
		NewHoursPerWeek: 6,
		Topic:           "Go",
		CurrentLevel:    "beginner",
		TotalWeeks:      8,
		ExpectedTasks:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Review week 2"}, plan["catch_up_suggestions"])
	assert.Len(t, plan["weekly_plans"], 1)

	prompt, ok := e.llm.PromptContaining("weekly learning plan")
	require.True(t, ok)
	assert.Contains(t, prompt, "- Duration: 6 weeks")
	assert.Contains(t, prompt, "- Available time: 6 hours per week")
}

func TestUpdateRoadmapOnTrack(t *testing.T) {
	e := newEnv(t)
	s := NewRoadmapService(e.ai, e.history)
	e.llm.Replies = []string{`{"weekly_plans": []}`}

	plan, err := s.Update(context.Background(), 0, UpdateRoadmapRequest{Topic: "Go", ExpectedTasks: 0})
	require.NoError(t, err)
	assert.NotContains(t, plan, "catch_up_suggestions")
	assert.Len(t, e.llm.Prompts, 1)

	e.llm.Replies = nil
	e.llm.Err = errors.New("down")
	_, err = s.Update(context.Background(), 0, UpdateRoadmapRequest{Topic: "Go"})
	assert.EqualError(t, err, "failed to generate plan: down")
}
