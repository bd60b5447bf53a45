package service

import (
	"context"
	"errors"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/util"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftPendingMessages(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go"},
		task(1, "done", model.TaskComplete, date(t, "2024-01-01")),
	)

	res, err := e.planner.ShiftPending(u.ID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, &ShiftResult{Shifted: 0, Message: "No tasks found for this week."}, res)

	res, err = e.planner.ShiftPending(u.ID, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, &ShiftResult{
		Shifted: 0,
		Message: "All tasks in the current week are complete. No pending tasks to shift.",
	}, res)
}

func TestShiftPendingMovesPastLatestDueDate(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go"},
		task(1, "done", model.TaskComplete, date(t, "2024-01-01")),
		task(1, "todo", model.TaskPending, date(t, "2024-01-02")),
		task(1, "later", model.TaskDeferred, date(t, "2024-01-03")),
		task(2, "next week", model.TaskPending, date(t, "2024-01-10")),
	)

	res, err := e.planner.ShiftPending(u.ID, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Shifted)
	assert.Equal(t, "Shifted 2 pending tasks to future dates.", res.Message)

	tasks, err := e.planRepo.ListByPath(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", tasks[0].DueDate.String())
	assert.Equal(t, "2024-01-11", tasks[1].DueDate.String())
	assert.Equal(t, "2024-01-12", tasks[2].DueDate.String())
	assert.Equal(t, "2024-01-10", tasks[3].DueDate.String())
}

func TestShiftPendingWithoutDueDatesStartsTomorrow(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go"}, task(1, "todo", model.TaskPending, nil))

	_, err := e.planner.ShiftPending(u.ID, p.ID, 1)
	require.NoError(t, err)

	tasks, err := e.planRepo.ListByPath(p.ID)
	require.NoError(t, err)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, model.Today().AddDays(1).String(), tasks[0].DueDate.String())
}

func TestShiftPendingRequiresOwnership(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")
	other := e.user(t, "other@example.com")
	p := e.path(t, owner.ID, model.Roadmap{Title: "Go"})

	_, err := e.planner.ShiftPending(other.ID, p.ID, 1)
	assert.ErrorIs(t, err, util.ErrSkillPathNotFound)
}

func TestBuildCalendar(t *testing.T) {
	ref := *date(t, "2024-05-08") // 周三
	tasks := []model.PlannerTask{
		{ID: 1, Description: "overdue", Status: model.TaskPending, DueDate: date(t, "2024-05-01")},
		{ID: 2, Description: "done early", Status: model.TaskComplete, DueDate: date(t, "2024-05-02")},
		{ID: 3, Description: "moved", Status: model.TaskDeferred, DueDate: date(t, "2024-05-01"), RescheduledTo: date(t, "2024-05-12")},
		{ID: 4, Description: "monday", Status: model.TaskPending, DueDate: date(t, "2024-05-06")},
		{ID: 5, Description: "floating", Status: model.TaskPending},
		{ID: 6, Description: "same day", Status: model.TaskPending, DueDate: date(t, "2024-05-06")},
	}

	view := BuildCalendar(tasks, ref)

	assert.Equal(t, "2024-05-06", view.CurrentWeek.Start.String())
	assert.Equal(t, "2024-05-12", view.CurrentWeek.End.String())

	days := make([]string, 0, len(view.Days))
	for _, d := range view.Days {
		days = append(days, d.Date.String())
	}
	assert.Equal(t, []string{"2024-05-01", "2024-05-02", "2024-05-06", "2024-05-12"}, days)
	assert.Len(t, view.Days[2].Tasks, 2)

	ids := func(ts []model.PlannerTask) []uint {
		out := make([]uint, 0, len(ts))
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}
	assert.Equal(t, []uint{3, 4, 6}, ids(view.CurrentWeek.Tasks))
	assert.Equal(t, []uint{1, 4, 6}, ids(view.Overdue))
	assert.Equal(t, []uint{5}, ids(view.Unscheduled))
}

func TestBuildCalendarSundayBelongsToPreviousWeek(t *testing.T) {
	view := BuildCalendar(nil, *date(t, "2024-05-12"))
	assert.Equal(t, "2024-05-06", view.CurrentWeek.Start.String())
	assert.Empty(t, view.Days)
	assert.NotNil(t, view.Overdue)
}

func TestWeekUsesISOWeekNumber(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	e.path(t, u.ID, model.Roadmap{Title: "Go"},
		task(1, "w1", model.TaskPending, nil),
		task(2, "w2", model.TaskPending, nil),
	)

	// 2024-01-10 属于 ISO 第 2 周
	tasks, err := e.planner.Week(u.ID, *date(t, "2024-01-10"))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "w2", tasks[0].Description)
}

func TestCreatePatchDeleteTask(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	other := e.user(t, "b@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go"})

	created, err := e.planner.Create(u.ID, TaskInput{SkillPathID: p.ID, Week: 1, Description: "Read docs"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskPending, created.Status)

	bad := model.TaskStatus("done")
	_, err = e.planner.Patch(created.ID, u.ID, TaskPatch{Status: &bad})
	assert.ErrorIs(t, err, util.ErrInvalidStatus)

	_, err = e.planner.Patch(created.ID, other.ID, TaskPatch{})
	assert.ErrorIs(t, err, util.ErrTaskNotFound)

	complete := model.TaskComplete
	moved := date(t, "2024-06-01")
	patched, err := e.planner.Patch(created.ID, u.ID, TaskPatch{Status: &complete, RescheduledTo: moved})
	require.NoError(t, err)
	assert.Equal(t, model.TaskComplete, patched.Status)
	assert.Equal(t, "2024-06-01", patched.RescheduledTo.String())

	require.NoError(t, e.planner.Delete(created.ID, u.ID))
	assert.ErrorIs(t, e.planner.Delete(created.ID, u.ID), util.ErrTaskNotFound)
}

func TestRegenerateWeek(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := e.path(t, u.ID, model.Roadmap{
		Title: "Python",
		Weeks: []model.RoadmapWeek{
			{Week: 1, Goals: []string{"Basics"}},
			{Week: 2, Goals: []string{"Functions"}},
		},
	},
		task(1, "old", model.TaskPending, nil),
		task(2, "keep", model.TaskPending, nil),
	)

	e.llm.Respond = func(prompt string) (string, error) {
		if strings.Contains(prompt, "easier") {
			return `["Variables", "Printing"]`, nil
		}
		return "not json", nil
	}

	res, err := e.planner.RegenerateWeek(context.Background(), u.ID, p.ID, 1, RegenerateEasier)
	require.NoError(t, err)
	assert.Equal(t, &RegenerateResult{Week: 1, NewGoals: []string{"Variables", "Printing"}}, res)

	stored, err := e.pathRepo.FindOwned(p.ID, u.ID)
	require.NoError(t, err)
	rm := stored.Roadmap()
	assert.Equal(t, []string{"Variables", "Printing"}, rm.FindWeek(1).Goals)
	assert.Equal(t, []string{"Functions"}, rm.FindWeek(2).Goals)

	week1, err := e.planRepo.ListByPathAndWeek(p.ID, 1)
	require.NoError(t, err)
	require.Len(t, week1, 7)
	assert.Equal(t, "Variables", week1[0].Description)
	assert.Equal(t, "Printing", week1[1].Description)
	assert.Equal(t, model.Today().String(), week1[0].DueDate.String())

	week2, err := e.planRepo.ListByPathAndWeek(p.ID, 2)
	require.NoError(t, err)
	require.Len(t, week2, 1)
	assert.Equal(t, "keep", week2[0].Description)
}

func TestRegenerateWeekErrors(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go", Weeks: []model.RoadmapWeek{{Week: 1, Goals: []string{"a"}}}})

	_, err := e.planner.RegenerateWeek(context.Background(), u.ID, p.ID, 5, RegenerateDeeper)
	assert.ErrorIs(t, err, util.ErrWeekNotFound)

	e.llm.Replies = []string{`{"goals": "not a list"}`}
	_, err = e.planner.RegenerateWeek(context.Background(), u.ID, p.ID, 1, RegenerateDeeper)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "AI error:"))

	prompt, ok := e.llm.PromptContaining("go deeper")
	require.True(t, ok)
	assert.Contains(t, prompt, "learning week for Go")
}

func TestGenerateWeeklyPlan(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Go", Weeks: []model.RoadmapWeek{{Week: 1, Goals: []string{"a"}}}})

	e.llm.Replies = []string{`[{"week": 1, "goals": ["a1", "a2"]}]`}
	plan, err := e.planner.GenerateWeeklyPlan(context.Background(), p.ID, u.ID)
	require.NoError(t, err)
	assert.NotContains(t, plan, "error")
	assert.Len(t, plan["weekly_plan"], 1)

	e.llm.Replies = nil
	e.llm.Err = errors.New("rate limited")
	plan, err = e.planner.GenerateWeeklyPlan(context.Background(), p.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "rate limited", plan["error"])
	weeks, ok := plan["weekly_plan"].([]interface{})
	require.True(t, ok)
	assert.Len(t, weeks, 1)
}
