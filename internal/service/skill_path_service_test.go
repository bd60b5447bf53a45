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

func TestFallbackDaily(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "b", "c", "a", "b", "c", "a"},
		fallbackDaily([]string{"a", "b", "c"}),
	)
	assert.Equal(t,
		[]string{"Task 1", "Task 2", "Task 3", "Task 4", "Task 5", "Task 6", "Task 7"},
		fallbackDaily(nil),
	)
}

func TestScheduleDaily(t *testing.T) {
	start := *date(t, "2024-03-04")
	tasks := scheduleDaily(2, start, []string{"x", "y", "z"})

	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, 2, task.Week)
		assert.Equal(t, model.TaskPending, task.Status)
		assert.Equal(t, start.AddDays(i).String(), task.DueDate.String())
	}
}

func TestCreateSkillPathWithDailyTasks(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	e.llm.Replies = []string{"```json\n[\"d1\",\"d2\",\"d3\",\"d4\",\"d5\",\"d6\",\"d7\"]\n```"}

	data := map[string]interface{}{
		"weeks": []interface{}{
			map[string]interface{}{"week": 1, "goals": []interface{}{"Syntax"}},
			map[string]interface{}{"week": 2, "goals": []interface{}{"Types"}},
		},
	}
	view, err := e.paths.Create(context.Background(), u.ID, "Go", "Learn Go", data)
	require.NoError(t, err)
	assert.Equal(t, "Go", view.Title)

	tasks, err := e.planRepo.ListByPath(view.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 14)

	today := model.Today()
	assert.Equal(t, "d1", tasks[0].Description)
	assert.Equal(t, today.String(), tasks[0].DueDate.String())
	assert.Equal(t, 2, tasks[7].Week)
	assert.Equal(t, today.AddDays(7).String(), tasks[7].DueDate.String())
	assert.Equal(t, today.AddDays(13).String(), tasks[13].DueDate.String())

	prompt, ok := e.llm.PromptContaining("Week 2")
	require.True(t, ok)
	assert.Contains(t, prompt, `["Types"]`)
}

func TestCreateSkillPathFallsBackWhenAIIsWrong(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	e.llm.Replies = []string{`["only one"]`}

	data := map[string]interface{}{
		"weeks": []interface{}{
			map[string]interface{}{"week": 1, "goals": []interface{}{"A", "B"}},
		},
	}
	view, err := e.paths.Create(context.Background(), u.ID, "Rust", "", data)
	require.NoError(t, err)

	tasks, err := e.planRepo.ListByPath(view.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 7)
	descs := make([]string, 0, 7)
	for _, task := range tasks {
		descs = append(descs, task.Description)
	}
	assert.Equal(t, []string{"A", "B", "A", "B", "A", "B", "A"}, descs)
}

func TestCreateSkillPathFallsBackWhenAIFails(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	e.llm.Err = errors.New("boom")

	data := map[string]interface{}{
		"weeks": []interface{}{map[string]interface{}{"week": 1, "goals": []interface{}{}}},
	}
	view, err := e.paths.Create(context.Background(), u.ID, "SQL", "", data)
	require.NoError(t, err)

	tasks, err := e.planRepo.ListByPath(view.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 7)
	assert.Equal(t, "Task 1", tasks[0].Description)
	assert.Equal(t, "Task 7", tasks[6].Description)
}

func TestCreateSkillPathToleratesBadWeeks(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	e.llm.Err = errors.New("boom")

	data := map[string]interface{}{
		"weeks": []interface{}{
			map[string]interface{}{"week": 1, "goals": []interface{}{map[string]interface{}{"topic": "Syntax"}}},
			map[string]interface{}{"week": "soon", "goals": []interface{}{"ignored"}},
			map[string]interface{}{"week": "2", "goals": []interface{}{"Types", 7}},
		},
	}
	view, err := e.paths.Create(context.Background(), u.ID, "Go", "", data)
	require.NoError(t, err)

	tasks, err := e.planRepo.ListByPath(view.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 14)
	assert.Equal(t, `{"topic":"Syntax"}`, tasks[0].Description)
	assert.Equal(t, 2, tasks[7].Week)
	assert.Equal(t, "Types", tasks[7].Description)
	assert.Equal(t, "7", tasks[8].Description)
}

func TestGetSkillPath(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner@example.com")
	other := e.user(t, "other@example.com")
	p := e.path(t, owner.ID, model.Roadmap{Title: "Go", Weeks: []model.RoadmapWeek{{Week: 1, Goals: []string{"a"}}}})

	view, err := e.paths.Get(p.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, view.Data["weeks"], 1)

	_, err = e.paths.Get(p.ID, other.ID)
	assert.ErrorIs(t, err, util.ErrSkillPathNotFound)

	_, err = e.paths.Get(p.ID+100, owner.ID)
	assert.ErrorIs(t, err, util.ErrSkillPathNotFound)
}

func TestGetSkillPathNormalisesMalformedData(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := &model.SkillPath{UserID: u.ID, Title: "Broken", Data: `{"weeks": "nope"}`}
	require.NoError(t, e.pathRepo.CreateWithTasks(p, nil))

	view, err := e.paths.Get(p.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{}, view.Data["weeks"])
}

func TestListSkillPathsWithProgress(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	e.path(t, u.ID, model.Roadmap{Title: "Empty"})
	e.path(t, u.ID, model.Roadmap{Title: "Half"},
		task(1, "a", model.TaskComplete, nil),
		task(1, "b", model.TaskPending, nil),
		task(1, "c", model.TaskDeferred, nil),
	)

	views, err := e.paths.List(u.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].Progress)
	assert.Equal(t, 0, *views[0].Progress)
	assert.Equal(t, 33, *views[1].Progress)
}

func TestUpdateAndDeleteSkillPath(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	p := e.path(t, u.ID, model.Roadmap{Title: "Old"}, task(1, "a", model.TaskPending, nil))

	title := "New"
	view, err := e.paths.Update(p.ID, u.ID, SkillPathUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", view.Title)

	require.NoError(t, e.paths.Delete(p.ID, u.ID))
	_, err = e.paths.Get(p.ID, u.ID)
	assert.ErrorIs(t, err, util.ErrSkillPathNotFound)

	tasks, err := e.planRepo.ListByPath(p.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDailyTasksPrompt(t *testing.T) {
	e := newEnv(t)
	e.llm.Replies = []string{`["1","2","3","4","5","6","7"]`}

	daily := e.paths.DailyTasks(context.Background(), 3, []string{"Closures"})
	assert.Len(t, daily, 7)

	require.Len(t, e.llm.Prompts, 1)
	assert.True(t, strings.HasPrefix(e.llm.Prompts[0], `Given these goals for Week 3: ["Closures"]`))
}
