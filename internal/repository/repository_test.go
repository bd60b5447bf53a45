package repository

import (
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: &email, Name: "N"}
	require.NoError(t, NewUserRepository(db).Create(user))
	return user
}

func seedPath(t *testing.T, db *gorm.DB, userID uint, statuses ...model.TaskStatus) (*model.SkillPath, []model.PlannerTask) {
	t.Helper()
	path := &model.SkillPath{UserID: userID, Title: "Go"}
	require.NoError(t, path.SetData(model.Roadmap{Weeks: []model.RoadmapWeek{{Week: 1, Goals: []string{"a"}}}}))

	tasks := make([]model.PlannerTask, 0, len(statuses))
	for i, s := range statuses {
		tasks = append(tasks, model.PlannerTask{Week: 1 + i%2, Description: "t", Status: s})
	}
	require.NoError(t, NewSkillPathRepository(db).CreateWithTasks(path, tasks))
	return path, tasks
}

func TestSkillPathOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSkillPathRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	path, _ := seedPath(t, db, owner.ID, model.TaskPending)

	found, err := repo.FindOwned(path.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", found.Title)

	_, err = repo.FindOwned(path.ID, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	paths, err := repo.ListByUser(owner.ID)
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestSkillPathDeleteRemovesTasks(t *testing.T) {
	db := testutil.NewDB(t)
	owner := seedUser(t, db, "owner@example.com")
	path, _ := seedPath(t, db, owner.ID, model.TaskPending, model.TaskComplete)

	require.NoError(t, NewSkillPathRepository(db).Delete(path))

	tasks, err := NewPlannerRepository(db).ListByPath(path.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestReplaceWeek(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSkillPathRepository(db)
	planner := NewPlannerRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	path, _ := seedPath(t, db, owner.ID, model.TaskPending, model.TaskPending, model.TaskPending)

	path.Data = `{"weeks":[{"week":1,"goals":["new"]}]}`
	require.NoError(t, repo.ReplaceWeek(path, 1, []model.PlannerTask{{Week: 1, Description: "fresh", Status: model.TaskPending}}))

	week1, err := planner.ListByPathAndWeek(path.ID, 1)
	require.NoError(t, err)
	require.Len(t, week1, 1)
	assert.Equal(t, "fresh", week1[0].Description)

	week2, err := planner.ListByPathAndWeek(path.ID, 2)
	require.NoError(t, err)
	assert.Len(t, week2, 1)

	reloaded, err := repo.FindOwned(path.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, reloaded.Roadmap().Weeks[0].Goals)
}

func TestPlannerCountsAndOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlannerRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	path, tasks := seedPath(t, db, owner.ID,
		model.TaskComplete, model.TaskPending, model.TaskDeferred, model.TaskComplete)

	counts, err := repo.CountByStatus(path.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCounts{Total: 4, Completed: 2, Pending: 1, Deferred: 1}, counts)

	_, err = repo.FindOwned(tasks[0].ID, owner.ID)
	assert.NoError(t, err)
	_, err = repo.FindOwned(tasks[0].ID, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	byWeek, err := repo.ListByUserAndWeek(owner.ID, 2)
	require.NoError(t, err)
	assert.Len(t, byWeek, 2)

	all, err := repo.ListByUser(owner.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSaveDueDates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlannerRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	path, tasks := seedPath(t, db, owner.ID, model.TaskPending, model.TaskPending)

	d1, err := model.ParseDate("2024-06-01")
	require.NoError(t, err)
	d2 := d1.AddDays(1)
	tasks[0].DueDate = &d1
	tasks[1].DueDate = &d2
	require.NoError(t, repo.SaveDueDates(tasks))

	saved, err := repo.ListByPath(path.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "2024-06-01", saved[0].DueDate.String())
	assert.Equal(t, "2024-06-02", saved[1].DueDate.String())
}

func TestQuizQueries(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuizRepository(db)

	quiz := &model.Quiz{Title: "Weekly", Questions: []model.Question{
		{QuestionText: "q1", Options: []string{"a", "b"}, CorrectOption: "a", SkillTag: "go"},
		{QuestionText: "q2", Options: []string{"a", "b"}, CorrectOption: "b", SkillTag: "sql"},
	}}
	require.NoError(t, repo.CreateQuiz(quiz))

	latest, err := repo.LatestQuiz()
	require.NoError(t, err)
	assert.Len(t, latest.Questions, 2)
	assert.Equal(t, []string{"a", "b"}, latest.Questions[0].Options)

	byTag, err := repo.FindQuestionsByTags([]string{"go"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "q1", byTag[0].QuestionText)

	none, err := repo.FindQuestionsByTags(nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	count, err := repo.CountQuestionsByTag("sql")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	now := time.Now()
	require.NoError(t, repo.CreateAttempt(&model.UserQuizAttempt{UserID: 1, QuizID: quiz.ID, Answers: map[string]string{"1": "a"}, Score: 1, Total: 2, AttemptedAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.CreateAttempt(&model.UserQuizAttempt{UserID: 1, QuizID: quiz.ID, Score: 2, Total: 2, AttemptedAt: now}))

	attempts, err := repo.ListAttempts(1)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 2, attempts[0].Score)
	assert.Equal(t, map[string]string{"1": "a"}, attempts[1].Answers)
}

func TestDeleteWithData(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	history := NewHistoryRepository(db)
	owner := seedUser(t, db, "owner@example.com")
	keep := seedUser(t, db, "keep@example.com")
	ownerPath, _ := seedPath(t, db, owner.ID, model.TaskPending, model.TaskComplete)
	keepPath, _ := seedPath(t, db, keep.ID, model.TaskPending)

	require.NoError(t, history.Create(&model.UserHistory{UserID: owner.ID, Type: model.HistoryRoadmap}))
	require.NoError(t, history.Create(&model.UserHistory{UserID: keep.ID, Type: model.HistoryRoadmap}))
	require.NoError(t, NewQuizRepository(db).CreateAttempt(&model.UserQuizAttempt{UserID: owner.ID, AttemptedAt: time.Now()}))

	require.NoError(t, users.DeleteWithData(owner.ID))

	_, err := users.FindByID(owner.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var pathCount int64
	require.NoError(t, db.Unscoped().Model(&model.SkillPath{}).Where("id = ?", ownerPath.ID).Count(&pathCount).Error)
	assert.Zero(t, pathCount)

	tasks, err := NewPlannerRepository(db).ListByPath(ownerPath.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	attempts, err := NewQuizRepository(db).ListAttempts(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)

	remaining, err := history.ListByUser(keep.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	keepTasks, err := NewPlannerRepository(db).ListByPath(keepPath.ID)
	require.NoError(t, err)
	assert.Len(t, keepTasks, 1)
}

func TestUserLookups(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	uid := "firebase-uid"
	user := &model.User{Email: model.NullableString("fb@example.com"), UID: &uid}
	require.NoError(t, users.Create(user))

	byUID, err := users.FindByUID(uid)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUID.ID)

	byEmail, err := users.FindByEmail("fb@example.com")
	require.NoError(t, err)
	assert.False(t, byEmail.HasPassword())

	n, err := NewHistoryRepository(db).DeleteByUser(user.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
