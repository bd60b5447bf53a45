package service

import (
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	llm       *testutil.FakeLLM
	ai        *AIService
	userRepo  *repository.UserRepository
	pathRepo  *repository.SkillPathRepository
	planRepo  *repository.PlannerRepository
	quizRepo  *repository.QuizRepository
	history   *HistoryService
	paths     *SkillPathService
	planner   *PlannerService
	analytics *AnalyticsService
	quiz      *QuizService
	tracking  *TimeTrackingService
	progress  *ProgressService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	fake := &testutil.FakeLLM{}
	ai := NewAIServiceWithProvider(fake, config.AIConfig{})

	e := &testEnv{
		db:       db,
		llm:      fake,
		ai:       ai,
		userRepo: repository.NewUserRepository(db),
		pathRepo: repository.NewSkillPathRepository(db),
		planRepo: repository.NewPlannerRepository(db),
		quizRepo: repository.NewQuizRepository(db),
	}
	e.history = NewHistoryService(repository.NewHistoryRepository(db))
	e.paths = NewSkillPathService(e.pathRepo, e.planRepo, ai)
	e.planner = NewPlannerService(e.planRepo, e.pathRepo, e.paths, ai)
	e.tracking = NewTimeTrackingService(repository.NewTimeTrackingRepository(db), e.paths)
	e.progress = NewProgressService(repository.NewProgressRepository(db), e.paths)
	e.analytics = NewAnalyticsService(e.planRepo, e.pathRepo, e.tracking.TrackingRepo, e.progress.ProgressRepo, e.paths, ai)
	e.quiz = NewQuizService(e.quizRepo, e.pathRepo, ai)
	return e
}

func (e *testEnv) user(t *testing.T, email string) *model.User {
	t.Helper()
	u := &model.User{Email: &email, Name: "Test"}
	require.NoError(t, e.userRepo.Create(u))
	return u
}

func (e *testEnv) path(t *testing.T, userID uint, roadmap model.Roadmap, tasks ...model.PlannerTask) *model.SkillPath {
	t.Helper()
	p := &model.SkillPath{UserID: userID, Title: roadmap.Title, Description: roadmap.Description}
	require.NoError(t, p.SetData(roadmap))
	require.NoError(t, e.pathRepo.CreateWithTasks(p, tasks))
	return p
}

func date(t *testing.T, s string) *model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func task(week int, desc string, status model.TaskStatus, due *model.Date) model.PlannerTask {
	return model.PlannerTask{Week: week, Description: desc, Status: status, DueDate: due}
}
