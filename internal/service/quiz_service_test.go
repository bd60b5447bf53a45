package service

import (
	"context"
	"fmt"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQuiz(t *testing.T, e *testEnv, title string, questions ...model.Question) *model.Quiz {
	t.Helper()
	q := &model.Quiz{Title: title, Questions: questions}
	require.NoError(t, e.quizRepo.CreateQuiz(q))
	return q
}

func question(text, correct, tag string) model.Question {
	return model.Question{
		QuestionText:  text,
		Options:       []string{"A) one", "B) two", "C) three"},
		CorrectOption: correct,
		SkillTag:      tag,
	}
}

func TestSkillTags(t *testing.T) {
	assert.Equal(t, []string{}, SkillTags(nil))
	assert.Equal(t,
		[]string{"python for data science", "python", "for", "data", "science", "c++", "sql"},
		SkillTags([]string{"Python for Data Science", " C++ ", "SQL", "python"}),
	)
}

func TestScoreAnswers(t *testing.T) {
	questions := []model.Question{
		{ID: 1, CorrectOption: "A"},
		{ID: 2, CorrectOption: "B"},
		{ID: 3, CorrectOption: "C"},
	}
	answers := map[string]string{"1": "A", "2": "C", "3": "C", "9": "A"}
	assert.Equal(t, 2, ScoreAnswers(questions, answers))
	assert.Zero(t, ScoreAnswers(questions, nil))
}

func TestPersonalizedQuizMatchesSkillTags(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	e.path(t, u.ID, model.Roadmap{Title: "Python Basics"})

	general := seedQuiz(t, e, "General", question("q1", "A", "web"))
	py := seedQuiz(t, e, "Python", question("q2", "B", "python"), question("q3", "C", "python"))
	seedQuiz(t, e, "Latest", question("q4", "A", "sql"))

	quiz, err := e.quiz.Personalized(u.ID)
	require.NoError(t, err)
	assert.Equal(t, py.ID, quiz.ID)
	assert.NotEqual(t, general.ID, quiz.ID)
	assert.Equal(t, WeeklyChallengeTitle, quiz.Title)
	assert.Len(t, quiz.Questions, 2)
	assert.Contains(t, quiz.SkillTags, "python")
}

func TestPersonalizedQuizFallsBackToLatest(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")

	_, err := e.quiz.Personalized(u.ID)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	seedQuiz(t, e, "Old", question("q1", "A", "web"))
	latest := seedQuiz(t, e, "New", question("q2", "B", "sql"), question("q3", "A", "sql"))

	quiz, err := e.quiz.Personalized(u.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, quiz.ID)
	assert.Len(t, quiz.Questions, 2)
	assert.Equal(t, []string{}, quiz.SkillTags)
}

func TestAttemptAndHistory(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "a@example.com")
	q := seedQuiz(t, e, "Q", question("q1", "A", "go"), question("q2", "B", "go"))

	answers := map[string]string{
		fmt.Sprint(q.Questions[0].ID): "A",
		fmt.Sprint(q.Questions[1].ID): "A",
	}
	score, err := e.quiz.Attempt(u.ID, q.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, &QuizScore{Score: 1, Total: 2}, score)

	_, err = e.quiz.Attempt(u.ID, q.ID+100, answers)
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	second, err := e.quiz.Attempt(u.ID, q.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, second.Score)

	history, err := e.quiz.History(u.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Zero(t, history[0].Score)
	assert.Equal(t, 1, history[1].Score)
	assert.Equal(t, answers, history[1].Answers)
}

func TestGenerateQuiz(t *testing.T) {
	e := newEnv(t)
	e.llm.Replies = []string{`[
		{"question_text": "What is a slice?", "options": ["A) x", "B) y"], "correct_option": "b) y"},
		{"question_text": "", "options": ["A) x", "B) y"], "correct_option": "A"}
	]`}

	quiz, err := e.quiz.GenerateQuiz(context.Background(), " Go ", 2)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "B", quiz.Questions[0].CorrectOption)
	assert.Equal(t, "go", quiz.Questions[0].SkillTag)

	n, err := e.quizRepo.CountQuestionsByTag("go")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = e.quiz.GenerateQuiz(context.Background(), "", 2)
	assert.Error(t, err)
}

func TestCorrectLetter(t *testing.T) {
	options := []string{"A) Goroutine", "B) Channel", "C. Mutex", "Select"}
	cases := []struct {
		answer string
		want   string
	}{
		{"b", "B"},
		{" C ", "C"},
		{"B) Channel", "B"},
		{"mutex", "C"},
		{"Select", "D"},
		{"Ünicode", ""},
		{"Zebra", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, correctLetter(tc.answer, options), tc.answer)
	}
}

func TestGenerateQuizMatchesAnswerText(t *testing.T) {
	e := newEnv(t)
	e.llm.Replies = []string{`[
		{"question_text": "Which one syncs?", "options": ["A) Goroutine", "B) Mutex"], "correct_option": "Mutex"},
		{"question_text": "Bad answer", "options": ["A) x", "B) y"], "correct_option": "é"}
	]`}

	quiz, err := e.quiz.GenerateQuiz(context.Background(), "go", 2)
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "B", quiz.Questions[0].CorrectOption)
}
