package service

import (
	"context"
	"errors"
	"fmt"
	"mapmyroute_backend/internal/llm"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const WeeklyChallengeTitle = "Weekly Challenge"

type QuizService struct {
	QuizRepo *repository.QuizRepository
	PathRepo *repository.SkillPathRepository
	AI       *AIService
}

func NewQuizService(quizRepo *repository.QuizRepository, pathRepo *repository.SkillPathRepository, ai *AIService) *QuizService {
	return &QuizService{QuizRepo: quizRepo, PathRepo: pathRepo, AI: ai}
}

// swagger:model PersonalizedQuiz
type PersonalizedQuiz struct {
	ID        uint             `json:"id"`
	Title     string           `json:"title"`
	SkillTags []string         `json:"skill_tags"`
	Questions []model.Question `json:"questions"`
}

// swagger:model QuizScore
type QuizScore struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// SkillTags 把学习路径标题拆成小写词，整条标题也作为一个标签
func SkillTags(titles []string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	add := func(tag string) {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	for _, title := range titles {
		lower := strings.ToLower(strings.TrimSpace(title))
		add(lower)
		for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
		}) {
			add(word)
		}
	}
	return tags
}

// Personalized 按用户学习路径推导的标签选题，没有匹配时退回最新的一套题
func (s *QuizService) Personalized(userID uint) (*PersonalizedQuiz, error) {
	paths, err := s.PathRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(paths))
	for _, p := range paths {
		titles = append(titles, p.Title)
	}
	tags := SkillTags(titles)

	questions, err := s.QuizRepo.FindQuestionsByTags(tags)
	if err != nil {
		return nil, err
	}

	if len(questions) > 0 {
		// 同一次作答只能对应一套题，取命中最多的那套
		best := bestQuiz(questions)
		picked := make([]model.Question, 0, len(questions))
		for _, q := range questions {
			if q.QuizID == best {
				picked = append(picked, q)
			}
		}
		return &PersonalizedQuiz{ID: best, Title: WeeklyChallengeTitle, SkillTags: tags, Questions: picked}, nil
	}

	quiz, err := s.QuizRepo.LatestQuiz()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return &PersonalizedQuiz{ID: quiz.ID, Title: WeeklyChallengeTitle, SkillTags: tags, Questions: quiz.Questions}, nil
}

func bestQuiz(questions []model.Question) uint {
	counts := make(map[uint]int)
	var best uint
	for _, q := range questions {
		counts[q.QuizID]++
		if best == 0 || counts[q.QuizID] > counts[best] {
			best = q.QuizID
		}
	}
	return best
}

// Attempt 计分并保存作答，answers 的键为题目 ID
func (s *QuizService) Attempt(userID, quizID uint, answers map[string]string) (*QuizScore, error) {
	questions, err := s.QuizRepo.FindQuestionsByQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuizNotFound
	}

	score := ScoreAnswers(questions, answers)
	if answers == nil {
		answers = map[string]string{}
	}
	attempt := &model.UserQuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Answers:     answers,
		Score:       score,
		Total:       len(questions),
		AttemptedAt: time.Now().UTC(),
	}
	if err := s.QuizRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return &QuizScore{Score: score, Total: len(questions)}, nil
}

func ScoreAnswers(questions []model.Question, answers map[string]string) int {
	score := 0
	for _, q := range questions {
		if answer, ok := answers[fmt.Sprint(q.ID)]; ok && answer == q.CorrectOption {
			score++
		}
	}
	return score
}

func (s *QuizService) History(userID uint) ([]model.UserQuizAttempt, error) {
	return s.QuizRepo.ListAttempts(userID)
}

type generatedQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
}

// GenerateQuiz 让模型为某个技能标签出一套单选题并入库
func (s *QuizService) GenerateQuiz(ctx context.Context, tag string, count int) (*model.Quiz, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil, errors.New("skill tag is required")
	}
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf(
		"Write %d multiple-choice questions that test practical knowledge of %s. "+
			"Each question has exactly 4 options labelled \"A) ...\" to \"D) ...\". "+
			`Respond in JSON as [{"question_text":..., "options":[...], "correct_option":"A"}].`,
		count, tag,
	)

	var generated []generatedQuestion
	if _, err := s.AI.CompleteJSON(ctx, SystemLearningCoach, prompt, &generated, llm.Options{MaxTokens: 1500}); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Title:       WeeklyChallengeTitle,
		Description: fmt.Sprintf("Generated questions for %s.", tag),
	}
	for _, g := range generated {
		if g.QuestionText == "" || len(g.Options) < 2 {
			continue
		}
		option := correctLetter(g.CorrectOption, g.Options)
		if option == "" {
			logger.Log.Warn("Skipping generated question without a usable answer",
				zap.String("correct_option", g.CorrectOption),
			)
			continue
		}
		quiz.Questions = append(quiz.Questions, model.Question{
			QuestionText:  g.QuestionText,
			Options:       g.Options,
			CorrectOption: option,
			SkillTag:      tag,
		})
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("no usable questions generated for %q", tag)
	}

	if err := s.QuizRepo.CreateQuiz(quiz); err != nil {
		return nil, err
	}
	logger.Log.Info("Quiz generated",
		zap.String("skill_tag", tag),
		zap.Int("questions", len(quiz.Questions)),
	)
	return quiz, nil
}

// correctLetter 把模型给出的答案归一为选项字母：可以是字母、"B) ..." 或选项原文；
// 对不上任何选项时返回空串
func correctLetter(answer string, options []string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ""
	}
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		if strings.EqualFold(answer, opt) || strings.EqualFold(answer, optionText(opt)) {
			return string(rune('A' + i))
		}
	}

	r, _ := utf8.DecodeRuneInString(answer)
	r = unicode.ToUpper(r)
	if r < 'A' || r >= rune('A'+len(options)) {
		return ""
	}
	return string(r)
}

// optionText 去掉 "A) "、"A. "、"A: " 这类前缀
func optionText(opt string) string {
	r, size := utf8.DecodeRuneInString(opt)
	if !unicode.IsLetter(r) || size >= len(opt) {
		return opt
	}
	switch opt[size] {
	case ')', '.', ':':
		return strings.TrimSpace(opt[size+1:])
	}
	return opt
}
