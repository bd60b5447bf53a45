package repository

import (
	"mapmyroute_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) CreateQuiz(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindQuiz(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions").First(&quiz, id).Error
	return &quiz, err
}

// LatestQuiz 题库中最新的一套题
func (r *QuizRepository) LatestQuiz() (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions").Order("id DESC").First(&quiz).Error
	return &quiz, err
}

func (r *QuizRepository) FindQuestionsByTags(tags []string) ([]model.Question, error) {
	var questions []model.Question
	if len(tags) == 0 {
		return questions, nil
	}
	err := r.DB.Where("skill_tag IN ?", tags).Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) FindQuestionsByQuiz(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("quiz_id = ?", quizID).Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) CountQuestionsByTag(tag string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("skill_tag = ?", tag).Count(&count).Error
	return count, err
}

func (r *QuizRepository) CreateAttempt(attempt *model.UserQuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizRepository) ListAttempts(userID uint) ([]model.UserQuizAttempt, error) {
	var attempts []model.UserQuizAttempt
	err := r.DB.Where("user_id = ?", userID).Order("attempted_at DESC, id DESC").Find(&attempts).Error
	return attempts, err
}
