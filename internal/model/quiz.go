package model

import "time"

// swagger:model Quiz
type Quiz struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	Questions   []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model Question
type Question struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	QuizID        uint     `gorm:"index" json:"quiz_id"`
	QuestionText  string   `gorm:"type:text" json:"question_text"`
	Options       []string `gorm:"serializer:json" json:"options"`
	CorrectOption string   `gorm:"size:10" json:"-"`
	SkillTag      string   `gorm:"size:100;index" json:"skill_tag"`
}

func (Question) TableName() string {
	return "questions"
}

// UserQuizAttempt 一次答题记录，Answers 的键为题目 ID
// swagger:model UserQuizAttempt
type UserQuizAttempt struct {
	ID          uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint              `gorm:"index" json:"user_id"`
	QuizID      uint              `gorm:"index" json:"quiz_id"`
	Answers     map[string]string `gorm:"serializer:json" json:"answers"`
	Score       int               `json:"score"`
	Total       int               `json:"total"`
	AttemptedAt time.Time         `json:"attempted_at"`
}

func (UserQuizAttempt) TableName() string {
	return "user_quiz_attempts"
}
