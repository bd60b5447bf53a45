package model

import "time"

const ActivityStudy = "study"

// TimeTracking 一次计时学习；结束前 SessionEnd 与 DurationMinutes 为空
// swagger:model TimeTracking
type TimeTracking struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint       `gorm:"index;not null" json:"user_id"`
	SkillPathID     uint       `gorm:"index;not null" json:"skill_path_id"`
	SessionStart    time.Time  `gorm:"not null" json:"session_start"`
	SessionEnd      *time.Time `json:"session_end"`
	DurationMinutes *int       `json:"duration_minutes"`
	ActivityType    string     `gorm:"size:32" json:"activity_type"`
	Notes           string     `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (TimeTracking) TableName() string {
	return "time_tracking"
}

// ProgressEntry 用户手动填写的一条学习进度
// swagger:model ProgressEntry
type ProgressEntry struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               uint      `gorm:"index;not null" json:"user_id"`
	SkillPathID          uint      `gorm:"index;not null" json:"skill_path_id"`
	Date                 Date      `gorm:"type:date" json:"date"`
	HoursSpent           int       `json:"hours_spent"`
	TopicsCovered        []string  `gorm:"serializer:json" json:"topics_covered"`
	Notes                string    `gorm:"type:text" json:"notes"`
	CompletionPercentage int       `json:"completion_percentage"`
	CreatedAt            time.Time `json:"created_at"`
}

func (ProgressEntry) TableName() string {
	return "user_progress"
}
