package model

import "time"

type HistoryType string

const (
	HistoryRoadmap       HistoryType = "roadmap"
	HistoryRoadmapUpdate HistoryType = "roadmap_update"
	HistoryResources     HistoryType = "resources"
)

// UserHistory 记录用户触发的 AI 生成结果，Input/Result 为 JSON 文本
// swagger:model UserHistory
type UserHistory struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint        `gorm:"index" json:"user_id"`
	Type      HistoryType `gorm:"size:50" json:"type"`
	Input     string      `gorm:"type:text" json:"input"`
	Result    string      `gorm:"type:text" json:"result"`
	CreatedAt time.Time   `json:"created_at"`
}

func (UserHistory) TableName() string {
	return "user_history"
}
