package model

type TaskStatus string

const (
	TaskPending  TaskStatus = "pending"
	TaskComplete TaskStatus = "complete"
	TaskDeferred TaskStatus = "deferred"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskComplete, TaskDeferred:
		return true
	}
	return false
}

// PlannerTask 由学习路径某一周的目标拆分出的每日任务
// swagger:model PlannerTask
type PlannerTask struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SkillPathID   uint       `gorm:"index;not null" json:"skill_path_id"`
	Week          int        `gorm:"index;not null" json:"week"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Status        TaskStatus `gorm:"size:32;default:'pending'" json:"status"`
	DueDate       *Date      `gorm:"type:date" json:"due_date"`
	RescheduledTo *Date      `gorm:"type:date" json:"rescheduled_to"`
}

func (PlannerTask) TableName() string {
	return "planner"
}

// EffectiveDate 已改期的任务以改期日期为准
func (t *PlannerTask) EffectiveDate() *Date {
	if t.RescheduledTo != nil && !t.RescheduledTo.IsZero() {
		return t.RescheduledTo
	}
	if t.DueDate != nil && !t.DueDate.IsZero() {
		return t.DueDate
	}
	return nil
}

func (t *PlannerTask) IsComplete() bool {
	return t.Status == TaskComplete
}
