package repository

import (
	"mapmyroute_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Create 写入进度并把 HoursSpent 累加到所属路径
func (r *ProgressRepository) Create(entry *model.ProgressEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		if entry.HoursSpent == 0 {
			return nil
		}
		return tx.Model(&model.SkillPath{}).
			Where("id = ?", entry.SkillPathID).
			Update("total_hours_spent", gorm.Expr("total_hours_spent + ?", entry.HoursSpent)).Error
	})
}

func (r *ProgressRepository) ListByPath(userID, pathID uint) ([]model.ProgressEntry, error) {
	var entries []model.ProgressEntry
	err := r.DB.Where("user_id = ? AND skill_path_id = ?", userID, pathID).
		Order("date DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

func (r *ProgressRepository) Recent(userID uint, limit int) ([]model.ProgressEntry, error) {
	var entries []model.ProgressEntry
	err := r.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
