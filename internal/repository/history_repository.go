package repository

import (
	"mapmyroute_backend/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Create(entry *model.UserHistory) error {
	return r.DB.Create(entry).Error
}

func (r *HistoryRepository) ListByUser(userID uint) ([]model.UserHistory, error) {
	var entries []model.UserHistory
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Find(&entries).Error
	return entries, err
}

func (r *HistoryRepository) DeleteByUser(userID uint) (int64, error) {
	result := r.DB.Where("user_id = ?", userID).Delete(&model.UserHistory{})
	return result.RowsAffected, result.Error
}
