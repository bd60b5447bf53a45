package repository

import (
	"mapmyroute_backend/internal/model"

	"gorm.io/gorm"
)

type TimeTrackingRepository struct {
	DB *gorm.DB
}

func NewTimeTrackingRepository(db *gorm.DB) *TimeTrackingRepository {
	return &TimeTrackingRepository{DB: db}
}

func (r *TimeTrackingRepository) Create(session *model.TimeTracking) error {
	return r.DB.Create(session).Error
}

// FindOpen 只返回该用户尚未结束的计时
func (r *TimeTrackingRepository) FindOpen(id, userID uint) (*model.TimeTracking, error) {
	var session model.TimeTracking
	err := r.DB.Where("id = ? AND user_id = ? AND session_end IS NULL", id, userID).First(&session).Error
	return &session, err
}

// End 写入结束时间和时长；并发结束同一计时时只有一次生效，其余返回 ErrRecordNotFound
func (r *TimeTrackingRepository) End(session *model.TimeTracking) error {
	result := r.DB.Model(&model.TimeTracking{}).
		Where("id = ? AND session_end IS NULL", session.ID).
		Updates(map[string]interface{}{
			"session_end":      session.SessionEnd,
			"duration_minutes": session.DurationMinutes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByUser pathID 为 0 时返回全部路径的计时，最新的在前
func (r *TimeTrackingRepository) ListByUser(userID, pathID uint) ([]model.TimeTracking, error) {
	var sessions []model.TimeTracking
	query := r.DB.Where("user_id = ?", userID)
	if pathID != 0 {
		query = query.Where("skill_path_id = ?", pathID)
	}
	err := query.Order("session_start DESC, id DESC").Find(&sessions).Error
	return sessions, err
}

// TotalMinutes 已结束计时的总分钟数
func (r *TimeTrackingRepository) TotalMinutes(userID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.TimeTracking{}).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Where("user_id = ? AND session_end IS NOT NULL", userID).
		Scan(&total).Error
	return total, err
}
