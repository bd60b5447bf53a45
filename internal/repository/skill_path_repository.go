package repository

import (
	"mapmyroute_backend/internal/model"

	"gorm.io/gorm"
)

type SkillPathRepository struct {
	DB *gorm.DB
}

func NewSkillPathRepository(db *gorm.DB) *SkillPathRepository {
	return &SkillPathRepository{DB: db}
}

// CreateWithTasks 在同一事务中创建路径及其每日任务
func (r *SkillPathRepository) CreateWithTasks(path *model.SkillPath, tasks []model.PlannerTask) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tasks").Create(path).Error; err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		for i := range tasks {
			tasks[i].SkillPathID = path.ID
		}
		return tx.Create(&tasks).Error
	})
}

// FindOwned 只返回属于该用户的路径
func (r *SkillPathRepository) FindOwned(id, userID uint) (*model.SkillPath, error) {
	var path model.SkillPath
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&path).Error
	return &path, err
}

func (r *SkillPathRepository) ListByUser(userID uint) ([]model.SkillPath, error) {
	var paths []model.SkillPath
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&paths).Error
	return paths, err
}

func (r *SkillPathRepository) Update(path *model.SkillPath) error {
	return r.DB.Omit("Tasks", "TotalHoursSpent").Save(path).Error
}

func (r *SkillPathRepository) Delete(path *model.SkillPath) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.PlannerTask{}, &model.TimeTracking{}, &model.ProgressEntry{}} {
			if err := tx.Where("skill_path_id = ?", path.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(path).Error
	})
}

// ReplaceWeek 更新路线数据，并用新任务替换该周的旧任务
func (r *SkillPathRepository) ReplaceWeek(path *model.SkillPath, week int, tasks []model.PlannerTask) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(path).Update("data", path.Data).Error; err != nil {
			return err
		}
		if err := tx.Where("skill_path_id = ? AND week = ?", path.ID, week).Delete(&model.PlannerTask{}).Error; err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		for i := range tasks {
			tasks[i].SkillPathID = path.ID
		}
		return tx.Create(&tasks).Error
	})
}
