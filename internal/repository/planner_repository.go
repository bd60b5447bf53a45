package repository

import (
	"mapmyroute_backend/internal/model"

	"gorm.io/gorm"
)

type PlannerRepository struct {
	DB *gorm.DB
}

func NewPlannerRepository(db *gorm.DB) *PlannerRepository {
	return &PlannerRepository{DB: db}
}

// StatusCounts 某条学习路径下各状态的任务数量
type StatusCounts struct {
	Total     int64
	Completed int64
	Pending   int64
	Deferred  int64
}

func (r *PlannerRepository) Create(task *model.PlannerTask) error {
	return r.DB.Create(task).Error
}

func (r *PlannerRepository) Update(task *model.PlannerTask) error {
	return r.DB.Save(task).Error
}

func (r *PlannerRepository) Delete(task *model.PlannerTask) error {
	return r.DB.Delete(task).Error
}

// FindOwned 通过关联的学习路径校验任务归属
func (r *PlannerRepository) FindOwned(id, userID uint) (*model.PlannerTask, error) {
	var task model.PlannerTask
	err := r.DB.Joins("JOIN skill_paths ON skill_paths.id = planner.skill_path_id AND skill_paths.deleted_at IS NULL").
		Where("planner.id = ? AND skill_paths.user_id = ?", id, userID).
		First(&task).Error
	return &task, err
}

func (r *PlannerRepository) ListByPath(pathID uint) ([]model.PlannerTask, error) {
	var tasks []model.PlannerTask
	err := r.DB.Where("skill_path_id = ?", pathID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *PlannerRepository) ListByPathAndWeek(pathID uint, week int) ([]model.PlannerTask, error) {
	var tasks []model.PlannerTask
	err := r.DB.Where("skill_path_id = ? AND week = ?", pathID, week).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// ListByUserAndWeek 用户所有学习路径中 week 字段等于给定值的任务
func (r *PlannerRepository) ListByUserAndWeek(userID uint, week int) ([]model.PlannerTask, error) {
	var tasks []model.PlannerTask
	err := r.DB.Joins("JOIN skill_paths ON skill_paths.id = planner.skill_path_id AND skill_paths.deleted_at IS NULL").
		Where("skill_paths.user_id = ? AND planner.week = ?", userID, week).
		Order("planner.id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *PlannerRepository) ListByUser(userID uint) ([]model.PlannerTask, error) {
	var tasks []model.PlannerTask
	err := r.DB.Joins("JOIN skill_paths ON skill_paths.id = planner.skill_path_id AND skill_paths.deleted_at IS NULL").
		Where("skill_paths.user_id = ?", userID).
		Order("planner.id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *PlannerRepository) CountByStatus(pathID uint) (StatusCounts, error) {
	var rows []struct {
		Status model.TaskStatus
		Count  int64
	}
	err := r.DB.Model(&model.PlannerTask{}).
		Select("status, COUNT(*) AS count").
		Where("skill_path_id = ?", pathID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case model.TaskComplete:
			counts.Completed = row.Count
		case model.TaskPending:
			counts.Pending = row.Count
		case model.TaskDeferred:
			counts.Deferred = row.Count
		}
	}
	return counts, nil
}

// SaveDueDates 批量保存改动过截止日期的任务
func (r *PlannerRepository) SaveDueDates(tasks []model.PlannerTask) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i := range tasks {
			if err := tx.Model(&tasks[i]).Update("due_date", tasks[i].DueDate).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
