package repository

import (
	"mapmyroute_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUID(uid string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("uid = ?", uid).First(&user).Error
	return &user, err
}

// DeleteWithData 物理删除用户及其全部学习路径、计划任务、答题、历史、计时与进度记录
func (r *UserRepository) DeleteWithData(userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		pathIDs := tx.Unscoped().Model(&model.SkillPath{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("skill_path_id IN (?)", pathIDs).Delete(&model.PlannerTask{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&model.SkillPath{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserQuizAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.TimeTracking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.ProgressEntry{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.User{}, userID).Error
	})
}
