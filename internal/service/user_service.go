package service

import (
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/pkg/logger"

	"go.uber.org/zap"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// DeleteAccount 删除账号以及名下的全部数据
func (s *UserService) DeleteAccount(userID uint) error {
	if err := s.UserRepo.DeleteWithData(userID); err != nil {
		return err
	}
	logger.Log.Info("Account deleted", zap.Uint("user_id", userID))
	return nil
}
