package service

import (
	"errors"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TimeTrackingService struct {
	TrackingRepo *repository.TimeTrackingRepository
	Paths        *SkillPathService
	now          func() time.Time
}

func NewTimeTrackingService(trackingRepo *repository.TimeTrackingRepository, paths *SkillPathService) *TimeTrackingService {
	return &TimeTrackingService{
		TrackingRepo: trackingRepo,
		Paths:        paths,
		now:          time.Now,
	}
}

// Start 在自己的学习路径上开始计时，activity 缺省为 study
func (s *TimeTrackingService) Start(userID, pathID uint, activity, notes string) (*model.TimeTracking, error) {
	if _, err := s.Paths.Owned(pathID, userID); err != nil {
		return nil, err
	}
	activity = strings.TrimSpace(activity)
	if activity == "" {
		activity = model.ActivityStudy
	}

	session := &model.TimeTracking{
		UserID:       userID,
		SkillPathID:  pathID,
		SessionStart: s.now().UTC(),
		ActivityType: activity,
		Notes:        notes,
	}
	if err := s.TrackingRepo.Create(session); err != nil {
		return nil, err
	}
	logger.Log.Info("Time tracking started",
		zap.Uint("user_id", userID),
		zap.Uint("session_id", session.ID),
	)
	return session, nil
}

// End 结束计时，时长按整分钟向下取整；不存在或已结束时返回 ErrSessionNotFound
func (s *TimeTrackingService) End(id, userID uint) (*model.TimeTracking, error) {
	session, err := s.TrackingRepo.FindOpen(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	end := s.now().UTC()
	minutes := int(end.Sub(session.SessionStart) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	session.SessionEnd = &end
	session.DurationMinutes = &minutes

	if err := s.TrackingRepo.End(session); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// List pathID 非 0 时只返回该路径的计时
func (s *TimeTrackingService) List(userID, pathID uint) ([]model.TimeTracking, error) {
	if pathID != 0 {
		if _, err := s.Paths.Owned(pathID, userID); err != nil {
			return nil, err
		}
	}
	return s.TrackingRepo.ListByUser(userID, pathID)
}
