package service

import (
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/repository"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	Paths        *SkillPathService
}

func NewProgressService(progressRepo *repository.ProgressRepository, paths *SkillPathService) *ProgressService {
	return &ProgressService{ProgressRepo: progressRepo, Paths: paths}
}

type ProgressInput struct {
	HoursSpent           int
	TopicsCovered        []string
	Notes                string
	CompletionPercentage int
	// Date 为空时记为今天
	Date *model.Date
}

func (s *ProgressService) Add(userID, pathID uint, in ProgressInput) (*model.ProgressEntry, error) {
	if _, err := s.Paths.Owned(pathID, userID); err != nil {
		return nil, err
	}

	entry := &model.ProgressEntry{
		UserID:               userID,
		SkillPathID:          pathID,
		Date:                 model.Today(),
		HoursSpent:           in.HoursSpent,
		TopicsCovered:        in.TopicsCovered,
		Notes:                in.Notes,
		CompletionPercentage: in.CompletionPercentage,
	}
	if in.Date != nil && !in.Date.IsZero() {
		entry.Date = *in.Date
	}
	if entry.TopicsCovered == nil {
		entry.TopicsCovered = []string{}
	}
	if err := s.ProgressRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ProgressService) List(userID, pathID uint) ([]model.ProgressEntry, error) {
	if _, err := s.Paths.Owned(pathID, userID); err != nil {
		return nil, err
	}
	return s.ProgressRepo.ListByPath(userID, pathID)
}
