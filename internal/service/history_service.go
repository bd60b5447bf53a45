package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/pkg/logger"

	"go.uber.org/zap"
)

type HistoryService struct {
	HistoryRepo *repository.HistoryRepository
}

func NewHistoryService(historyRepo *repository.HistoryRepository) *HistoryService {
	return &HistoryService{HistoryRepo: historyRepo}
}

// Record 保存一次生成结果；失败只记录日志，不影响主流程
func (s *HistoryService) Record(userID uint, kind model.HistoryType, input, result interface{}) {
	if s == nil || userID == 0 {
		return
	}
	in, err := json.Marshal(input)
	if err != nil {
		logger.Log.Warn("Failed to encode history input", zap.Error(err))
		return
	}
	out, err := json.Marshal(result)
	if err != nil {
		logger.Log.Warn("Failed to encode history result", zap.Error(err))
		return
	}
	entry := &model.UserHistory{
		UserID: userID,
		Type:   kind,
		Input:  string(in),
		Result: string(out),
	}
	if err := s.HistoryRepo.Create(entry); err != nil {
		logger.Log.Warn("Failed to record history",
			zap.Uint("user_id", userID),
			zap.String("type", string(kind)),
			zap.Error(err),
		)
	}
}

// swagger:model HistoryEntry
type HistoryEntry struct {
	ID        uint              `json:"id"`
	Type      model.HistoryType `json:"type"`
	Input     json.RawMessage   `json:"input"`
	Result    json.RawMessage   `json:"result"`
	CreatedAt string            `json:"created_at"`
}

func rawOrNull(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return json.RawMessage("null")
	}
	return json.RawMessage(s)
}

func (s *HistoryService) List(userID uint) ([]HistoryEntry, error) {
	rows, err := s.HistoryRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(rows))
	for _, h := range rows {
		entries = append(entries, HistoryEntry{
			ID:        h.ID,
			Type:      h.Type,
			Input:     rawOrNull(h.Input),
			Result:    rawOrNull(h.Result),
			CreatedAt: h.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return entries, nil
}

// ExportCSV 导出为 Type,Input,Result 三列
func (s *HistoryService) ExportCSV(userID uint) ([]byte, error) {
	rows, err := s.HistoryRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Type", "Input", "Result"}); err != nil {
		return nil, err
	}
	for _, h := range rows {
		if err := w.Write([]string{string(h.Type), h.Input, h.Result}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (s *HistoryService) Clear(userID uint) (int64, error) {
	return s.HistoryRepo.DeleteByUser(userID)
}
