package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"strconv"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

type ExportService struct {
	Paths   *SkillPathService
	Storage *StorageService
}

func NewExportService(paths *SkillPathService, storage *StorageService) *ExportService {
	return &ExportService{Paths: paths, Storage: storage}
}

// ExportFile 已渲染好的导出文件
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export 渲染路线为 CSV 或 PDF（默认），并尽力归档一份到存储
func (s *ExportService) Export(ctx context.Context, pathID, userID uint, format string) (*ExportFile, error) {
	path, err := s.Paths.Owned(pathID, userID)
	if err != nil {
		return nil, err
	}

	var file *ExportFile
	if format == util.ExportCSV {
		data, err := RenderCSV(path.Roadmap())
		if err != nil {
			return nil, err
		}
		file = &ExportFile{
			Filename:    fmt.Sprintf("roadmap_%d.csv", pathID),
			ContentType: util.MimeCSV,
			Data:        data,
		}
	} else {
		data, err := RenderPDF(path.Title, path.Description, path.Roadmap())
		if err != nil {
			return nil, err
		}
		file = &ExportFile{
			Filename:    fmt.Sprintf("roadmap_%d.pdf", pathID),
			ContentType: util.MimePDF,
			Data:        data,
		}
	}

	if s.Storage != nil {
		if url, err := s.Storage.Archive(ctx, userID, file.Filename, file.Data, file.ContentType); err != nil {
			logger.Log.Warn("Failed to archive export",
				zap.Uint("skill_path_id", pathID),
				zap.Error(err),
			)
		} else {
			logger.Log.Debug("Export archived", zap.String("url", url))
		}
	}
	return file, nil
}

// RenderCSV 每个目标一行，表头为 Week,Goal
func RenderCSV(roadmap model.Roadmap) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Week", "Goal"}); err != nil {
		return nil, err
	}
	for _, week := range roadmap.Weeks {
		for _, goal := range week.Goals {
			if err := w.Write([]string{strconv.Itoa(week.Week), goal}); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func RenderPDF(title, description string, roadmap model.Roadmap) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 14, "MapMyRoute", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "I", 12)
	pdf.MultiCell(0, 10, tr(description), "", "C", false)
	pdf.Ln(4)

	for _, week := range roadmap.Weeks {
		pdf.SetFont("Arial", "B", 14)
		pdf.Ln(4)
		pdf.CellFormat(0, 10, fmt.Sprintf("Week %d", week.Week), "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		for _, goal := range week.Goals {
			pdf.Cell(10, 8, "")
			pdf.MultiCell(0, 8, tr("- "+goal), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
