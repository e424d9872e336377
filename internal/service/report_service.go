package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/model"
)

type ExcelGenerator interface {
	GenerateMonthlyReport(summary model.MonthlyTravelSummary, instructor model.Instructor) ([]byte, error)
}

type PDFGenerator interface {
	GenerateMonthlyStatement(summary model.MonthlyTravelSummary, instructor model.Instructor) ([]byte, error)
}

// ReportService renders monthly travel summaries as downloadable
// files.
type ReportService struct {
	travel      *TravelService
	instructors InstructorLookup
	excel       ExcelGenerator
	pdf         PDFGenerator
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewReportService(travel *TravelService, instructors InstructorLookup, excel ExcelGenerator, pdf PDFGenerator) *ReportService {
	return &ReportService{
		travel:      travel,
		instructors: instructors,
		excel:       excel,
		pdf:         pdf,
	}
}

func (s *ReportService) ExportMonthlyReport(ctx context.Context, instructorID uuid.UUID, month string) (*ExportResult, error) {
	summary, instructor, err := s.load(ctx, instructorID, month)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.GenerateMonthlyReport(*summary, *instructor)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName(instructor.Name, month, "xlsx"),
		Content:  content,
	}, nil
}

func (s *ReportService) ExportMonthlyStatement(ctx context.Context, instructorID uuid.UUID, month string) (*ExportResult, error) {
	summary, instructor, err := s.load(ctx, instructorID, month)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.GenerateMonthlyStatement(*summary, *instructor)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName(instructor.Name, month, "pdf"),
		Content:  content,
	}, nil
}

func (s *ReportService) load(ctx context.Context, instructorID uuid.UUID, month string) (*model.MonthlyTravelSummary, *model.Instructor, error) {
	instructor, err := s.instructors.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: instructor %s", ErrNotFound, instructorID)
		}
		return nil, nil, err
	}

	summary, err := s.travel.GetMonthlySummary(ctx, instructorID, month)
	if err != nil {
		return nil, nil, err
	}
	return summary, instructor, nil
}

func buildFileName(instructorName, month, ext string) string {
	name := sanitizeFileName(instructorName)
	if name == "" {
		name = "instructor"
	}
	return fmt.Sprintf("travel-%s-%s.%s", name, month, ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
