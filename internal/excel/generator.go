package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/minsu-dev/eduops/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateMonthlyReport writes a workbook with a summary sheet and a
// per-day detail sheet including the route waypoints.
func (g *Generator) GenerateMonthlyReport(summary model.MonthlyTravelSummary, instructor model.Instructor) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, summary, instructor); err != nil {
		return nil, err
	}

	detailSheet := "Daily Records"
	file.NewSheet(detailSheet)
	if err := g.writeDetail(file, detailSheet, summary); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, summary model.MonthlyTravelSummary, instructor model.Instructor) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	finalDays := 0
	draftDays := 0
	totalDistance := 0.0
	for _, record := range summary.DailyRecords {
		totalDistance += record.TotalDistanceKm
		if record.Status == model.TravelStatusFinal {
			finalDays++
		} else {
			draftDays++
		}
	}

	set("A1", "Instructor")
	set("B1", instructor.Name)
	set("A2", "Month")
	set("B2", summary.Month)
	set("A3", "Travel days")
	set("B3", len(summary.DailyRecords))
	set("A4", "Confirmed days")
	set("B4", finalDays)
	set("A5", "Draft days")
	set("B5", draftDays)
	set("A6", "Total distance, km")
	set("B6", fmt.Sprintf("%.2f", totalDistance))
	set("A7", "Payable travel expense, KRW")
	set("B7", summary.TotalTravelExpense)

	_ = file.SetColWidth(sheet, "A", "A", 30)
	_ = file.SetColWidth(sheet, "B", "B", 24)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, summary model.MonthlyTravelSummary) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Date",
		"Distance, km",
		"Fee, KRW",
		"Status",
		"Stops",
		"Snapshot",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, record := range summary.DailyRecords {
		row := i + 2
		set(fmt.Sprintf("A%d", row), formatDate(record.TravelDate))
		set(fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", record.TotalDistanceKm))
		set(fmt.Sprintf("C%d", row), record.TravelFeeAmountKrw)
		set(fmt.Sprintf("D%d", row), string(record.Status))
		set(fmt.Sprintf("E%d", row), routeLabel(record.Waypoints))
		set(fmt.Sprintf("F%d", row), formatString(record.SnapshotURL))
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "D", 14)
	_ = file.SetColWidth(sheet, "E", "E", 60)
	_ = file.SetColWidth(sheet, "F", "F", 40)
	return nil
}

func routeLabel(waypoints []model.TravelWaypoint) string {
	if len(waypoints) == 0 {
		return ""
	}
	label := ""
	for i, waypoint := range waypoints {
		if i > 0 {
			label += " - "
		}
		label += waypoint.Name
	}
	return label
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
