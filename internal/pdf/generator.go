package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/minsu-dev/eduops/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// GenerateMonthlyStatement renders a one-page monthly travel expense
// statement with a per-day table and the payable total.
func (g *Generator) GenerateMonthlyStatement(summary model.MonthlyTravelSummary, instructor model.Instructor) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Monthly Travel Expense Statement", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Instructor: %s", instructor.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Month: %s", summary.Month), "", 1, "L", false, 0, "")
	if instructor.HomeAddress != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Home address: %s", safeValue(*instructor.HomeAddress)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	headers := []string{"Date", "Distance, km", "Fee, KRW", "Status"}
	colWidths := []float64{40, 45, 50, 45}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, record := range summary.DailyRecords {
		row := []string{
			formatDate(record.TravelDate),
			fmt.Sprintf("%.2f", record.TotalDistanceKm),
			fmt.Sprintf("%d", record.TravelFeeAmountKrw),
			string(record.Status),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Payable total (FINAL days only): %d KRW", summary.TotalTravelExpense), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, "Approved by: ______________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
