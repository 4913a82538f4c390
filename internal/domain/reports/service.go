package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	return s.Store.Overview(ctx)
}

// LeaveSummaryPDF renders the year's leave requests as a simple table.
func (s *Service) LeaveSummaryPDF(ctx context.Context, year int) ([]byte, error) {
	rows, err := s.Store.LeaveSummary(ctx, year)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Leave Summary %d", year))
	pdf.Ln(14)

	headers := []string{"Employee", "Department", "Type", "Start", "End", "Status"}
	widths := []float64{45, 35, 30, 25, 25, 30}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		cells := []string{r.EmployeeName, r.Department, r.LeaveType, r.StartDate, r.EndDate, r.Status}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(rows) == 0 {
		pdf.CellFormat(190, 6, "No leave requests recorded for this year.", "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
