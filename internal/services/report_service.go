package services

import (
	"bytes"
	"context"
	"fmt"

	"AnyCademyAPI/internal/model"

	"github.com/xuri/excelize/v2"
)

type reportSplitStore interface {
	ListAll(ctx context.Context) ([]model.RevenueSplit, error)
}

// ReportService exports revenue splits as a spreadsheet for the admin
// dashboard.
type ReportService struct {
	Splits reportSplitStore
}

func NewReportService(sr reportSplitStore) *ReportService {
	return &ReportService{Splits: sr}
}

var reportHeader = []string{
	"Split ID", "Payment ID", "Instructor ID", "Course ID",
	"Total Amount", "Fee %", "Fee Amount", "Instructor Share", "Status", "Created At",
}

// RevenueSplitReport renders every split row plus a totals line. Amounts stay
// numeric so the spreadsheet can be summed and filtered.
func (s *ReportService) RevenueSplitReport(ctx context.Context) (*bytes.Buffer, error) {
	splits, err := s.Splits.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Revenue Splits"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, h := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	var totalAmount, totalFee, totalShare int64
	for i, sp := range splits {
		row := i + 2
		f.SetCellValue(sheet, cellAt(1, row), sp.SplitID)
		f.SetCellValue(sheet, cellAt(2, row), sp.PaymentID)
		f.SetCellValue(sheet, cellAt(3, row), sp.InstructorID.String())
		f.SetCellValue(sheet, cellAt(4, row), sp.CourseID.String())
		f.SetCellValue(sheet, cellAt(5, row), sp.TotalAmount)
		f.SetCellValue(sheet, cellAt(6, row), sp.FeePercent)
		f.SetCellValue(sheet, cellAt(7, row), sp.FeeAmount)
		f.SetCellValue(sheet, cellAt(8, row), sp.InstructorShare)
		f.SetCellValue(sheet, cellAt(9, row), sp.Status)
		f.SetCellValue(sheet, cellAt(10, row), sp.CreatedAt.Format("2006-01-02 15:04"))

		totalAmount += sp.TotalAmount
		totalFee += sp.FeeAmount
		totalShare += sp.InstructorShare
	}

	totalRow := len(splits) + 2
	f.SetCellValue(sheet, cellAt(1, totalRow), "TOTAL")
	f.SetCellValue(sheet, cellAt(5, totalRow), totalAmount)
	f.SetCellValue(sheet, cellAt(7, totalRow), totalFee)
	f.SetCellValue(sheet, cellAt(8, totalRow), totalShare)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf, nil
}

func cellAt(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
