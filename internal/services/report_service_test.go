package services

import (
	"context"
	"testing"
	"time"

	"AnyCademyAPI/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeReportStore struct {
	splits []model.RevenueSplit
}

func (f *fakeReportStore) ListAll(ctx context.Context) ([]model.RevenueSplit, error) {
	return f.splits, nil
}

func TestRevenueSplitReport(t *testing.T) {
	instructorID := uuid.New()
	courseID := uuid.New()
	store := &fakeReportStore{splits: []model.RevenueSplit{
		{
			SplitID:         1,
			PaymentID:       10,
			InstructorID:    instructorID,
			CourseID:        courseID,
			TotalAmount:     70000,
			FeePercent:      10,
			FeeAmount:       7000,
			InstructorShare: 63000,
			Status:          model.SplitCalculated,
			CreatedAt:       time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			SplitID:         2,
			PaymentID:       11,
			InstructorID:    instructorID,
			CourseID:        courseID,
			TotalAmount:     150000,
			FeePercent:      10,
			FeeAmount:       15000,
			InstructorShare: 135000,
			Status:          model.SplitPaidOut,
			CreatedAt:       time.Date(2026, 8, 16, 14, 0, 0, 0, time.UTC),
		},
	}}

	buf, err := NewReportService(store).RevenueSplitReport(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Revenue Splits"

	// Instructor and course ids come out as full UUIDs so rows stay
	// unambiguous across instructors.
	got, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, instructorID.String(), got)

	got, err = f.GetCellValue(sheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, courseID.String(), got)

	// Totals line after the data rows.
	got, err = f.GetCellValue(sheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", got)

	got, err = f.GetCellValue(sheet, "E4")
	require.NoError(t, err)
	assert.Equal(t, "220000", got)

	got, err = f.GetCellValue(sheet, "H4")
	require.NoError(t, err)
	assert.Equal(t, "198000", got)
}
