package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
)

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var exportStatuses = []models.AttendanceStatus{
	models.AttendancePresent,
	models.AttendanceLate,
	models.AttendanceSick,
	models.AttendancePermission,
	models.AttendanceAbsent,
}

// AttendanceWorkbook builds one row per student with a column per status and
// the cohort attendance rate.
func (s *exportService) AttendanceWorkbook(ctx context.Context, from, to time.Time, class string) (*excelize.File, error) {
	students, err := s.repo.Student().ListActiveByClass(ctx, nil, class)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	tallies, err := s.repo.Report().AttendanceTallies(ctx, nil, from, to, class)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance tallies: %w", err)
	}

	counts := make(map[uint]map[models.AttendanceStatus]int64)
	for _, t := range tallies {
		if counts[t.StudentID] == nil {
			counts[t.StudentID] = make(map[models.AttendanceStatus]int64)
		}
		counts[t.StudentID][t.Status] = t.Count
	}

	sort.Slice(students, func(i, j int) bool {
		if students[i].Class != students[j].Class {
			return students[i].Class < students[j].Class
		}
		return students[i].Name < students[j].Name
	})

	f := excelize.NewFile()
	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Student ID", "Name", "Class", "Present", "Late", "Sick", "Permission", "Absent", "Rate (%)"}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for row, st := range students {
		var total, present int64
		values := []interface{}{st.StudentCode, st.Name, st.Class}
		for _, status := range exportStatuses {
			n := counts[st.ID][status]
			total += n
			if status == models.AttendancePresent {
				present = n
			}
			values = append(values, n)
		}
		values = append(values, CohortAttendanceRate(present, total))

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "C", 18)
	_ = f.SetColWidth(sheet, "D", "I", 12)

	s.logger.Info("Attendance workbook built",
		"students", len(students),
		"from", from.Format(dateLayout),
		"to", to.Format(dateLayout))

	return f, nil
}
