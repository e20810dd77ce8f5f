package services

import (
	"testing"

	"github.com/pesantren-digital/school-service/internal/models"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name           string
		avgGrade       float64
		attendanceRate float64
		want           PerformanceTier
	}{
		{"both at excellent threshold", 85, 90, TierExcellent},
		{"grade just below excellent", 84.9, 90, TierGood},
		{"attendance just below excellent", 85, 89.9, TierGood},
		{"good band", 75, 85, TierGood},
		{"satisfactory band", 65, 85, TierSatisfactory},
		{"grade below good stays satisfactory", 74.9, 90, TierSatisfactory},
		{"decent grades cannot offset weak attendance", 80, 80, TierNeedsAttention},
		{"attendance just below satisfactory", 65, 84.9, TierNeedsAttention},
		{"high grade low attendance falls through", 95, 70, TierNeedsAttention},
		{"high attendance low grade falls through", 50, 100, TierNeedsAttention},
		{"both low", 40, 40, TierNeedsAttention},
		{"zero everything", 0, 0, TierNeedsAttention},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TierFor(tt.avgGrade, tt.attendanceRate)
			if got != tt.want {
				t.Errorf("TierFor(%v, %v) = %v, want %v", tt.avgGrade, tt.attendanceRate, got, tt.want)
			}
		})
	}
}

func TestDailyAttendanceRate(t *testing.T) {
	record := func(status models.AttendanceStatus) *models.Attendance {
		return &models.Attendance{Status: status}
	}

	tests := []struct {
		name    string
		records []*models.Attendance
		want    float64
	}{
		{"no records", nil, 0},
		{"all present", []*models.Attendance{
			record(models.AttendancePresent),
			record(models.AttendancePresent),
		}, 100},
		{"late counts as attended", []*models.Attendance{
			record(models.AttendancePresent),
			record(models.AttendanceLate),
			record(models.AttendanceAbsent),
		}, 66.7},
		{"sick and permission do not count", []*models.Attendance{
			record(models.AttendanceSick),
			record(models.AttendancePermission),
			record(models.AttendanceAbsent),
		}, 0},
		{"rounded to one decimal", []*models.Attendance{
			record(models.AttendancePresent),
			record(models.AttendanceAbsent),
			record(models.AttendanceAbsent),
		}, 33.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyAttendanceRate(tt.records)
			if got != tt.want {
				t.Errorf("DailyAttendanceRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCohortAttendanceRate(t *testing.T) {
	tests := []struct {
		name    string
		present int64
		total   int64
		want    float64
	}{
		{"zero total", 0, 0, 0},
		{"full attendance", 10, 10, 100},
		{"two thirds present", 2, 3, 66.7},
		{"none present", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CohortAttendanceRate(tt.present, tt.total)
			if got != tt.want {
				t.Errorf("CohortAttendanceRate(%d, %d) = %v, want %v", tt.present, tt.total, got, tt.want)
			}
		})
	}
}

// The cohort counters use their own cut-offs; a student can be neither
// excellent nor in need of attention.
func TestCohortThresholds(t *testing.T) {
	tests := []struct {
		name           string
		avgGrade       float64
		attendanceRate float64
		excellent      bool
		attention      bool
	}{
		{"excellent", 90, 95, true, false},
		{"boundary excellent", 85, 90, true, false},
		{"middle of the cohort", 78, 85, false, false},
		{"low grade", 69.9, 95, false, true},
		{"low attendance", 90, 79.9, false, true},
		{"attention boundary not crossed", 70, 80, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCohortExcellent(tt.avgGrade, tt.attendanceRate); got != tt.excellent {
				t.Errorf("isCohortExcellent(%v, %v) = %v, want %v", tt.avgGrade, tt.attendanceRate, got, tt.excellent)
			}
			if got := needsCohortAttention(tt.avgGrade, tt.attendanceRate); got != tt.attention {
				t.Errorf("needsCohortAttention(%v, %v) = %v, want %v", tt.avgGrade, tt.attendanceRate, got, tt.attention)
			}
		})
	}
}
