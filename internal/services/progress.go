package services

import (
	"github.com/pesantren-digital/school-service/internal/models"
)

// PerformanceTier is the categorical label derived from grade average and
// attendance rate.
type PerformanceTier string

const (
	TierExcellent      PerformanceTier = "excellent"
	TierGood           PerformanceTier = "good"
	TierSatisfactory   PerformanceTier = "satisfactory"
	TierNeedsAttention PerformanceTier = "needs_attention"
)

// DailyAttendanceRate is the daily-report formula: present and late both
// count as attended. Returns a percentage rounded to one decimal place, 0
// when there are no records.
func DailyAttendanceRate(records []*models.Attendance) float64 {
	if len(records) == 0 {
		return 0
	}
	attended := 0
	for _, r := range records {
		if r.Status == models.AttendancePresent || r.Status == models.AttendanceLate {
			attended++
		}
	}
	return roundFloat(float64(attended)/float64(len(records))*100, 1)
}

// CohortAttendanceRate is the progress-report formula: only present counts.
// This intentionally differs from DailyAttendanceRate; the two rates feed
// different reports and must not be unified.
func CohortAttendanceRate(presentCount, total int64) float64 {
	if total == 0 {
		return 0
	}
	return roundFloat(float64(presentCount)/float64(total)*100, 1)
}

// TierFor evaluates the performance tier in strict order; the first matching
// band wins. Attendance below 85 always lands in needs_attention no matter
// how high the grade average is.
func TierFor(avgGrade, attendanceRate float64) PerformanceTier {
	switch {
	case avgGrade >= 85 && attendanceRate >= 90:
		return TierExcellent
	case avgGrade >= 75 && attendanceRate >= 85:
		return TierGood
	case avgGrade >= 65 && attendanceRate >= 85:
		return TierSatisfactory
	default:
		return TierNeedsAttention
	}
}

// Cohort-level thresholds. These are a separate policy from TierFor and use
// different cut-offs on purpose.
func isCohortExcellent(avgGrade, attendanceRate float64) bool {
	return avgGrade >= 85 && attendanceRate >= 90
}

func needsCohortAttention(avgGrade, attendanceRate float64) bool {
	return avgGrade < 70 || attendanceRate < 80
}
