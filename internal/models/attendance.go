package models

import (
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent    AttendanceStatus = "present"
	AttendanceLate       AttendanceStatus = "late"
	AttendanceSick       AttendanceStatus = "sick"
	AttendancePermission AttendanceStatus = "permission"
	AttendanceAbsent     AttendanceStatus = "absent"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceSick, AttendancePermission, AttendanceAbsent:
		return true
	}
	return false
}

// Attendance holds one record per (student, date, subject). Resubmission for
// the same key updates the row in place; the idx_attendance_key unique index
// backing the ON CONFLICT upsert is created in the migration with NULLS NOT
// DISTINCT, so the subject-less daily rows share one key per (student, date)
// instead of piling up as distinct NULL-subject rows.
type Attendance struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	StudentID uint             `json:"student_id" gorm:"not null;index"`
	Date      time.Time        `json:"date" gorm:"not null;type:date"`
	SubjectID *uint            `json:"subject_id"`
	Status    AttendanceStatus `json:"status" gorm:"not null;size:20"`

	// TimeIn is set only when status is present.
	TimeIn *time.Time `json:"time_in"`

	RecordedBy *uint `json:"recorded_by"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

func (Attendance) TableName() string {
	return "attendances"
}
