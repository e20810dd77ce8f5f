package models

import (
	"time"

	"gorm.io/gorm"
)

type Subject struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Code string `json:"code" gorm:"uniqueIndex;not null;size:20"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Subject) TableName() string {
	return "subjects"
}

// Grade holds one score per (student, subject, academic year, semester).
type Grade struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	StudentID    uint     `json:"student_id" gorm:"not null;uniqueIndex:idx_grades_key"`
	SubjectID    uint     `json:"subject_id" gorm:"not null;uniqueIndex:idx_grades_key"`
	AcademicYear string   `json:"academic_year" gorm:"not null;size:20;uniqueIndex:idx_grades_key"`
	Semester     int      `json:"semester" gorm:"not null;uniqueIndex:idx_grades_key"`
	Score        *float64 `json:"score"`

	GradedBy *uint `json:"graded_by"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Grade) TableName() string {
	return "grades"
}

// Exam is a scheduled assessment for a subject.
type Exam struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null;size:200"`
	SubjectID       uint      `json:"subject_id" gorm:"not null;index"`
	Class           string    `json:"class" gorm:"size:50;index"`
	AcademicYear    string    `json:"academic_year" gorm:"size:20"`
	Semester        int       `json:"semester"`
	StartTime       time.Time `json:"start_time" gorm:"not null;index"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Exam) TableName() string {
	return "exams"
}
