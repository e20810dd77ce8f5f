package models

import (
	"time"

	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentActive      StudentStatus = "active"
	StudentInactive    StudentStatus = "inactive"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"
)

func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentGraduated, StudentTransferred:
		return true
	}
	return false
}

type Student struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// StudentCode is the school-issued identifier, unique within a class.
	StudentCode  string        `json:"student_id" gorm:"column:student_code;not null;size:50;uniqueIndex:idx_students_class_code"`
	Name         string        `json:"name" gorm:"not null;size:100"`
	Class        string        `json:"class" gorm:"not null;size:50;uniqueIndex:idx_students_class_code"`
	AcademicYear string        `json:"academic_year" gorm:"not null;size:20"`
	Status       StudentStatus `json:"status" gorm:"not null;size:20;default:active"`

	// Linked lazily on first student login.
	UserID *uint `json:"user_id" gorm:"uniqueIndex"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Student) TableName() string {
	return "students"
}
