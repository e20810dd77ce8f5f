package services

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/validator"
)

// ===== REQUEST DTOs (validated forms) =====

type LoginRequest = validator.LoginRequest
type StudentLoginRequest = validator.StudentLoginRequest
type UserCreateRequest = validator.UserCreateRequest
type UserUpdateRequest = validator.UserUpdateRequest
type RoleCreateRequest = validator.RoleCreateRequest
type RoleUpdateRequest = validator.RoleUpdateRequest
type StudentCreateRequest = validator.StudentCreateRequest
type StudentUpdateRequest = validator.StudentUpdateRequest
type AttendanceRecordRequest = validator.AttendanceRecordRequest
type AttendanceBatchRequest = validator.AttendanceBatchRequest
type GradeRecordRequest = validator.GradeRecordRequest
type ExamCreateRequest = validator.ExamCreateRequest
type ExamUpdateRequest = validator.ExamUpdateRequest
type PageCreateRequest = validator.PageCreateRequest
type PageUpdateRequest = validator.PageUpdateRequest
type FacilityRequest = validator.FacilityRequest
type ProjectRequest = validator.ProjectRequest
type AchievementRequest = validator.AchievementRequest
type TeamMemberRequest = validator.TeamMemberRequest
type SettingUpdateRequest = validator.SettingUpdateRequest

// ===== AUTH DTOs =====

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// ===== ATTENDANCE DTOs =====

type AttendanceListResponse struct {
	Date    string               `json:"date"`
	Class   string               `json:"class,omitempty"`
	Records []*models.Attendance `json:"records"`
	Rate    float64              `json:"rate"`
}

type AttendanceBatchResponse struct {
	Date     string  `json:"date"`
	Recorded int     `json:"recorded"`
	Rate     float64 `json:"rate"`
}

// ===== PROGRESS DTOs =====

type StudentProgressResponse struct {
	StudentID      uint            `json:"student_id"`
	StudentCode    string          `json:"student_code"`
	Name           string          `json:"name"`
	Class          string          `json:"class"`
	AverageGrade   float64         `json:"average_grade"`
	AttendanceRate float64         `json:"attendance_rate"`
	Tier           PerformanceTier `json:"tier"`
}

type ClassProgressResponse struct {
	Class               string                    `json:"class,omitempty"`
	Students            []StudentProgressResponse `json:"students"`
	ExcellentCount      int                       `json:"excellent_count"`
	NeedsAttentionCount int                       `json:"needs_attention_count"`
	Total               int                       `json:"total"`
}

// DailyStatusTally is one day of the weekly report: counts per status.
type DailyStatusTally struct {
	Date     string                           `json:"date"`
	ByStatus map[models.AttendanceStatus]int64 `json:"by_status"`
	Total    int64                            `json:"total"`
}

type WeeklyReportResponse struct {
	From  string             `json:"from"`
	To    string             `json:"to"`
	Class string             `json:"class,omitempty"`
	Days  []DailyStatusTally `json:"days"`
}

// StudentStatusTally is one student of the monthly report.
type StudentStatusTally struct {
	StudentID   uint                             `json:"student_id"`
	StudentName string                           `json:"student_name"`
	ByStatus    map[models.AttendanceStatus]int64 `json:"by_status"`
	Total       int64                            `json:"total"`
}

type MonthlyReportResponse struct {
	Month    string               `json:"month"`
	Class    string               `json:"class,omitempty"`
	Students []StudentStatusTally `json:"students"`
}

// DashboardResponse aggregates independent sections; a failing section is
// zeroed, never fatal.
type DashboardResponse struct {
	Overview  *repositories.OverviewCounts `json:"overview"`
	TodayRate float64                      `json:"today_rate"`
	Progress  *ClassProgressResponse       `json:"progress"`
	Settings  map[string]string            `json:"settings"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	StudentLogin(ctx context.Context, req StudentLoginRequest) (*LoginResponse, error)
	// Logout revokes the token until its natural expiry.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time, userID uint) error
	// VerifyToken authenticates a bearer token and resolves the acting user
	// with roles and permissions, recomputed per request.
	VerifyToken(ctx context.Context, token string) (*models.User, *TokenClaims, error)
}

type AttendanceService interface {
	Record(ctx context.Context, recordedBy uint, req AttendanceRecordRequest) (*models.Attendance, error)
	RecordBatch(ctx context.Context, recordedBy uint, req AttendanceBatchRequest) (*AttendanceBatchResponse, error)
	ListForDate(ctx context.Context, date time.Time, class string) (*AttendanceListResponse, error)
}

type ProgressService interface {
	StudentProgress(ctx context.Context, studentID uint) (*StudentProgressResponse, error)
	ClassProgress(ctx context.Context, class, academicYear string) (*ClassProgressResponse, error)
	WeeklyReport(ctx context.Context, from time.Time, class string) (*WeeklyReportResponse, error)
	MonthlyReport(ctx context.Context, month time.Time, class string) (*MonthlyReportResponse, error)
	Dashboard(ctx context.Context) (*DashboardResponse, error)
}

type UserService interface {
	Create(ctx context.Context, req UserCreateRequest) (*models.User, error)
	Update(ctx context.Context, id uint, req UserUpdateRequest) (*models.User, error)
	Delete(ctx context.Context, actorID, id uint) error
	Get(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
}

type RoleService interface {
	Create(ctx context.Context, req RoleCreateRequest) (*models.Role, error)
	Update(ctx context.Context, id uint, req RoleUpdateRequest) (*models.Role, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*models.Role, error)
	List(ctx context.Context, filters repositories.RoleFilters) ([]*models.Role, int64, error)
	Permissions(ctx context.Context) ([]*models.Permission, error)
}

type StudentService interface {
	Create(ctx context.Context, req StudentCreateRequest) (*models.Student, error)
	Import(ctx context.Context, reqs []StudentCreateRequest) (int, error)
	Update(ctx context.Context, id uint, req StudentUpdateRequest) (*models.Student, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*models.Student, error)
	List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, int64, error)
}

type GradeService interface {
	Record(ctx context.Context, gradedBy uint, req GradeRecordRequest) (*models.Grade, error)
	List(ctx context.Context, filters repositories.GradeFilters) ([]*models.Grade, int64, error)
	Delete(ctx context.Context, id uint) error

	Subjects(ctx context.Context) ([]*models.Subject, error)
	CreateSubject(ctx context.Context, name, code string) (*models.Subject, error)

	CreateExam(ctx context.Context, req ExamCreateRequest) (*models.Exam, error)
	UpdateExam(ctx context.Context, id uint, req ExamUpdateRequest) (*models.Exam, error)
	DeleteExam(ctx context.Context, id uint) error
	GetExam(ctx context.Context, id uint) (*models.Exam, error)
	ListExams(ctx context.Context, filters repositories.ExamFilters) ([]*models.Exam, int64, error)
}

type ContentService interface {
	// Pages
	CreatePage(ctx context.Context, createdBy uint, req PageCreateRequest) (*models.Page, error)
	UpdatePage(ctx context.Context, actor *models.User, id uint, req PageUpdateRequest) (*models.Page, error)
	DeletePage(ctx context.Context, actor *models.User, id uint) error
	GetPage(ctx context.Context, id uint) (*models.Page, error)
	GetPageBySlug(ctx context.Context, slug string) (*models.Page, error)
	ListPages(ctx context.Context, filters repositories.ContentFilters) ([]*models.Page, int64, error)
	PublishedPages(ctx context.Context) ([]*models.Page, error)

	// Facilities
	CreateFacility(ctx context.Context, req FacilityRequest) (*models.Facility, error)
	UpdateFacility(ctx context.Context, id uint, req FacilityRequest) (*models.Facility, error)
	DeleteFacility(ctx context.Context, id uint) error
	ToggleFacility(ctx context.Context, id uint) (*models.Facility, error)
	ListFacilities(ctx context.Context, filters repositories.ContentFilters) ([]*models.Facility, int64, error)

	// Projects
	CreateProject(ctx context.Context, req ProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, id uint, req ProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id uint) error
	ToggleProject(ctx context.Context, id uint) (*models.Project, error)
	ListProjects(ctx context.Context, filters repositories.ContentFilters) ([]*models.Project, int64, error)

	// Achievements
	CreateAchievement(ctx context.Context, req AchievementRequest) (*models.Achievement, error)
	UpdateAchievement(ctx context.Context, id uint, req AchievementRequest) (*models.Achievement, error)
	DeleteAchievement(ctx context.Context, id uint) error
	ToggleAchievement(ctx context.Context, id uint) (*models.Achievement, error)
	ListAchievements(ctx context.Context, filters repositories.ContentFilters) ([]*models.Achievement, int64, error)

	// Team members
	CreateTeamMember(ctx context.Context, req TeamMemberRequest) (*models.TeamMember, error)
	UpdateTeamMember(ctx context.Context, id uint, req TeamMemberRequest) (*models.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id uint) error
	ToggleTeamMember(ctx context.Context, id uint) (*models.TeamMember, error)
	ListTeamMembers(ctx context.Context, filters repositories.ContentFilters) ([]*models.TeamMember, int64, error)

	// Settings
	Setting(ctx context.Context, key string) string
	UpdateSetting(ctx context.Context, req SettingUpdateRequest) error
	Settings(ctx context.Context) (map[string]string, error)
}

type ExportService interface {
	// AttendanceWorkbook builds an Excel workbook with per-student status
	// tallies and rates for the period.
	AttendanceWorkbook(ctx context.Context, from, to time.Time, class string) (*excelize.File, error)
}

// ServiceManager aggregates all services.
type ServiceManager interface {
	Auth() AuthService
	Attendance() AttendanceService
	Progress() ProgressService
	User() UserService
	Role() RoleService
	Student() StudentService
	Grade() GradeService
	Content() ContentService
	Export() ExportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
