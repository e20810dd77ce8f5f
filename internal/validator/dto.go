package validator

// ===== AUTH =====

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// StudentLoginRequest is the simplified student login: class name plus the
// school-issued student identifier. The password defaults to the identifier
// on first login.
type StudentLoginRequest struct {
	Class     string `json:"class" validate:"required,max=50"`
	StudentID string `json:"student_id" validate:"required,max=50"`
	Password  string `json:"password" validate:"required"`
}

// ===== USERS =====

type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	RoleIDs  []uint `json:"role_ids"`
}

type UserUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	RoleIDs  []uint  `json:"role_ids"`
}

// ===== ROLES =====

type RoleCreateRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	DisplayName   string `json:"display_name" validate:"required,max=100"`
	Description   string `json:"description" validate:"omitempty,max=500"`
	PermissionIDs []uint `json:"permission_ids"`
	UserIDs       []uint `json:"user_ids"`
}

type RoleUpdateRequest struct {
	DisplayName   *string `json:"display_name" validate:"omitempty,max=100"`
	Description   *string `json:"description" validate:"omitempty,max=500"`
	PermissionIDs []uint  `json:"permission_ids"`
	UserIDs       []uint  `json:"user_ids"`
}

// ===== STUDENTS =====

type StudentCreateRequest struct {
	StudentCode  string `json:"student_id" validate:"required,max=50"`
	Name         string `json:"name" validate:"required,max=100"`
	Class        string `json:"class" validate:"required,max=50"`
	AcademicYear string `json:"academic_year" validate:"required,max=20"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive graduated transferred"`
}

type StudentUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	Class        *string `json:"class" validate:"omitempty,max=50"`
	AcademicYear *string `json:"academic_year" validate:"omitempty,max=20"`
	Status       *string `json:"status" validate:"omitempty,oneof=active inactive graduated transferred"`
}

// ===== ATTENDANCE =====

type AttendanceRecordRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=present late sick permission absent"`
	SubjectID *uint  `json:"subject_id"`
}

// AttendanceBatchRequest applies one status per student for a date as a
// batch of upserts.
type AttendanceBatchRequest struct {
	Date      string          `json:"date" validate:"required,datetime=2006-01-02"`
	SubjectID *uint           `json:"subject_id"`
	Records   map[uint]string `json:"records" validate:"required,min=1,dive,oneof=present late sick permission absent"`
}

// ===== GRADES & EXAMS =====

type GradeRecordRequest struct {
	StudentID    uint     `json:"student_id" validate:"required"`
	SubjectID    uint     `json:"subject_id" validate:"required"`
	AcademicYear string   `json:"academic_year" validate:"required,max=20"`
	Semester     int      `json:"semester" validate:"required,min=1,max=2"`
	Score        *float64 `json:"score" validate:"omitempty,min=0,max=100"`
}

type ExamCreateRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	SubjectID       uint   `json:"subject_id" validate:"required"`
	Class           string `json:"class" validate:"omitempty,max=50"`
	AcademicYear    string `json:"academic_year" validate:"omitempty,max=20"`
	Semester        int    `json:"semester" validate:"omitempty,min=1,max=2"`
	StartTime       string `json:"start_time" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=5,max=480"`
}

type ExamUpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Class           *string `json:"class" validate:"omitempty,max=50"`
	StartTime       *string `json:"start_time"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=5,max=480"`
}

// ===== CONTENT =====

type PageCreateRequest struct {
	Slug      string `json:"slug" validate:"required,max=150"`
	Title     string `json:"title" validate:"required,max=200"`
	Content   any    `json:"content"`
	Published bool   `json:"published"`
}

type PageUpdateRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Content   any     `json:"content"`
	Published *bool   `json:"published"`
}

type FacilityRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=500"`
	SortOrder   int     `json:"sort_order"`
}

type ProjectRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url,max=500"`
}

type AchievementRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	AchievedAt  string `json:"achieved_at" validate:"omitempty,datetime=2006-01-02"`
}

type TeamMemberRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Position  string  `json:"position" validate:"required,max=100"`
	Bio       string  `json:"bio" validate:"omitempty,max=2000"`
	PhotoURL  *string `json:"photo_url" validate:"omitempty,url,max=500"`
	SortOrder int     `json:"sort_order"`
}

type SettingUpdateRequest struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value" validate:"omitempty,max=4000"`
}
