package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
)

// mockRepository is a minimal Repository implementation for service tests.
// Unset sub-repositories return nil; tests wire only what they exercise.
type mockRepository struct {
	user       repositories.UserRepository
	role       repositories.RoleRepository
	permission repositories.PermissionRepository
	student    repositories.StudentRepository
	attendance repositories.AttendanceRepository
	grade      repositories.GradeRepository
	subject    repositories.SubjectRepository
	exam       repositories.ExamRepository
	page       repositories.PageRepository
	report     repositories.ReportRepository
}

func (m *mockRepository) User() repositories.UserRepository             { return m.user }
func (m *mockRepository) Role() repositories.RoleRepository             { return m.role }
func (m *mockRepository) Permission() repositories.PermissionRepository { return m.permission }
func (m *mockRepository) Student() repositories.StudentRepository       { return m.student }
func (m *mockRepository) Attendance() repositories.AttendanceRepository { return m.attendance }
func (m *mockRepository) Grade() repositories.GradeRepository           { return m.grade }
func (m *mockRepository) Subject() repositories.SubjectRepository       { return m.subject }
func (m *mockRepository) Exam() repositories.ExamRepository             { return m.exam }
func (m *mockRepository) Page() repositories.PageRepository             { return m.page }
func (m *mockRepository) Facility() repositories.FacilityRepository     { return nil }
func (m *mockRepository) Project() repositories.ProjectRepository       { return nil }
func (m *mockRepository) Achievement() repositories.AchievementRepository {
	return nil
}
func (m *mockRepository) TeamMember() repositories.TeamMemberRepository { return nil }
func (m *mockRepository) Setting() repositories.SettingRepository       { return nil }
func (m *mockRepository) Report() repositories.ReportRepository         { return m.report }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== STUDENTS =====

type mockStudentRepo struct {
	students map[uint]*models.Student
	linked   map[uint]uint // studentID -> userID
}

func newMockStudentRepo(students ...*models.Student) *mockStudentRepo {
	m := &mockStudentRepo{
		students: make(map[uint]*models.Student),
		linked:   make(map[uint]uint),
	}
	for _, s := range students {
		m.students[s.ID] = s
	}
	return m
}

func (m *mockStudentRepo) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	student.ID = uint(len(m.students) + 1)
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) CreateBatch(ctx context.Context, tx *gorm.DB, students []*models.Student) error {
	for _, s := range students {
		if err := m.Create(ctx, tx, s); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockStudentRepo) GetByClassAndCode(ctx context.Context, tx *gorm.DB, class, code string) (*models.Student, error) {
	for _, s := range m.students {
		if s.Class == class && s.StudentCode == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	for _, s := range m.students {
		if s.UserID != nil && *s.UserID == userID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	var out []*models.Student
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (m *mockStudentRepo) ListActiveByClass(ctx context.Context, tx *gorm.DB, class string) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range m.students {
		if s.Status != models.StudentActive {
			continue
		}
		if class != "" && s.Class != class {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStudentRepo) LinkUser(ctx context.Context, tx *gorm.DB, studentID, userID uint) error {
	m.linked[studentID] = userID
	if s, ok := m.students[studentID]; ok {
		s.UserID = &userID
	}
	return nil
}

// ===== ATTENDANCE =====

type mockAttendanceRepo struct {
	// keyed by student/date/subject so upserts overwrite like the real table
	records map[string]*models.Attendance
	upserts int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*models.Attendance)}
}

func attendanceKey(studentID uint, date time.Time, subjectID *uint) string {
	subject := uint(0)
	if subjectID != nil {
		subject = *subjectID
	}
	return fmt.Sprintf("%d/%s/%d", studentID, date.Format("2006-01-02"), subject)
}

func (m *mockAttendanceRepo) Upsert(ctx context.Context, tx *gorm.DB, record *models.Attendance) error {
	m.upserts++
	m.records[attendanceKey(record.StudentID, record.Date, record.SubjectID)] = record
	return nil
}

func (m *mockAttendanceRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, records []*models.Attendance) error {
	for _, r := range records {
		if err := m.Upsert(ctx, tx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAttendanceRepo) GetByKey(ctx context.Context, tx *gorm.DB, studentID uint, date time.Time, subjectID *uint) (*models.Attendance, error) {
	r, ok := m.records[attendanceKey(studentID, date, subjectID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockAttendanceRepo) ListForDate(ctx context.Context, tx *gorm.DB, date time.Time, class string) ([]*models.Attendance, error) {
	var out []*models.Attendance
	for _, r := range m.records {
		if r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) ListRange(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
	var out []*models.Attendance
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockAttendanceRepo) CountByStudent(ctx context.Context, tx *gorm.DB, studentID uint) (int64, error) {
	var n int64
	for _, r := range m.records {
		if r.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

// ===== USERS =====

type mockUserRepo struct {
	users     map[uint]*models.User
	assigned  map[uint][]uint // userID -> roleIDs
	nextID    uint
	roleStore *mockRoleRepo
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{
		users:    make(map[uint]*models.User),
		assigned: make(map[uint][]uint),
		nextID:   1,
	}
	for _, u := range users {
		m.users[u.ID] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByIDWithRoles(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	return m.GetByID(ctx, tx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, tx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *mockUserRepo) AssignRole(ctx context.Context, tx *gorm.DB, userID uint, roleID uint) error {
	m.assigned[userID] = append(m.assigned[userID], roleID)
	if u, ok := m.users[userID]; ok && m.roleStore != nil {
		if role, ok := m.roleStore.roles[roleID]; ok {
			u.Roles = append(u.Roles, role)
		}
	}
	return nil
}

func (m *mockUserRepo) ReplaceRoles(ctx context.Context, tx *gorm.DB, userID uint, roleIDs []uint) error {
	m.assigned[userID] = roleIDs
	return nil
}

// ===== ROLES =====

type mockRoleRepo struct {
	roles   map[uint]*models.Role
	deleted []uint
	nextID  uint
}

func newMockRoleRepo(roles ...*models.Role) *mockRoleRepo {
	m := &mockRoleRepo{roles: make(map[uint]*models.Role), nextID: 1}
	for _, r := range roles {
		m.roles[r.ID] = r
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	return m
}

func (m *mockRoleRepo) Create(ctx context.Context, tx *gorm.DB, role *models.Role) error {
	role.ID = m.nextID
	m.nextID++
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepo) Update(ctx context.Context, tx *gorm.DB, role *models.Role) error {
	m.roles[role.ID] = role
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	m.deleted = append(m.deleted, id)
	delete(m.roles, id)
	return nil
}

func (m *mockRoleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockRoleRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Role, error) {
	return m.GetByID(ctx, tx, id)
}

func (m *mockRoleRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.RoleFilters) ([]*models.Role, int64, error) {
	var out []*models.Role
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *mockRoleRepo) ReplacePermissions(ctx context.Context, tx *gorm.DB, roleID uint, permissionIDs []uint) error {
	return nil
}

func (m *mockRoleRepo) ReplaceUsers(ctx context.Context, tx *gorm.DB, roleID uint, userIDs []uint) error {
	return nil
}

// ===== PERMISSIONS =====

type mockPermissionRepo struct {
	permissions map[uint]*models.Permission
}

func newMockPermissionRepo(permissions ...*models.Permission) *mockPermissionRepo {
	m := &mockPermissionRepo{permissions: make(map[uint]*models.Permission)}
	for _, p := range permissions {
		m.permissions[p.ID] = p
	}
	return m
}

func (m *mockPermissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Permission, error) {
	p, ok := m.permissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockPermissionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Permission, error) {
	var out []*models.Permission
	for _, id := range ids {
		if p, ok := m.permissions[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPermissionRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Permission, error) {
	var out []*models.Permission
	for _, p := range m.permissions {
		out = append(out, p)
	}
	return out, nil
}

// ===== GRADES =====

type mockGradeRepo struct {
	grades []*models.Grade
}

func (m *mockGradeRepo) Upsert(ctx context.Context, tx *gorm.DB, grade *models.Grade) error {
	m.grades = append(m.grades, grade)
	return nil
}

func (m *mockGradeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Grade, error) {
	for _, g := range m.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.GradeFilters) ([]*models.Grade, int64, error) {
	return m.grades, int64(len(m.grades)), nil
}

func (m *mockGradeRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Grade, error) {
	var out []*models.Grade
	for _, g := range m.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGradeRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return nil
}

// ===== PAGES =====

type mockPageRepo struct {
	pages   map[uint]*models.Page
	deleted []uint
	nextID  uint
}

func newMockPageRepo(pages ...*models.Page) *mockPageRepo {
	m := &mockPageRepo{pages: make(map[uint]*models.Page), nextID: 1}
	for _, p := range pages {
		m.pages[p.ID] = p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *mockPageRepo) Create(ctx context.Context, tx *gorm.DB, page *models.Page) error {
	page.ID = m.nextID
	m.nextID++
	m.pages[page.ID] = page
	return nil
}

func (m *mockPageRepo) Update(ctx context.Context, tx *gorm.DB, page *models.Page) error {
	m.pages[page.ID] = page
	return nil
}

func (m *mockPageRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	m.deleted = append(m.deleted, id)
	delete(m.pages, id)
	return nil
}

func (m *mockPageRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Page, error) {
	p, ok := m.pages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockPageRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Page, error) {
	for _, p := range m.pages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPageRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.ContentFilters) ([]*models.Page, int64, error) {
	var out []*models.Page
	for _, p := range m.pages {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *mockPageRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*models.Page, error) {
	var out []*models.Page
	for _, p := range m.pages {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

// ===== REPORTS =====

type mockReportRepo struct {
	averages []repositories.StudentGradeAverage
	tallies  []repositories.StudentAttendanceTally
	records  []*models.Attendance
	overview repositories.OverviewCounts
}

func (m *mockReportRepo) AttendanceInRange(ctx context.Context, tx *gorm.DB, from, to time.Time, class string) ([]*models.Attendance, error) {
	var out []*models.Attendance
	for _, r := range m.records {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockReportRepo) GradeAverages(ctx context.Context, tx *gorm.DB, class, academicYear string) ([]repositories.StudentGradeAverage, error) {
	return m.averages, nil
}

func (m *mockReportRepo) AttendanceTallies(ctx context.Context, tx *gorm.DB, from, to time.Time, class string) ([]repositories.StudentAttendanceTally, error) {
	return m.tallies, nil
}

func (m *mockReportRepo) Overview(ctx context.Context, tx *gorm.DB) (*repositories.OverviewCounts, error) {
	return &m.overview, nil
}
