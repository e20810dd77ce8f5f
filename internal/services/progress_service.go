package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pesantren-digital/school-service/internal/cache"
	"github.com/pesantren-digital/school-service/internal/models"
	"github.com/pesantren-digital/school-service/internal/repositories"
	"github.com/pesantren-digital/school-service/internal/utils"
)

type progressService struct {
	repo    repositories.Repository
	content ContentService
	cache   *cache.CacheManager
	logger  utils.Logger
}

func NewProgressService(
	repo repositories.Repository,
	content ContentService,
	cacheManager *cache.CacheManager,
	logger utils.Logger,
) ProgressService {
	return &progressService{
		repo:    repo,
		content: content,
		cache:   cacheManager,
		logger:  logger,
	}
}

// progressWindow is the range aggregated for progress reports: the current
// academic period approximated as the trailing 90 days.
func progressWindow() (time.Time, time.Time) {
	to := time.Now()
	return to.AddDate(0, 0, -90), to
}

// StudentProgress computes a single student's grade average, attendance rate
// and tier. Missing grades or attendance degrade to zero, never to an error.
func (s *progressService) StudentProgress(ctx context.Context, studentID uint) (*StudentProgressResponse, error) {
	student, err := s.repo.Student().GetByID(ctx, nil, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	var result StudentProgressResponse
	key := cache.StudentProgressKey(studentID)
	err = s.cache.Stats.CacheOrExecute(ctx, key, &result, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.computeStudentProgress(ctx, student)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *progressService) computeStudentProgress(ctx context.Context, student *models.Student) (*StudentProgressResponse, error) {
	grades, err := s.repo.Grade().ListByStudent(ctx, nil, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grades: %w", err)
	}

	var sum float64
	var graded int
	for _, g := range grades {
		if g.Score != nil {
			sum += *g.Score
			graded++
		}
	}
	avg := 0.0
	if graded > 0 {
		avg = roundFloat(sum/float64(graded), 1)
	}

	from, to := progressWindow()
	tallies, err := s.repo.Report().AttendanceTallies(ctx, nil, from, to, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance tallies: %w", err)
	}

	var present, total int64
	for _, t := range tallies {
		if t.StudentID != student.ID {
			continue
		}
		total += t.Count
		if t.Status == models.AttendancePresent {
			present += t.Count
		}
	}
	rate := CohortAttendanceRate(present, total)

	return &StudentProgressResponse{
		StudentID:      student.ID,
		StudentCode:    student.StudentCode,
		Name:           student.Name,
		Class:          student.Class,
		AverageGrade:   avg,
		AttendanceRate: rate,
		Tier:           TierFor(avg, rate),
	}, nil
}

// ClassProgress aggregates every active student of a class. Students without
// grades or attendance appear with zeroes and land in needs_attention.
func (s *progressService) ClassProgress(ctx context.Context, class, academicYear string) (*ClassProgressResponse, error) {
	var result ClassProgressResponse
	key := cache.ClassProgressKey(class, academicYear)
	err := s.cache.Stats.CacheOrExecute(ctx, key, &result, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.computeClassProgress(ctx, class, academicYear)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *progressService) computeClassProgress(ctx context.Context, class, academicYear string) (*ClassProgressResponse, error) {
	students, err := s.repo.Student().ListActiveByClass(ctx, nil, class)
	if err != nil {
		return nil, fmt.Errorf("failed to list cohort: %w", err)
	}

	averages, err := s.repo.Report().GradeAverages(ctx, nil, class, academicYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load grade averages: %w", err)
	}
	avgByStudent := make(map[uint]float64, len(averages))
	for _, a := range averages {
		avgByStudent[a.StudentID] = roundFloat(a.Average, 1)
	}

	from, to := progressWindow()
	tallies, err := s.repo.Report().AttendanceTallies(ctx, nil, from, to, class)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance tallies: %w", err)
	}
	present := make(map[uint]int64)
	totals := make(map[uint]int64)
	for _, t := range tallies {
		totals[t.StudentID] += t.Count
		if t.Status == models.AttendancePresent {
			present[t.StudentID] += t.Count
		}
	}

	resp := &ClassProgressResponse{
		Class:    class,
		Students: make([]StudentProgressResponse, 0, len(students)),
		Total:    len(students),
	}

	for _, st := range students {
		avg := avgByStudent[st.ID]
		rate := CohortAttendanceRate(present[st.ID], totals[st.ID])

		resp.Students = append(resp.Students, StudentProgressResponse{
			StudentID:      st.ID,
			StudentCode:    st.StudentCode,
			Name:           st.Name,
			Class:          st.Class,
			AverageGrade:   avg,
			AttendanceRate: rate,
			Tier:           TierFor(avg, rate),
		})

		if isCohortExcellent(avg, rate) {
			resp.ExcellentCount++
		}
		if needsCohortAttention(avg, rate) {
			resp.NeedsAttentionCount++
		}
	}

	return resp, nil
}

// WeeklyReport tallies the seven days starting at from, grouped by ISO date
// first, then by status. Days without records are present with zero counts.
func (s *progressService) WeeklyReport(ctx context.Context, from time.Time, class string) (*WeeklyReportResponse, error) {
	from = from.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 6)

	records, err := s.repo.Report().AttendanceInRange(ctx, nil, from, to, class)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance range: %w", err)
	}

	byDate := make(map[string]map[models.AttendanceStatus]int64)
	for _, r := range records {
		day := r.Date.Format(dateLayout)
		if byDate[day] == nil {
			byDate[day] = make(map[models.AttendanceStatus]int64)
		}
		byDate[day][r.Status]++
	}

	days := make([]DailyStatusTally, 0, 7)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		tally := DailyStatusTally{
			Date:     key,
			ByStatus: byDate[key],
		}
		if tally.ByStatus == nil {
			tally.ByStatus = map[models.AttendanceStatus]int64{}
		}
		for _, n := range tally.ByStatus {
			tally.Total += n
		}
		days = append(days, tally)
	}

	return &WeeklyReportResponse{
		From:  from.Format(dateLayout),
		To:    to.Format(dateLayout),
		Class: class,
		Days:  days,
	}, nil
}

// MonthlyReport tallies one calendar month grouped by student first, then by
// status. Students with no records that month are omitted.
func (s *progressService) MonthlyReport(ctx context.Context, month time.Time, class string) (*MonthlyReportResponse, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	to := from.AddDate(0, 1, -1)

	records, err := s.repo.Report().AttendanceInRange(ctx, nil, from, to, class)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance range: %w", err)
	}

	type bucket struct {
		name     string
		byStatus map[models.AttendanceStatus]int64
		total    int64
	}
	byStudent := make(map[uint]*bucket)
	order := make([]uint, 0)

	for _, r := range records {
		b, ok := byStudent[r.StudentID]
		if !ok {
			b = &bucket{byStatus: make(map[models.AttendanceStatus]int64)}
			if r.Student != nil {
				b.name = r.Student.Name
			}
			byStudent[r.StudentID] = b
			order = append(order, r.StudentID)
		}
		b.byStatus[r.Status]++
		b.total++
	}

	sort.Slice(order, func(i, j int) bool {
		return byStudent[order[i]].name < byStudent[order[j]].name
	})

	students := make([]StudentStatusTally, 0, len(order))
	for _, id := range order {
		b := byStudent[id]
		students = append(students, StudentStatusTally{
			StudentID:   id,
			StudentName: b.name,
			ByStatus:    b.byStatus,
			Total:       b.total,
		})
	}

	return &MonthlyReportResponse{
		Month:    from.Format("2006-01"),
		Class:    class,
		Students: students,
	}, nil
}

// Dashboard assembles the admin landing sections. Sections are independent:
// a failure in one is logged and zeroed so the others still render.
func (s *progressService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	resp := &DashboardResponse{
		Settings: map[string]string{},
	}

	overview, err := s.repo.Report().Overview(ctx, nil)
	if err != nil {
		s.logger.Error("Dashboard overview failed", "error", err)
		overview = &repositories.OverviewCounts{}
	}
	resp.Overview = overview

	today := time.Now().Truncate(24 * time.Hour)
	records, err := s.repo.Attendance().ListForDate(ctx, nil, today, "")
	if err != nil {
		s.logger.Error("Dashboard today rate failed", "error", err)
	} else {
		resp.TodayRate = DailyAttendanceRate(records)
	}

	progress, err := s.ClassProgress(ctx, "", "")
	if err != nil {
		s.logger.Error("Dashboard progress failed", "error", err)
		progress = &ClassProgressResponse{Students: []StudentProgressResponse{}}
	}
	resp.Progress = progress

	if s.content != nil {
		// Missing keys come back as "", which the frontend treats as unset.
		for _, key := range []string{"site_name", "academic_year", "contact_email"} {
			resp.Settings[key] = s.content.Setting(ctx, key)
		}
	}

	return resp, nil
}
