package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/auth"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/lifecycle"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/report"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/cache"
)

// Cache windows follow usage patterns: workforce analytics move slowly,
// probation rosters change during the working day.
const (
	analyticsCacheTTL = time.Hour
	rosterCacheTTL    = 5 * time.Minute
)

type ReportServiceImpl struct {
	report.ReportRepository
	employee.EmployeeRepository
	holiday.HolidayRepository
	lifecycle.EventRepository
	cache    *cache.Cache
	location *time.Location
	now      func() time.Time
}

func NewReportService(
	reportRepo report.ReportRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo holiday.HolidayRepository,
	eventRepo lifecycle.EventRepository,
	reportCache *cache.Cache,
	location *time.Location,
) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository:   reportRepo,
		EmployeeRepository: employeeRepo,
		HolidayRepository:  holidayRepo,
		EventRepository:    eventRepo,
		cache:              reportCache,
		location:           location,
		now:                time.Now,
	}
}

// Daily implements report.ReportService.
func (s *ReportServiceImpl) Daily(ctx context.Context, req report.DailyReportRequest) (report.DailyReport, error) {
	if err := req.Validate(); err != nil {
		return report.DailyReport{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return report.DailyReport{}, err
	}

	date, _ := time.ParseInLocation("2006-01-02", req.Date, s.location)

	records, err := s.ReportRepository.AttendanceInRange(ctx, actor.CompanyID, date, date)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, actor.CompanyID)
	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to load employees: %w", err)
	}

	result := report.DailyReport{
		Date:        req.Date,
		GeneratedAt: s.now().In(s.location).Format(time.RFC3339),
	}

	totalEmployees := 0
	for _, emp := range employees {
		if req.Department == "" || derefOr(emp.Department, "") == req.Department {
			totalEmployees++
		}
	}
	result.Summary.TotalEmployees = totalEmployees

	for _, record := range records {
		department := derefOr(record.EmployeeDepartment, "")
		if req.Department != "" && department != req.Department {
			continue
		}

		result.Rows = append(result.Rows, report.DailyReportRow{
			EmployeeID:    record.EmployeeID,
			EmployeeName:  derefOr(record.EmployeeName, ""),
			Department:    department,
			CheckIn:       formatTimePtr(record.CheckIn),
			CheckOut:      formatTimePtr(record.CheckOut),
			WorkingHours:  record.WorkingHours,
			LateHours:     record.LateHours,
			EarlyHours:    record.EarlyHours,
			OvertimeHours: record.OvertimeHours,
			Status:        string(record.Status),
		})

		switch {
		case isPresent(record.Status):
			result.Summary.Present++
		case record.Status == attendance.StatusAbsent:
			result.Summary.Absent++
		case record.Status == attendance.StatusLeave:
			result.Summary.OnLeave++
		}
		if record.LateHours > 0 {
			result.Summary.Late++
		}
	}

	return result, nil
}

// Monthly implements report.ReportService.
func (s *ReportServiceImpl) Monthly(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return report.MonthlyReport{}, err
	}

	start := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 1, -1)

	records, err := s.ReportRepository.AttendanceInRange(ctx, actor.CompanyID, start, end)
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	workDays := s.workingDays(ctx, actor.CompanyID, start, end)

	byEmployee := make(map[string]*report.MonthlyEmployee)
	var order []string

	for _, record := range records {
		entry, ok := byEmployee[record.EmployeeID]
		if !ok {
			entry = &report.MonthlyEmployee{
				EmployeeID:   record.EmployeeID,
				EmployeeName: derefOr(record.EmployeeName, ""),
				Department:   derefOr(record.EmployeeDepartment, ""),
				Summary:      report.MonthlySummary{TotalWorkDays: workDays},
			}
			byEmployee[record.EmployeeID] = entry
			order = append(order, record.EmployeeID)
		}

		entry.DailyLogs = append(entry.DailyLogs, report.DailyLog{
			Date:          record.Date.Format("2006-01-02"),
			DayOfWeek:     record.Date.Weekday().String(),
			CheckIn:       formatTimePtr(record.CheckIn),
			CheckOut:      formatTimePtr(record.CheckOut),
			WorkingHours:  record.WorkingHours,
			LateHours:     record.LateHours,
			EarlyHours:    record.EarlyHours,
			OvertimeHours: record.OvertimeHours,
			Status:        string(record.Status),
		})

		entry.Summary.TotalWorkingHours = round2(entry.Summary.TotalWorkingHours + record.WorkingHours)
		entry.Summary.TotalOvertimeHours = round2(entry.Summary.TotalOvertimeHours + record.OvertimeHours)
		entry.Summary.TotalLateHours = round2(entry.Summary.TotalLateHours + record.LateHours)

		switch {
		case isPresent(record.Status):
			entry.Summary.TotalPresent++
		case record.Status == attendance.StatusAbsent:
			entry.Summary.TotalAbsent++
		case record.Status == attendance.StatusLeave:
			entry.Summary.TotalLeave++
		}
		if record.LateHours > 0 {
			entry.Summary.TotalLateDays++
		}
	}

	result := report.MonthlyReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
		GeneratedAt: s.now().In(s.location).Format(time.RFC3339),
	}
	for _, id := range order {
		result.Employees = append(result.Employees, *byEmployee[id])
	}

	return result, nil
}

// DepartmentComparison implements report.ReportService. Departments are
// ranked by attendance rate, best first.
func (s *ReportServiceImpl) DepartmentComparison(ctx context.Context, req report.RangeRequest) (report.DepartmentComparison, error) {
	if err := req.Validate(); err != nil {
		return report.DepartmentComparison{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return report.DepartmentComparison{}, err
	}

	start, _ := time.ParseInLocation("2006-01-02", req.StartDate, s.location)
	end, _ := time.ParseInLocation("2006-01-02", req.EndDate, s.location)

	records, err := s.ReportRepository.AttendanceInRange(ctx, actor.CompanyID, start, end)
	if err != nil {
		return report.DepartmentComparison{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, actor.CompanyID)
	if err != nil {
		return report.DepartmentComparison{}, fmt.Errorf("failed to load employees: %w", err)
	}

	workingDays := s.workingDays(ctx, actor.CompanyID, start, end)

	employeesPerDept := make(map[string]int)
	for _, emp := range employees {
		employeesPerDept[derefOr(emp.Department, "")]++
	}

	type deptAccum struct {
		present  int
		late     int
		working  float64
		overtime float64
	}
	accum := make(map[string]*deptAccum)
	for _, record := range records {
		department := derefOr(record.EmployeeDepartment, "")
		a, ok := accum[department]
		if !ok {
			a = &deptAccum{}
			accum[department] = a
		}
		if isPresent(record.Status) {
			a.present++
			// Late instances only count against present days so the
			// punctuality score stays within [0, 100].
			if record.LateHours > 0 {
				a.late++
			}
		}
		a.working += record.WorkingHours
		a.overtime += record.OvertimeHours
	}

	result := report.DepartmentComparison{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		WorkingDays: workingDays,
		GeneratedAt: s.now().In(s.location).Format(time.RFC3339),
	}

	totalRate := 0.0
	for department, count := range employeesPerDept {
		a := accum[department]
		if a == nil {
			a = &deptAccum{}
		}

		rate := attendanceRate(a.present, count, workingDays)
		totalRate += rate

		result.Departments = append(result.Departments, report.DepartmentRow{
			Department:         department,
			TotalEmployees:     count,
			TotalPresentDays:   a.present,
			AttendanceRate:     rate,
			PunctualityScore:   punctualityScore(a.present, a.late),
			TotalLateInstances: a.late,
			TotalWorkingHours:  round2(a.working),
			TotalOvertimeHours: round2(a.overtime),
		})

		result.Overall.TotalEmployees += count
		result.Overall.TotalPresentDays += a.present
	}

	sort.Slice(result.Departments, func(i, j int) bool {
		if result.Departments[i].AttendanceRate != result.Departments[j].AttendanceRate {
			return result.Departments[i].AttendanceRate > result.Departments[j].AttendanceRate
		}
		return result.Departments[i].Department < result.Departments[j].Department
	})
	for i := range result.Departments {
		result.Departments[i].Rank = i + 1
	}

	if len(result.Departments) > 0 {
		result.Overall.AverageAttendanceRate = round2(totalRate / float64(len(result.Departments)))
	}

	return result, nil
}

// Overtime implements report.ReportService.
func (s *ReportServiceImpl) Overtime(ctx context.Context, req report.RangeRequest) (report.OvertimeReport, error) {
	if err := req.Validate(); err != nil {
		return report.OvertimeReport{}, err
	}

	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return report.OvertimeReport{}, err
	}

	start, _ := time.ParseInLocation("2006-01-02", req.StartDate, s.location)
	end, _ := time.ParseInLocation("2006-01-02", req.EndDate, s.location)

	records, err := s.ReportRepository.AttendanceInRange(ctx, actor.CompanyID, start, end)
	if err != nil {
		return report.OvertimeReport{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	byEmployee := make(map[string]*report.OvertimeRow)
	var order []string

	result := report.OvertimeReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.now().In(s.location).Format(time.RFC3339),
	}

	for _, record := range records {
		if record.OvertimeHours <= 0 {
			continue
		}

		row, ok := byEmployee[record.EmployeeID]
		if !ok {
			row = &report.OvertimeRow{
				EmployeeID:   record.EmployeeID,
				EmployeeName: derefOr(record.EmployeeName, ""),
				Department:   derefOr(record.EmployeeDepartment, ""),
			}
			byEmployee[record.EmployeeID] = row
			order = append(order, record.EmployeeID)
		}

		row.OvertimeDays++
		row.OvertimeHours = round2(row.OvertimeHours + record.OvertimeHours)
		if record.ApprovedBy != nil {
			row.ApprovedHours = round2(row.ApprovedHours + record.OvertimeHours)
		} else {
			row.PendingHours = round2(row.PendingHours + record.OvertimeHours)
		}

		result.TotalHours = round2(result.TotalHours + record.OvertimeHours)
	}

	for _, id := range order {
		result.Rows = append(result.Rows, *byEmployee[id])
	}

	return result, nil
}

// Turnover implements report.ReportService.
func (s *ReportServiceImpl) Turnover(ctx context.Context, year int) (report.TurnoverReport, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return report.TurnoverReport{}, err
	}

	key := fmt.Sprintf("report:turnover:%s:%d", actor.CompanyID, year)
	cached, err := s.cache.Remember(key, analyticsCacheTTL, func() (interface{}, error) {
		return s.buildTurnover(ctx, actor.CompanyID, year)
	})
	if err != nil {
		return report.TurnoverReport{}, err
	}

	return cached.(report.TurnoverReport), nil
}

func (s *ReportServiceImpl) buildTurnover(ctx context.Context, companyID string, year int) (report.TurnoverReport, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, s.location)
	end := start.AddDate(1, 0, -1)

	now := s.now().In(s.location)
	if end.After(now) {
		end = now
	}

	joins, err := s.ReportRepository.CountJoinsByMonth(ctx, companyID, start, end)
	if err != nil {
		return report.TurnoverReport{}, fmt.Errorf("failed to count joins: %w", err)
	}

	exits, err := s.EventRepository.CountExitsByMonth(ctx, companyID, start, end)
	if err != nil {
		return report.TurnoverReport{}, fmt.Errorf("failed to count exits: %w", err)
	}

	result := report.TurnoverReport{
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		GeneratedAt: now.Format(time.RFC3339),
	}

	totalRate := 0.0
	for month := start; !month.After(end); month = month.AddDate(0, 1, 0) {
		monthEnd := month.AddDate(0, 1, -1)
		if monthEnd.After(now) {
			monthEnd = now
		}

		headcount, err := s.ReportRepository.HeadcountOn(ctx, companyID, monthEnd)
		if err != nil {
			return report.TurnoverReport{}, fmt.Errorf("failed to get headcount: %w", err)
		}

		key := month.Format("2006-01")
		rate := 0.0
		if headcount > 0 {
			rate = round2(float64(exits[key]) / float64(headcount) * 100)
		}
		totalRate += rate

		result.Months = append(result.Months, report.TurnoverMonth{
			Month:        key,
			Joins:        joins[key],
			Exits:        exits[key],
			Headcount:    headcount,
			TurnoverRate: rate,
		})
	}

	if len(result.Months) > 0 {
		result.AverageRate = round2(totalRate / float64(len(result.Months)))
	}

	return result, nil
}

// Headcount implements report.ReportService.
func (s *ReportServiceImpl) Headcount(ctx context.Context) (report.HeadcountReport, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return report.HeadcountReport{}, err
	}

	key := fmt.Sprintf("report:headcount:%s", actor.CompanyID)
	cached, err := s.cache.Remember(key, analyticsCacheTTL, func() (interface{}, error) {
		return s.buildHeadcount(ctx, actor.CompanyID)
	})
	if err != nil {
		return report.HeadcountReport{}, err
	}

	return cached.(report.HeadcountReport), nil
}

func (s *ReportServiceImpl) buildHeadcount(ctx context.Context, companyID string) (report.HeadcountReport, error) {
	now := s.now().In(s.location)

	current, err := s.ReportRepository.HeadcountOn(ctx, companyID, now)
	if err != nil {
		return report.HeadcountReport{}, fmt.Errorf("failed to get headcount: %w", err)
	}

	result := report.HeadcountReport{
		GeneratedAt: now.Format(time.RFC3339),
		Current:     current,
	}

	// Trailing twelve months, oldest first.
	for i := 11; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location).AddDate(0, -i, 0)
		monthEnd := month.AddDate(0, 1, -1)
		if monthEnd.After(now) {
			monthEnd = now
		}

		count, err := s.ReportRepository.HeadcountOn(ctx, companyID, monthEnd)
		if err != nil {
			return report.HeadcountReport{}, fmt.Errorf("failed to get headcount: %w", err)
		}

		result.Trend = append(result.Trend, report.HeadcountPoint{
			Month: month.Format("2006-01"),
			Count: count,
		})
	}

	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return report.HeadcountReport{}, fmt.Errorf("failed to load employees: %w", err)
	}

	buckets := []report.TenureBucket{
		{Label: "< 1 year"},
		{Label: "1-3 years"},
		{Label: "3-5 years"},
		{Label: "5+ years"},
	}

	totalYears := 0.0
	withTenure := 0
	for _, emp := range employees {
		if emp.JoinDate == nil {
			continue
		}
		years := now.Sub(*emp.JoinDate).Hours() / 24 / 365.25
		totalYears += years
		withTenure++

		switch {
		case years < 1:
			buckets[0].Count++
		case years < 3:
			buckets[1].Count++
		case years < 5:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	if withTenure > 0 {
		result.AverageTenure = round2(totalYears / float64(withTenure))
	}
	result.TenureBuckets = buckets

	return result, nil
}

// Demographics implements report.ReportService.
func (s *ReportServiceImpl) Demographics(ctx context.Context) (report.DemographicsReport, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return report.DemographicsReport{}, err
	}

	key := fmt.Sprintf("report:demographics:%s", actor.CompanyID)
	cached, err := s.cache.Remember(key, rosterCacheTTL, func() (interface{}, error) {
		return s.buildDemographics(ctx, actor.CompanyID)
	})
	if err != nil {
		return report.DemographicsReport{}, err
	}

	return cached.(report.DemographicsReport), nil
}

func (s *ReportServiceImpl) buildDemographics(ctx context.Context, companyID string) (report.DemographicsReport, error) {
	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return report.DemographicsReport{}, fmt.Errorf("failed to load employees: %w", err)
	}

	total := len(employees)
	byDepartment := make(map[string]int64)
	byGender := make(map[string]int64)
	byType := make(map[string]int64)

	for _, emp := range employees {
		byDepartment[derefOr(emp.Department, "unassigned")]++
		byGender[derefOr(emp.Gender, "unspecified")]++
		byType[derefOr(emp.EmploymentType, "unspecified")]++
	}

	return report.DemographicsReport{
		GeneratedAt:  s.now().In(s.location).Format(time.RFC3339),
		ByDepartment: dimensionCounts(byDepartment, total),
		ByGender:     dimensionCounts(byGender, total),
		ByType:       dimensionCounts(byType, total),
	}, nil
}

// Probation implements report.ReportService.
func (s *ReportServiceImpl) Probation(ctx context.Context) (report.ProbationReport, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return report.ProbationReport{}, err
	}

	key := fmt.Sprintf("report:probation:%s", actor.CompanyID)
	cached, err := s.cache.Remember(key, rosterCacheTTL, func() (interface{}, error) {
		return s.buildProbation(ctx, actor.CompanyID)
	})
	if err != nil {
		return report.ProbationReport{}, err
	}

	return cached.(report.ProbationReport), nil
}

func (s *ReportServiceImpl) buildProbation(ctx context.Context, companyID string) (report.ProbationReport, error) {
	now := s.now().In(s.location)

	employees, err := s.EmployeeRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return report.ProbationReport{}, fmt.Errorf("failed to load employees: %w", err)
	}

	result := report.ProbationReport{
		GeneratedAt: now.Format(time.RFC3339),
	}

	for _, emp := range employees {
		if emp.Status != employee.StatusProbation {
			continue
		}
		result.CurrentlyOn++

		if emp.ProbationEndDate == nil {
			continue
		}
		daysRemaining := int(emp.ProbationEndDate.Sub(now).Hours() / 24)
		if daysRemaining >= 0 && daysRemaining <= 30 {
			result.EndingWithin30d++
			result.Upcoming = append(result.Upcoming, report.ProbationEndRow{
				EmployeeID:    emp.ID,
				EmployeeName:  emp.FullName,
				Department:    derefOr(emp.Department, ""),
				EndDate:       emp.ProbationEndDate.Format("2006-01-02"),
				DaysRemaining: daysRemaining,
			})
		}
	}

	sort.Slice(result.Upcoming, func(i, j int) bool {
		return result.Upcoming[i].DaysRemaining < result.Upcoming[j].DaysRemaining
	})

	// Outcomes over the trailing twelve months.
	counts, err := s.EventRepository.CountByType(ctx, companyID, now.AddDate(-1, 0, 0), now)
	if err != nil {
		return report.ProbationReport{}, fmt.Errorf("failed to count lifecycle events: %w", err)
	}
	for _, tc := range counts {
		switch tc.Type {
		case string(lifecycle.EventProbationConfirmed):
			result.Confirmed = tc.Count
		case string(lifecycle.EventProbationExtended):
			result.Extended = tc.Count
		case string(lifecycle.EventProbationFailed):
			result.Failed = tc.Count
		}
	}

	completed := result.Confirmed + result.Failed
	if completed > 0 {
		result.ConfirmationRate = round2(float64(result.Confirmed) / float64(completed) * 100)
	}

	return result, nil
}

// workingDays counts weekdays in [start, end], excluding company-wide
// holidays that land on a weekday.
func (s *ReportServiceImpl) workingDays(ctx context.Context, companyID string, start, end time.Time) int {
	holidays, err := s.HolidayRepository.ListInRange(ctx, companyID, start, end)
	if err != nil {
		holidays = nil
	}

	days := 0
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		if companyWideHolidayOn(holidays, date) {
			continue
		}
		days++
	}
	return days
}

func companyWideHolidayOn(holidays []holiday.Holiday, date time.Time) bool {
	for _, h := range holidays {
		if h.Applicability == holiday.ApplicableAll && h.OccursOn(date) {
			return true
		}
	}
	return false
}

// attendanceRate is presentDays over the expected employee-days, as a
// percentage. Zero expected days yields zero, not a division error.
func attendanceRate(presentDays, employees, workingDays int) float64 {
	expected := employees * workingDays
	if expected == 0 {
		return 0
	}
	return round2(float64(presentDays) / float64(expected) * 100)
}

// punctualityScore is the share of present days without a late arrival. A
// department with no present days scores a full 100.
func punctualityScore(present, late int) float64 {
	if present == 0 {
		return 100
	}
	return round2(float64(present-late) / float64(present) * 100)
}

func dimensionCounts(counts map[string]int64, total int) []report.DimensionCount {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]report.DimensionCount, 0, len(keys))
	for _, k := range keys {
		percentage := 0.0
		if total > 0 {
			percentage = round2(float64(counts[k]) / float64(total) * 100)
		}
		result = append(result, report.DimensionCount{
			Value:      k,
			Count:      counts[k],
			Percentage: percentage,
		})
	}
	return result
}

func isPresent(status attendance.Status) bool {
	return status == attendance.StatusCheckedIn ||
		status == attendance.StatusCheckedOut ||
		status == attendance.StatusHalfDay
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("15:04")
	return &formatted
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
