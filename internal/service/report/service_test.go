package report

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/lifecycle"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/report"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/cache"
)

func adminContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": "company-1",
		"role":       "admin",
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeReportRepo struct {
	records   []attendance.Attendance
	joins     map[string]int64
	headcount map[string]int64
}

func (f *fakeReportRepo) AttendanceInRange(ctx context.Context, companyID string, start, end time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, r := range f.records {
		if r.CompanyID != companyID || r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReportRepo) CountJoinsByMonth(ctx context.Context, companyID string, start, end time.Time) (map[string]int64, error) {
	return f.joins, nil
}

func (f *fakeReportRepo) HeadcountOn(ctx context.Context, companyID string, date time.Time) (int64, error) {
	if count, ok := f.headcount[date.Format("2006-01")]; ok {
		return count, nil
	}
	return 10, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string, companyID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeEmployeeRepo) ListDepartments(ctx context.Context, companyID string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, e := range f.employees {
		if e.Department != nil && !seen[*e.Department] {
			seen[*e.Department] = true
			out = append(out, *e.Department)
		}
	}
	return out, nil
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func (f *fakeHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	return h, nil
}

func (f *fakeHolidayRepo) GetByID(ctx context.Context, id string, companyID string) (holiday.Holiday, error) {
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) Update(ctx context.Context, h holiday.Holiday) error { return nil }

func (f *fakeHolidayRepo) Delete(ctx context.Context, id string, companyID string) error { return nil }

func (f *fakeHolidayRepo) List(ctx context.Context, companyID string, year int) ([]holiday.Holiday, error) {
	return f.holidays, nil
}

func (f *fakeHolidayRepo) ListInRange(ctx context.Context, companyID string, start, end time.Time) ([]holiday.Holiday, error) {
	return f.holidays, nil
}

type fakeEventRepo struct {
	typeCounts []lifecycle.TypeCount
	exits      map[string]int64
}

func (f *fakeEventRepo) Append(ctx context.Context, event lifecycle.Event) (lifecycle.Event, error) {
	return event, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string, companyID string) (lifecycle.Event, error) {
	return lifecycle.Event{}, lifecycle.ErrEventNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter lifecycle.Filter, companyID string) ([]lifecycle.Event, int64, error) {
	return nil, 0, nil
}

func (f *fakeEventRepo) CountByType(ctx context.Context, companyID string, start, end time.Time) ([]lifecycle.TypeCount, error) {
	return f.typeCounts, nil
}

func (f *fakeEventRepo) CountExitsByMonth(ctx context.Context, companyID string, start, end time.Time) (map[string]int64, error) {
	return f.exits, nil
}

type reportFixture struct {
	svc       *ReportServiceImpl
	reports   *fakeReportRepo
	employees *fakeEmployeeRepo
	holidays  *fakeHolidayRepo
	events    *fakeEventRepo
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		reports:   &fakeReportRepo{joins: map[string]int64{}, headcount: map[string]int64{}},
		employees: &fakeEmployeeRepo{},
		holidays:  &fakeHolidayRepo{},
		events:    &fakeEventRepo{exits: map[string]int64{}},
	}

	svc := NewReportService(f.reports, f.employees, f.holidays, f.events, cache.New(), time.UTC).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }
	f.svc = svc

	return f
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func record(employeeID, department string, date time.Time, status attendance.Status) attendance.Attendance {
	return attendance.Attendance{
		ID:                 "att-" + employeeID + "-" + date.Format("20060102"),
		EmployeeID:         employeeID,
		CompanyID:          "company-1",
		Date:               date,
		Status:             status,
		EmployeeName:       strPtr("Employee " + employeeID),
		EmployeeDepartment: strPtr(department),
	}
}

func TestReportService_Daily_SummaryBuckets(t *testing.T) {
	f := newReportFixture()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	f.employees.employees = []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", Department: strPtr("Engineering")},
		{ID: "emp-2", CompanyID: "company-1", Department: strPtr("Engineering")},
		{ID: "emp-3", CompanyID: "company-1", Department: strPtr("Sales")},
		{ID: "emp-4", CompanyID: "company-1", Department: strPtr("Sales")},
	}

	present := record("emp-1", "Engineering", day, attendance.StatusCheckedOut)
	present.WorkingHours = 8
	late := record("emp-2", "Engineering", day, attendance.StatusCheckedOut)
	late.LateHours = 0.5
	f.reports.records = []attendance.Attendance{
		present,
		late,
		record("emp-3", "Sales", day, attendance.StatusAbsent),
		record("emp-4", "Sales", day, attendance.StatusLeave),
	}

	result, err := f.svc.Daily(adminContext(t), report.DailyReportRequest{Date: "2025-03-10"})

	require.NoError(t, err)
	assert.Equal(t, 4, result.Summary.TotalEmployees)
	assert.Equal(t, 2, result.Summary.Present)
	assert.Equal(t, 1, result.Summary.Absent)
	assert.Equal(t, 1, result.Summary.OnLeave)
	assert.Equal(t, 1, result.Summary.Late)
	assert.Len(t, result.Rows, 4)
}

func TestReportService_Daily_DepartmentFilterScopesRowsAndTotals(t *testing.T) {
	f := newReportFixture()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	f.employees.employees = []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", Department: strPtr("Engineering")},
		{ID: "emp-3", CompanyID: "company-1", Department: strPtr("Sales")},
	}
	f.reports.records = []attendance.Attendance{
		record("emp-1", "Engineering", day, attendance.StatusCheckedOut),
		record("emp-3", "Sales", day, attendance.StatusCheckedOut),
	}

	result, err := f.svc.Daily(adminContext(t), report.DailyReportRequest{
		Date:       "2025-03-10",
		Department: "Engineering",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.TotalEmployees)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "emp-1", result.Rows[0].EmployeeID)
}

func TestReportService_Daily_InvalidDate(t *testing.T) {
	f := newReportFixture()

	_, err := f.svc.Daily(adminContext(t), report.DailyReportRequest{Date: "10-03-2025"})

	assert.Error(t, err)
}

func TestReportService_Monthly_AggregatesPerEmployee(t *testing.T) {
	f := newReportFixture()

	first := record("emp-1", "Engineering", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), attendance.StatusCheckedOut)
	first.WorkingHours = 8
	first.OvertimeHours = 1
	second := record("emp-1", "Engineering", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), attendance.StatusCheckedOut)
	second.WorkingHours = 7.5
	second.LateHours = 0.25
	third := record("emp-1", "Engineering", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), attendance.StatusAbsent)
	f.reports.records = []attendance.Attendance{first, second, third}

	result, err := f.svc.Monthly(adminContext(t), report.MonthlyReportRequest{Month: 3, Year: 2025})

	require.NoError(t, err)
	require.Len(t, result.Employees, 1)
	summary := result.Employees[0].Summary
	assert.Equal(t, 15.5, summary.TotalWorkingHours)
	assert.Equal(t, 1.0, summary.TotalOvertimeHours)
	assert.Equal(t, 0.25, summary.TotalLateHours)
	assert.Equal(t, 2, summary.TotalPresent)
	assert.Equal(t, 1, summary.TotalAbsent)
	assert.Equal(t, 1, summary.TotalLateDays)
	assert.Len(t, result.Employees[0].DailyLogs, 3)
	assert.Equal(t, "2025-03-01", result.PeriodStart)
	assert.Equal(t, "2025-03-31", result.PeriodEnd)
}

func TestReportService_Monthly_RejectsBadMonth(t *testing.T) {
	f := newReportFixture()

	_, err := f.svc.Monthly(adminContext(t), report.MonthlyReportRequest{Month: 13, Year: 2025})

	assert.Error(t, err)
}

func TestReportService_DepartmentComparison_RanksByAttendanceRate(t *testing.T) {
	f := newReportFixture()

	f.employees.employees = []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", Department: strPtr("Engineering")},
		{ID: "emp-2", CompanyID: "company-1", Department: strPtr("Sales")},
	}

	// One working week, Mon 2025-03-10 through Fri 2025-03-14. Engineering
	// shows up every day, Sales misses two.
	for day := 10; day <= 14; day++ {
		date := time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
		f.reports.records = append(f.reports.records, record("emp-1", "Engineering", date, attendance.StatusCheckedOut))
		status := attendance.StatusCheckedOut
		if day >= 13 {
			status = attendance.StatusAbsent
		}
		f.reports.records = append(f.reports.records, record("emp-2", "Sales", date, status))
	}

	result, err := f.svc.DepartmentComparison(adminContext(t), report.RangeRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-14",
	})

	require.NoError(t, err)
	assert.Equal(t, 5, result.WorkingDays)
	require.Len(t, result.Departments, 2)

	assert.Equal(t, "Engineering", result.Departments[0].Department)
	assert.Equal(t, 1, result.Departments[0].Rank)
	assert.Equal(t, 100.0, result.Departments[0].AttendanceRate)

	assert.Equal(t, "Sales", result.Departments[1].Department)
	assert.Equal(t, 2, result.Departments[1].Rank)
	assert.Equal(t, 60.0, result.Departments[1].AttendanceRate)

	assert.Equal(t, 80.0, result.Overall.AverageAttendanceRate)
}

func TestReportService_DepartmentComparison_ExcludesHolidayFromWorkingDays(t *testing.T) {
	f := newReportFixture()
	f.employees.employees = []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", Department: strPtr("Engineering")},
	}
	f.holidays.holidays = []holiday.Holiday{{
		ID:            "hol-1",
		CompanyID:     "company-1",
		Date:          time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Applicability: holiday.ApplicableAll,
	}}

	result, err := f.svc.DepartmentComparison(adminContext(t), report.RangeRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-14",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, result.WorkingDays)
}

func TestReportService_DepartmentComparison_IgnoresLateOnNonPresentDays(t *testing.T) {
	f := newReportFixture()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	f.employees.employees = []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", Department: strPtr("Engineering")},
		{ID: "emp-2", CompanyID: "company-1", Department: strPtr("Engineering")},
	}

	// A leave record can carry late hours from a morning punch before the
	// leave was applied; it must not count as a late instance.
	presentLate := record("emp-1", "Engineering", day, attendance.StatusCheckedOut)
	presentLate.LateHours = 0.5
	onLeave := record("emp-2", "Engineering", day, attendance.StatusLeave)
	onLeave.LateHours = 0.25
	f.reports.records = []attendance.Attendance{presentLate, onLeave}

	result, err := f.svc.DepartmentComparison(adminContext(t), report.RangeRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})

	require.NoError(t, err)
	require.Len(t, result.Departments, 1)

	dept := result.Departments[0]
	assert.Equal(t, 1, dept.TotalPresentDays)
	assert.Equal(t, 1, dept.TotalLateInstances)
	assert.Equal(t, 0.0, dept.PunctualityScore)
	assert.GreaterOrEqual(t, dept.PunctualityScore, 0.0)
	assert.LessOrEqual(t, dept.PunctualityScore, 100.0)
}

func TestReportService_Overtime_SplitsApprovedAndPending(t *testing.T) {
	f := newReportFixture()

	approved := record("emp-1", "Engineering", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), attendance.StatusCheckedOut)
	approved.OvertimeHours = 2
	approved.ApprovedBy = strPtr("user-9")
	pending := record("emp-1", "Engineering", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), attendance.StatusCheckedOut)
	pending.OvertimeHours = 1.5
	noOvertime := record("emp-1", "Engineering", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), attendance.StatusCheckedOut)
	f.reports.records = []attendance.Attendance{approved, pending, noOvertime}

	result, err := f.svc.Overtime(adminContext(t), report.RangeRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-14",
	})

	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 2, result.Rows[0].OvertimeDays)
	assert.Equal(t, 3.5, result.Rows[0].OvertimeHours)
	assert.Equal(t, 2.0, result.Rows[0].ApprovedHours)
	assert.Equal(t, 1.5, result.Rows[0].PendingHours)
	assert.Equal(t, 3.5, result.TotalHours)
}

func TestReportService_Probation_ConfirmationRate(t *testing.T) {
	f := newReportFixture()
	endDate := time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)

	f.employees.employees = []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", FullName: "One", Status: employee.StatusProbation, ProbationEndDate: timePtr(endDate)},
		{ID: "emp-2", CompanyID: "company-1", FullName: "Two", Status: employee.StatusActive},
	}
	f.events.typeCounts = []lifecycle.TypeCount{
		{Type: string(lifecycle.EventProbationConfirmed), Count: 3},
		{Type: string(lifecycle.EventProbationFailed), Count: 1},
		{Type: string(lifecycle.EventProbationExtended), Count: 2},
	}

	result, err := f.svc.Probation(adminContext(t))

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.CurrentlyOn)
	assert.Equal(t, int64(1), result.EndingWithin30d)
	require.Len(t, result.Upcoming, 1)
	assert.Equal(t, "emp-1", result.Upcoming[0].EmployeeID)
	assert.Equal(t, int64(3), result.Confirmed)
	assert.Equal(t, int64(2), result.Extended)
	assert.Equal(t, int64(1), result.Failed)
	assert.Equal(t, 75.0, result.ConfirmationRate)
}

func TestReportService_Demographics_PercentagesSum(t *testing.T) {
	f := newReportFixture()

	f.employees.employees = []employee.Employee{
		{ID: "emp-1", CompanyID: "company-1", Department: strPtr("Engineering"), Gender: strPtr("female"), EmploymentType: strPtr("full_time")},
		{ID: "emp-2", CompanyID: "company-1", Department: strPtr("Engineering"), Gender: strPtr("male"), EmploymentType: strPtr("full_time")},
		{ID: "emp-3", CompanyID: "company-1"},
	}

	result, err := f.svc.Demographics(adminContext(t))

	require.NoError(t, err)
	require.Len(t, result.ByDepartment, 2)
	assert.Equal(t, "Engineering", result.ByDepartment[0].Value)
	assert.Equal(t, int64(2), result.ByDepartment[0].Count)
	assert.Equal(t, 66.67, result.ByDepartment[0].Percentage)
	assert.Equal(t, "unassigned", result.ByDepartment[1].Value)
}

func TestAttendanceRate_ZeroExpectedDays(t *testing.T) {
	assert.Equal(t, 0.0, attendanceRate(5, 0, 20))
	assert.Equal(t, 0.0, attendanceRate(5, 3, 0))
}

func TestPunctualityScore_NoPresenceScoresFull(t *testing.T) {
	assert.Equal(t, 100.0, punctualityScore(0, 0))
	assert.Equal(t, 80.0, punctualityScore(10, 2))
}
