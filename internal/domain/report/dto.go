package report

import (
	"fmt"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// DAILY ATTENDANCE REPORT
// ========================================

type DailyReportRequest struct {
	Date       string `json:"date"`
	Department string `json:"department"`
}

func (r *DailyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailyReport struct {
	Date        string           `json:"date"`
	GeneratedAt string           `json:"generated_at"`
	Rows        []DailyReportRow `json:"rows"`
	Summary     DailySummary     `json:"summary"`
}

type DailyReportRow struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	Department    string  `json:"department"`
	CheckIn       *string `json:"check_in"`
	CheckOut      *string `json:"check_out"`
	WorkingHours  float64 `json:"working_hours"`
	LateHours     float64 `json:"late_hours"`
	EarlyHours    float64 `json:"early_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Status        string  `json:"status"`
}

type DailySummary struct {
	TotalEmployees int `json:"total_employees"`
	Present        int `json:"present"`
	Absent         int `json:"absent"`
	OnLeave        int `json:"on_leave"`
	Late           int `json:"late"`
}

// ========================================
// MONTHLY ATTENDANCE SUMMARY
// ========================================

type MonthlyReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlyReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Employees []MonthlyEmployee `json:"employees"`
}

type MonthlyEmployee struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`

	Summary   MonthlySummary `json:"summary"`
	DailyLogs []DailyLog     `json:"daily_logs"`
}

type MonthlySummary struct {
	TotalWorkDays      int     `json:"total_work_days"`
	TotalWorkingHours  float64 `json:"total_working_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	TotalLateHours     float64 `json:"total_late_hours"`
	TotalPresent       int     `json:"total_present"`
	TotalAbsent        int     `json:"total_absent"`
	TotalLeave         int     `json:"total_leave"`
	TotalLateDays      int     `json:"total_late_days"`
}

type DailyLog struct {
	Date          string  `json:"date"`
	DayOfWeek     string  `json:"day_of_week"`
	CheckIn       *string `json:"check_in"`
	CheckOut      *string `json:"check_out"`
	WorkingHours  float64 `json:"working_hours"`
	LateHours     float64 `json:"late_hours"`
	EarlyHours    float64 `json:"early_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Status        string  `json:"status"`
}

// ========================================
// DEPARTMENT COMPARISON
// ========================================

type RangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DepartmentComparison struct {
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	WorkingDays int                  `json:"working_days"`
	GeneratedAt string               `json:"generated_at"`
	Departments []DepartmentRow      `json:"departments"`
	Overall     DepartmentAggregates `json:"overall"`
}

type DepartmentRow struct {
	Department         string  `json:"department"`
	TotalEmployees     int     `json:"total_employees"`
	TotalPresentDays   int     `json:"total_present_days"`
	AttendanceRate     float64 `json:"attendance_rate"`
	PunctualityScore   float64 `json:"punctuality_score"`
	TotalLateInstances int     `json:"total_late_instances"`
	TotalWorkingHours  float64 `json:"total_working_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	Rank               int     `json:"rank"`
}

type DepartmentAggregates struct {
	TotalEmployees        int     `json:"total_employees"`
	TotalPresentDays      int     `json:"total_present_days"`
	AverageAttendanceRate float64 `json:"average_attendance_rate"`
}

// ========================================
// OVERTIME REPORT
// ========================================

type OvertimeReport struct {
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	GeneratedAt string        `json:"generated_at"`
	Rows        []OvertimeRow `json:"rows"`
	TotalHours  float64       `json:"total_hours"`
}

type OvertimeRow struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Department     string  `json:"department"`
	OvertimeDays   int     `json:"overtime_days"`
	OvertimeHours  float64 `json:"overtime_hours"`
	ApprovedHours  float64 `json:"approved_hours"`
	PendingHours   float64 `json:"pending_hours"`
}

// ========================================
// WORKFORCE ANALYTICS
// ========================================

type TurnoverReport struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	GeneratedAt string          `json:"generated_at"`
	Months      []TurnoverMonth `json:"months"`
	AverageRate float64         `json:"average_rate"`
}

type TurnoverMonth struct {
	Month        string  `json:"month"`
	Joins        int64   `json:"joins"`
	Exits        int64   `json:"exits"`
	Headcount    int64   `json:"headcount"`
	TurnoverRate float64 `json:"turnover_rate"`
}

type HeadcountReport struct {
	GeneratedAt   string           `json:"generated_at"`
	Current       int64            `json:"current"`
	Trend         []HeadcountPoint `json:"trend"`
	AverageTenure float64          `json:"average_tenure_years"`
	TenureBuckets []TenureBucket   `json:"tenure_buckets"`
}

type HeadcountPoint struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type TenureBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type DemographicsReport struct {
	GeneratedAt  string           `json:"generated_at"`
	ByDepartment []DimensionCount `json:"by_department"`
	ByGender     []DimensionCount `json:"by_gender"`
	ByType       []DimensionCount `json:"by_employment_type"`
}

type DimensionCount struct {
	Value      string  `json:"value"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ProbationReport struct {
	GeneratedAt      string             `json:"generated_at"`
	CurrentlyOn      int64              `json:"currently_on_probation"`
	EndingWithin30d  int64              `json:"ending_within_30_days"`
	Confirmed        int64              `json:"confirmed"`
	Extended         int64              `json:"extended"`
	Failed           int64              `json:"failed"`
	ConfirmationRate float64            `json:"confirmation_rate"`
	Upcoming         []ProbationEndRow  `json:"upcoming"`
}

type ProbationEndRow struct {
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	Department    string `json:"department"`
	EndDate       string `json:"end_date"`
	DaysRemaining int    `json:"days_remaining"`
}
