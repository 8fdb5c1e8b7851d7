package report

import (
	"context"
)

// ReportService is the read-only aggregation surface. Workforce analytics
// (turnover, headcount, probation) are cached; attendance reports are
// computed per request.
type ReportService interface {
	Daily(ctx context.Context, req DailyReportRequest) (DailyReport, error)
	Monthly(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)
	DepartmentComparison(ctx context.Context, req RangeRequest) (DepartmentComparison, error)
	Overtime(ctx context.Context, req RangeRequest) (OvertimeReport, error)

	Turnover(ctx context.Context, year int) (TurnoverReport, error)
	Headcount(ctx context.Context) (HeadcountReport, error)
	Demographics(ctx context.Context) (DemographicsReport, error)
	Probation(ctx context.Context) (ProbationReport, error)
}
