package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/report"
	"github.com/opencore-hr/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetDailyReport(w http.ResponseWriter, r *http.Request)
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
	GetDepartmentComparison(w http.ResponseWriter, r *http.Request)
	GetOvertimeReport(w http.ResponseWriter, r *http.Request)

	GetTurnoverReport(w http.ResponseWriter, r *http.Request)
	GetHeadcountReport(w http.ResponseWriter, r *http.Request)
	GetDemographicsReport(w http.ResponseWriter, r *http.Request)
	GetProbationReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetDailyReport handles GET /reports/attendance/daily
func (h *reportHandlerImpl) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	req := report.DailyReportRequest{
		Date:       r.URL.Query().Get("date"),
		Department: r.URL.Query().Get("department"),
	}

	result, err := h.reportService.Daily(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlyReport handles GET /reports/attendance/monthly
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.MonthlyReportRequest{
		Month: month,
		Year:  year,
	}

	result, err := h.reportService.Monthly(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDepartmentComparison handles GET /reports/attendance/departments
func (h *reportHandlerImpl) GetDepartmentComparison(w http.ResponseWriter, r *http.Request) {
	req := report.RangeRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.reportService.DepartmentComparison(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetOvertimeReport handles GET /reports/attendance/overtime
func (h *reportHandlerImpl) GetOvertimeReport(w http.ResponseWriter, r *http.Request) {
	req := report.RangeRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.reportService.Overtime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTurnoverReport handles GET /reports/workforce/turnover
func (h *reportHandlerImpl) GetTurnoverReport(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return
		}
		year = parsed
	}

	result, err := h.reportService.Turnover(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetHeadcountReport handles GET /reports/workforce/headcount
func (h *reportHandlerImpl) GetHeadcountReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Headcount(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDemographicsReport handles GET /reports/workforce/demographics
func (h *reportHandlerImpl) GetDemographicsReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Demographics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetProbationReport handles GET /reports/workforce/probation
func (h *reportHandlerImpl) GetProbationReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Probation(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
