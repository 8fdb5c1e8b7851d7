package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/holiday"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/shift"
)

func authedContext(t *testing.T, employeeID, role string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	claims := map[string]interface{}{
		"user_id":    "user-1",
		"company_id": "company-1",
		"role":       role,
		"type":       "access",
	}
	if employeeID != "" {
		claims["employee_id"] = employeeID
	}
	token, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
	// byEmployeeDate indexes records by "<employeeID>/<YYYY-MM-DD>".
	created  []attendance.Attendance
	updated  []attendance.Attendance
	absences []attendance.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) put(a attendance.Attendance) {
	f.records[a.ID] = a
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	a.Version = 1
	f.records[a.ID] = a
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	a, ok := f.records[id]
	if !ok || a.CompanyID != companyID {
		return attendance.Attendance{}, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	for _, a := range f.records {
		if a.EmployeeID == employeeID && a.CompanyID == companyID && sameDay(a.Date, date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetByDate(ctx context.Context, date time.Time, companyID string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range f.records {
		if a.CompanyID == companyID && sameDay(a.Date, date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) UpdateWithVersion(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	stored, ok := f.records[a.ID]
	if !ok {
		return attendance.Attendance{}, pgx.ErrNoRows
	}
	if stored.Version != a.Version {
		return attendance.Attendance{}, attendance.ErrVersionConflict
	}
	a.Version++
	f.records[a.ID] = a
	f.updated = append(f.updated, a)
	return a, nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.Filter, companyID string) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, a := range f.records {
		if a.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && string(a.Status) != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) BulkCreateAbsences(ctx context.Context, absences []attendance.Attendance) error {
	for _, a := range absences {
		if _, exists := f.records[a.ID]; !exists {
			a.Version = 1
			f.records[a.ID] = a
		}
	}
	f.absences = append(f.absences, absences...)
	return nil
}

func (f *fakeAttendanceRepo) ApproveOvertime(ctx context.Context, id, approverID, companyID string, approvedAt time.Time) error {
	a, ok := f.records[id]
	if !ok || a.CompanyID != companyID {
		return pgx.ErrNoRows
	}
	if a.ApprovedBy != nil {
		return attendance.ErrAlreadyProcessed
	}
	a.ApprovedBy = &approverID
	a.ApprovedAt = &approvedAt
	f.records[id] = a
	return nil
}

type fakeLogRepo struct {
	logs map[string][]attendance.AttendanceLog
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{logs: make(map[string][]attendance.AttendanceLog)}
}

func (f *fakeLogRepo) Append(ctx context.Context, log attendance.AttendanceLog) (attendance.AttendanceLog, error) {
	f.logs[log.AttendanceID] = append(f.logs[log.AttendanceID], log)
	return log, nil
}

func (f *fakeLogRepo) ListByAttendance(ctx context.Context, attendanceID string, companyID string) ([]attendance.AttendanceLog, error) {
	return f.logs[attendanceID], nil
}

func (f *fakeLogRepo) CountByAttendanceAndType(ctx context.Context, attendanceID string, logType attendance.LogType, companyID string) (int, error) {
	count := 0
	for _, log := range f.logs[attendanceID] {
		if log.Type == logType {
			count++
		}
	}
	return count, nil
}

func (f *fakeLogRepo) ReplaceForAttendance(ctx context.Context, attendanceID string, companyID string, logs []attendance.AttendanceLog) error {
	f.logs[attendanceID] = logs
	return nil
}

// fakeTxRunner stands in for the transactional wrapper; fakes keep state in
// memory so there is nothing to commit or roll back.
func fakeTxRunner(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func newFakeShiftRepo(shifts ...shift.Shift) *fakeShiftRepo {
	f := &fakeShiftRepo{shifts: make(map[string]shift.Shift)}
	for _, s := range shifts {
		f.shifts[s.ID] = s
	}
	return f
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string, companyID string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) List(ctx context.Context, companyID string) ([]shift.Shift, error) {
	var out []shift.Shift
	for _, s := range f.shifts {
		out = append(out, s)
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range employees {
		f.employees[e.ID] = e
	}
	return f
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.UserID != nil && *e.UserID == userID && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListDepartments(ctx context.Context, companyID string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.Department != nil && !seen[*e.Department] {
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
	f.holidays = append(f.holidays, h)
	return h, nil
}

func (f *fakeHolidayRepo) GetByID(ctx context.Context, id string, companyID string) (holiday.Holiday, error) {
	for _, h := range f.holidays {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) Update(ctx context.Context, h holiday.Holiday) error { return nil }

func (f *fakeHolidayRepo) Delete(ctx context.Context, id string, companyID string) error {
	return nil
}

func (f *fakeHolidayRepo) List(ctx context.Context, companyID string, year int) ([]holiday.Holiday, error) {
	return f.holidays, nil
}

func (f *fakeHolidayRepo) ListInRange(ctx context.Context, companyID string, start, end time.Time) ([]holiday.Holiday, error) {
	return f.holidays, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func strPtr(s string) *string { return &s }

func dateOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func testEmployee(id string, shiftID *string) employee.Employee {
	return employee.Employee{
		ID:        id,
		UserID:    strPtr(fmt.Sprintf("user-%s", id)),
		CompanyID: "company-1",
		FullName:  fmt.Sprintf("Employee %s", id),
		Status:    employee.StatusActive,
		ShiftID:   shiftID,
	}
}
