package attendance

import (
	"math"
	"sort"
	"time"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/shift"
)

// Calculator derives the hour buckets of one employee-day. It is a total
// function over partial data: absent inputs (shift, breaks, punches)
// contribute zero, and it never returns an error.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculationInput carries everything one day's calculation needs. Who and
// when are explicit arguments; the calculator reads no ambient state.
type CalculationInput struct {
	Record attendance.Attendance
	Logs   []attendance.AttendanceLog
	Shift  *shift.Shift
	Breaks []attendance.BreakInterval

	// Location anchors the shift's clock times onto the working day.
	Location *time.Location

	// Now is the explicit clock, used only for an open session when
	// IncludeOpenSession is set.
	Now time.Time

	// IncludeOpenSession accrues an unclosed trailing check-in up to Now.
	// Real-time display sets it; persistence paths leave working hours
	// unset until check-out.
	IncludeOpenSession bool
}

// CalculationResult is the derived state for one employee-day.
type CalculationResult struct {
	WorkingHours  float64
	BreakHours    float64
	LateHours     float64
	EarlyHours    float64
	OvertimeHours float64

	// First check-in and last check-out of the day.
	CheckIn  *time.Time
	CheckOut *time.Time

	Status attendance.Status
}

// Calculate derives hour buckets from the day's punches, shift and breaks.
// All outputs are >= 0 and rounded to 2 decimals.
func (c *Calculator) Calculate(in CalculationInput) CalculationResult {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	logs := sortedLogs(in.Logs)
	checkIn := firstOfType(logs, attendance.LogCheckIn)
	checkOut := lastOfType(logs, attendance.LogCheckOut)

	breakMinutes := totalBreakMinutes(in.Breaks)
	workedMinutes := pairedMinutes(logs, checkOut, in)

	result := CalculationResult{
		BreakHours: roundHours(breakMinutes),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     deriveStatus(in.Record.Status, checkIn, checkOut),
	}

	// Working hours are net of breaks, clamped at zero. They stay unset
	// while the day is still open unless the caller opted in.
	if checkOut != nil || in.IncludeOpenSession {
		net := workedMinutes - breakMinutes
		if net < 0 {
			net = 0
		}
		result.WorkingHours = roundHours(net)
	}

	// Shift-relative buckets need an assigned shift.
	if in.Shift == nil {
		return result
	}

	shiftStart, shiftEnd := in.Shift.ScheduledWindow(in.Record.Date, loc)
	graceLimit := shiftStart.Add(time.Duration(in.Shift.GracePeriodMinutes) * time.Minute)

	// Late is counted past the grace cutoff.
	if checkIn != nil && checkIn.After(graceLimit) {
		result.LateHours = roundHours(int(checkIn.Sub(graceLimit).Minutes()))
	}

	if checkOut != nil {
		if checkOut.Before(shiftEnd) {
			result.EarlyHours = roundHours(int(shiftEnd.Sub(*checkOut).Minutes()))
		}
		if checkOut.After(shiftEnd) {
			result.OvertimeHours = roundHours(int(checkOut.Sub(shiftEnd).Minutes()))
		}
	}

	return result
}

// Apply writes a calculation result back onto the record.
func (c *Calculator) Apply(record attendance.Attendance, result CalculationResult) attendance.Attendance {
	record.WorkingHours = result.WorkingHours
	record.BreakHours = result.BreakHours
	record.LateHours = result.LateHours
	record.EarlyHours = result.EarlyHours
	record.OvertimeHours = result.OvertimeHours
	record.CheckIn = result.CheckIn
	record.CheckOut = result.CheckOut
	record.Status = result.Status
	return record
}

func sortedLogs(logs []attendance.AttendanceLog) []attendance.AttendanceLog {
	sorted := make([]attendance.AttendanceLog, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LoggedAt.Before(sorted[j].LoggedAt)
	})
	return sorted
}

// pairedMinutes sums check_in -> check_out pairs. An unclosed trailing
// check-in accrues up to Now only when the caller opted into open sessions.
func pairedMinutes(logs []attendance.AttendanceLog, checkOut *time.Time, in CalculationInput) int {
	total := 0
	var lastCheckIn *time.Time

	for i := range logs {
		log := logs[i]
		switch log.Type {
		case attendance.LogCheckIn:
			t := log.LoggedAt
			lastCheckIn = &t
		case attendance.LogCheckOut:
			if lastCheckIn != nil {
				minutes := int(log.LoggedAt.Sub(*lastCheckIn).Minutes())
				if minutes > 0 {
					total += minutes
				}
				lastCheckIn = nil
			}
		}
	}

	if lastCheckIn != nil && checkOut == nil && in.IncludeOpenSession {
		minutes := int(in.Now.Sub(*lastCheckIn).Minutes())
		if minutes > 0 {
			total += minutes
		}
	}

	return total
}

func totalBreakMinutes(breaks []attendance.BreakInterval) int {
	total := 0
	for _, b := range breaks {
		total += b.Minutes()
	}
	return total
}

// deriveStatus never overrides calendar-assigned day types.
func deriveStatus(current attendance.Status, checkIn, checkOut *time.Time) attendance.Status {
	if current.IsTerminalDayType() || current == attendance.StatusHalfDay {
		return current
	}
	if checkOut != nil {
		return attendance.StatusCheckedOut
	}
	if checkIn != nil {
		return attendance.StatusCheckedIn
	}
	if current != "" {
		return current
	}
	return attendance.StatusAbsent
}

func firstOfType(logs []attendance.AttendanceLog, logType attendance.LogType) *time.Time {
	for i := range logs {
		if logs[i].Type == logType {
			t := logs[i].LoggedAt
			return &t
		}
	}
	return nil
}

func lastOfType(logs []attendance.AttendanceLog, logType attendance.LogType) *time.Time {
	for i := len(logs) - 1; i >= 0; i-- {
		if logs[i].Type == logType {
			t := logs[i].LoggedAt
			return &t
		}
	}
	return nil
}

func roundHours(minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return math.Round(float64(minutes)/60*100) / 100
}
