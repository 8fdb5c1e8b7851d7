package shift

import (
	"context"
	"time"
)

// Shift is a named schedule template assigned to employees. StartTime and
// EndTime carry only the clock portion; the date component is ignored.
type Shift struct {
	ID                 string
	CompanyID          string
	Name               string
	StartTime          time.Time
	EndTime            time.Time
	GracePeriodMinutes int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ScheduledWindow anchors the shift's clock times onto a working day in the
// given location.
func (s Shift) ScheduledWindow(date time.Time, loc *time.Location) (start, end time.Time) {
	start = time.Date(date.Year(), date.Month(), date.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), 0, 0, loc)
	end = time.Date(date.Year(), date.Month(), date.Day(),
		s.EndTime.Hour(), s.EndTime.Minute(), 0, 0, loc)
	// Overnight shifts end on the next calendar day.
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// ScheduledMinutes is the expected shift length.
func (s Shift) ScheduledMinutes() int {
	start, end := s.ScheduledWindow(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	return int(end.Sub(start).Minutes())
}

type ShiftRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Shift, error)
	List(ctx context.Context, companyID string) ([]Shift, error)
}
