package attendance

import (
	"context"
	"time"
)

// BreakCapability is the registry name of the optional break-tracking module.
const BreakCapability = "break_system"

// BreakInterval is one closed break taken inside a working day.
type BreakInterval struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the interval length, never negative.
func (b BreakInterval) Minutes() int {
	minutes := int(b.End.Sub(b.Start).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// BreakProvider is implemented by the break-system capability. The core calls
// it only through the registry; when the capability is absent, breaks
// contribute zero to every calculation.
type BreakProvider interface {
	BreaksForAttendance(ctx context.Context, attendanceID string, companyID string) ([]BreakInterval, error)
}
