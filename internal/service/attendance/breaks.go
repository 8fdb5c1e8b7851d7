package attendance

import (
	"context"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/pkg/registry"
)

// BreaksFromRegistry resolves a day's break intervals through the capability
// registry. A missing capability or a provider failure both degrade to zero
// breaks; the calculation must stay total either way.
func BreaksFromRegistry(ctx context.Context, reg *registry.Registry, attendanceID, companyID string) []attendance.BreakInterval {
	handle, ok := reg.Get(attendance.BreakCapability)
	if !ok {
		return nil
	}
	provider, ok := handle.(attendance.BreakProvider)
	if !ok {
		return nil
	}

	breaks, err := provider.BreaksForAttendance(ctx, attendanceID, companyID)
	if err != nil {
		return nil
	}
	return breaks
}
