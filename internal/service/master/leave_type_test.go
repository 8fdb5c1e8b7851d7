package master

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencore-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/leavetype"
)

type fakeLeaveTypeRepo struct {
	leaveTypes map[string]leavetype.LeaveType
}

func newFakeLeaveTypeRepo() *fakeLeaveTypeRepo {
	return &fakeLeaveTypeRepo{leaveTypes: make(map[string]leavetype.LeaveType)}
}

func (f *fakeLeaveTypeRepo) Create(ctx context.Context, lt leavetype.LeaveType) (leavetype.LeaveType, error) {
	f.leaveTypes[lt.ID] = lt
	return lt, nil
}

func (f *fakeLeaveTypeRepo) GetByID(ctx context.Context, id string, companyID string) (leavetype.LeaveType, error) {
	lt, ok := f.leaveTypes[id]
	if !ok || lt.CompanyID != companyID {
		return leavetype.LeaveType{}, pgx.ErrNoRows
	}
	return lt, nil
}

func (f *fakeLeaveTypeRepo) GetByCode(ctx context.Context, code string, companyID string) (*leavetype.LeaveType, error) {
	for _, lt := range f.leaveTypes {
		if lt.CompanyID == companyID && lt.Code == code {
			copied := lt
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepo) Update(ctx context.Context, lt leavetype.LeaveType) error {
	f.leaveTypes[lt.ID] = lt
	return nil
}

func (f *fakeLeaveTypeRepo) Delete(ctx context.Context, id string, companyID string) error {
	delete(f.leaveTypes, id)
	return nil
}

func (f *fakeLeaveTypeRepo) List(ctx context.Context, companyID string, activeOnly bool) ([]leavetype.LeaveType, error) {
	var out []leavetype.LeaveType
	for _, lt := range f.leaveTypes {
		if lt.CompanyID != companyID {
			continue
		}
		if activeOnly && !lt.IsActive {
			continue
		}
		out = append(out, lt)
	}
	return out, nil
}

func TestLeaveTypeService_Create_UppercasesCode(t *testing.T) {
	repo := newFakeLeaveTypeRepo()
	svc := NewLeaveTypeService(repo)

	resp, err := svc.Create(authedContext(t, "admin"), leavetype.CreateRequest{
		Name:             "Casual Leave",
		Code:             " cl ",
		AccrualRate:      1,
		AccrualFrequency: "monthly",
	})

	require.NoError(t, err)
	assert.Equal(t, "CL", resp.Code)
	assert.True(t, resp.IsActive)
}

func TestLeaveTypeService_Create_DuplicateCode(t *testing.T) {
	repo := newFakeLeaveTypeRepo()
	repo.leaveTypes["lt-1"] = leavetype.LeaveType{
		ID:        "lt-1",
		CompanyID: "company-1",
		Name:      "Casual Leave",
		Code:      "CL",
		IsActive:  true,
	}
	svc := NewLeaveTypeService(repo)

	_, err := svc.Create(authedContext(t, "admin"), leavetype.CreateRequest{
		Name:             "Another Casual",
		Code:             "cl",
		AccrualRate:      1,
		AccrualFrequency: "monthly",
	})

	assert.ErrorIs(t, err, leavetype.ErrCodeExists)
}

func TestLeaveTypeService_Create_AdminOnly(t *testing.T) {
	svc := NewLeaveTypeService(newFakeLeaveTypeRepo())

	_, err := svc.Create(authedContext(t, "employee"), leavetype.CreateRequest{
		Name:             "Casual Leave",
		Code:             "CL",
		AccrualFrequency: "monthly",
	})

	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestLeaveTypeService_Create_RejectsUnknownFrequency(t *testing.T) {
	svc := NewLeaveTypeService(newFakeLeaveTypeRepo())

	_, err := svc.Create(authedContext(t, "admin"), leavetype.CreateRequest{
		Name:             "Casual Leave",
		Code:             "CL",
		AccrualFrequency: "weekly",
	})

	assert.Error(t, err)
}

func TestLeaveTypeService_Update_CodeChangeChecksUniqueness(t *testing.T) {
	repo := newFakeLeaveTypeRepo()
	repo.leaveTypes["lt-1"] = leavetype.LeaveType{
		ID: "lt-1", CompanyID: "company-1", Name: "Casual Leave", Code: "CL", IsActive: true,
	}
	repo.leaveTypes["lt-2"] = leavetype.LeaveType{
		ID: "lt-2", CompanyID: "company-1", Name: "Sick Leave", Code: "SL", IsActive: true,
	}
	svc := NewLeaveTypeService(repo)

	_, err := svc.Update(authedContext(t, "admin"), leavetype.UpdateRequest{
		ID: "lt-2",
		CreateRequest: leavetype.CreateRequest{
			Name:             "Sick Leave",
			Code:             "CL",
			AccrualFrequency: "monthly",
		},
	})

	assert.ErrorIs(t, err, leavetype.ErrCodeExists)
}

func TestLeaveTypeService_Update_CanDeactivate(t *testing.T) {
	repo := newFakeLeaveTypeRepo()
	repo.leaveTypes["lt-1"] = leavetype.LeaveType{
		ID: "lt-1", CompanyID: "company-1", Name: "Casual Leave", Code: "CL", IsActive: true,
	}
	svc := NewLeaveTypeService(repo)

	inactive := false
	resp, err := svc.Update(authedContext(t, "admin"), leavetype.UpdateRequest{
		ID:       "lt-1",
		IsActive: &inactive,
		CreateRequest: leavetype.CreateRequest{
			Name:             "Casual Leave",
			Code:             "CL",
			AccrualFrequency: "monthly",
		},
	})

	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.False(t, repo.leaveTypes["lt-1"].IsActive)
}

func TestLeaveTypeService_List_ActiveOnly(t *testing.T) {
	repo := newFakeLeaveTypeRepo()
	repo.leaveTypes["lt-1"] = leavetype.LeaveType{
		ID: "lt-1", CompanyID: "company-1", Code: "CL", IsActive: true,
	}
	repo.leaveTypes["lt-2"] = leavetype.LeaveType{
		ID: "lt-2", CompanyID: "company-1", Code: "OLD", IsActive: false,
	}
	svc := NewLeaveTypeService(repo)

	active, err := svc.List(authedContext(t, "employee"), true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.List(authedContext(t, "employee"), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLeaveTypeService_Delete_NotFound(t *testing.T) {
	svc := NewLeaveTypeService(newFakeLeaveTypeRepo())

	err := svc.Delete(authedContext(t, "admin"), "missing")

	assert.ErrorIs(t, err, leavetype.ErrLeaveTypeNotFound)
}
