package compoff

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencore-hr/attendance-backend-go/internal/config"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/compoff"
	"github.com/opencore-hr/attendance-backend-go/internal/domain/employee"
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

type fakeCompOffRepo struct {
	credits map[string]compoff.CompensatoryOff
	deleted []string
}

func newFakeCompOffRepo() *fakeCompOffRepo {
	return &fakeCompOffRepo{credits: make(map[string]compoff.CompensatoryOff)}
}

func (f *fakeCompOffRepo) put(c compoff.CompensatoryOff) {
	f.credits[c.ID] = c
}

func (f *fakeCompOffRepo) Create(ctx context.Context, c compoff.CompensatoryOff) (compoff.CompensatoryOff, error) {
	f.credits[c.ID] = c
	return c, nil
}

func (f *fakeCompOffRepo) GetByID(ctx context.Context, id string, companyID string) (compoff.CompensatoryOff, error) {
	c, ok := f.credits[id]
	if !ok || c.CompanyID != companyID {
		return compoff.CompensatoryOff{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCompOffRepo) Update(ctx context.Context, c compoff.CompensatoryOff) error {
	if _, ok := f.credits[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.credits[c.ID] = c
	return nil
}

func (f *fakeCompOffRepo) Delete(ctx context.Context, id string, companyID string) error {
	delete(f.credits, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCompOffRepo) List(ctx context.Context, filter compoff.Filter, companyID string) ([]compoff.CompensatoryOff, int64, error) {
	var out []compoff.CompensatoryOff
	for _, c := range f.credits {
		if c.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != "" && c.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCompOffRepo) ExistsOpenForDate(ctx context.Context, employeeID string, workedDate time.Time, companyID string) (bool, error) {
	for _, c := range f.credits {
		if c.EmployeeID == employeeID && c.CompanyID == companyID &&
			c.WorkedDate.Equal(workedDate) && c.Status != compoff.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCompOffRepo) ListConsumable(ctx context.Context, employeeID string, companyID string, asOf time.Time) ([]compoff.CompensatoryOff, error) {
	var out []compoff.CompensatoryOff
	for _, c := range f.credits {
		if c.EmployeeID != employeeID || c.CompanyID != companyID {
			continue
		}
		if c.Status != compoff.StatusApproved || c.IsUsed {
			continue
		}
		if c.ExpiryDate != nil && c.ExpiryDate.Before(asOf) {
			continue
		}
		out = append(out, c)
	}
	// Oldest worked date first, matching the FIFO consumption order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].WorkedDate.Before(out[j].WorkedDate)
	})
	return out, nil
}

func (f *fakeCompOffRepo) GetBalance(ctx context.Context, employeeID string, companyID string, asOf time.Time) (compoff.Balance, error) {
	var balance compoff.Balance
	for _, c := range f.credits {
		if c.EmployeeID != employeeID || c.CompanyID != companyID {
			continue
		}
		switch {
		case c.Status == compoff.StatusPending:
			balance.TotalPending += c.CompOffDays
		case c.Status == compoff.StatusApproved && c.IsUsed:
			balance.TotalApproved += c.CompOffDays
			balance.TotalUsed += c.CompOffDays
		case c.IsExpired(asOf):
			balance.TotalApproved += c.CompOffDays
			balance.TotalExpired += c.CompOffDays
		case c.Status == compoff.StatusApproved:
			balance.TotalApproved += c.CompOffDays
			balance.Available += c.CompOffDays
		}
	}
	return balance, nil
}

func (f *fakeCompOffRepo) ListExpirable(ctx context.Context, companyID string, asOf time.Time) ([]compoff.CompensatoryOff, error) {
	var out []compoff.CompensatoryOff
	for _, c := range f.credits {
		if c.CompanyID == companyID && c.IsExpired(asOf) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByUserID(ctx context.Context, userID string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListDepartments(ctx context.Context, companyID string) ([]string, error) {
	return nil, nil
}

type compOffFixture struct {
	svc  *CompOffServiceImpl
	repo *fakeCompOffRepo
}

func newCompOffFixture() *compOffFixture {
	repo := newFakeCompOffRepo()
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", CompanyID: "company-1", FullName: "One", Status: employee.StatusActive},
		"emp-2": {ID: "emp-2", CompanyID: "company-1", FullName: "Two", Status: employee.StatusActive},
	}}

	svc := NewCompOffService(nil, repo, employees, config.AttendanceConfig{
		CompOffValidityMonths: 3,
		FullDayCompOffHours:   8,
	}, time.UTC).(*CompOffServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC) }
	svc.runTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error { return fn(nil) }

	return &compOffFixture{svc: svc, repo: repo}
}

func TestCompOffService_Create_FullDayCredit(t *testing.T) {
	f := newCompOffFixture()

	ctx := authedContext(t, "emp-1", "employee")
	resp, err := f.svc.Create(ctx, compoff.CreateRequest{
		WorkedDate:  "2025-03-08",
		HoursWorked: 9,
		Reason:      "Weekend release support",
	})

	require.NoError(t, err)
	assert.Equal(t, 1.0, resp.CompOffDays)
	assert.Equal(t, string(compoff.StatusPending), resp.Status)
}

func TestCompOffService_Create_HalfDayCreditBelowThreshold(t *testing.T) {
	f := newCompOffFixture()

	ctx := authedContext(t, "emp-1", "employee")
	resp, err := f.svc.Create(ctx, compoff.CreateRequest{
		WorkedDate:  "2025-03-08",
		HoursWorked: 5,
		Reason:      "Saturday morning support",
	})

	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.CompOffDays)
}

func TestCompOffService_Create_DuplicateWorkedDate(t *testing.T) {
	f := newCompOffFixture()

	ctx := authedContext(t, "emp-1", "employee")
	_, err := f.svc.Create(ctx, compoff.CreateRequest{
		WorkedDate:  "2025-03-08",
		HoursWorked: 9,
		Reason:      "Weekend release support",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, compoff.CreateRequest{
		WorkedDate:  "2025-03-08",
		HoursWorked: 9,
		Reason:      "Same day again",
	})
	assert.ErrorIs(t, err, compoff.ErrDuplicateDate)
}

func TestCompOffService_Create_RejectsInvalidHours(t *testing.T) {
	f := newCompOffFixture()

	ctx := authedContext(t, "emp-1", "employee")
	_, err := f.svc.Create(ctx, compoff.CreateRequest{
		WorkedDate:  "2025-03-08",
		HoursWorked: 0.5,
		Reason:      "Too short",
	})

	assert.Error(t, err)
}

func TestCompOffService_Approve_StampsExpiryFromWorkedDate(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID:          "co-1",
		EmployeeID:  "emp-1",
		CompanyID:   "company-1",
		WorkedDate:  time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		HoursWorked: 9,
		CompOffDays: 1,
		Status:      compoff.StatusPending,
	})

	ctx := authedContext(t, "", "admin")
	resp, err := f.svc.Approve(ctx, "co-1")

	require.NoError(t, err)
	assert.Equal(t, string(compoff.StatusApproved), resp.Status)
	require.NotNil(t, resp.ExpiryDate)
	// Worked date plus the 3-month validity window.
	assert.Equal(t, "2025-06-08", *resp.ExpiryDate)
}

func TestCompOffService_Approve_NonAdminForbidden(t *testing.T) {
	f := newCompOffFixture()

	ctx := authedContext(t, "emp-1", "employee")
	_, err := f.svc.Approve(ctx, "co-1")

	assert.Error(t, err)
}

func TestCompOffService_Approve_AlreadyProcessed(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID:         "co-1",
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		WorkedDate: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Status:     compoff.StatusRejected,
	})

	ctx := authedContext(t, "", "admin")
	_, err := f.svc.Approve(ctx, "co-1")

	assert.ErrorIs(t, err, compoff.ErrAlreadyProcessed)
}

func TestCompOffService_Reject_RecordsReason(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID:         "co-1",
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		WorkedDate: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Status:     compoff.StatusPending,
	})

	ctx := authedContext(t, "", "admin")
	resp, err := f.svc.Reject(ctx, compoff.RejectRequest{ID: "co-1", Reason: "Not pre-approved"})

	require.NoError(t, err)
	assert.Equal(t, string(compoff.StatusRejected), resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "Not pre-approved", *resp.RejectionReason)
}

func TestCompOffService_Update_OwnerOnly(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID:         "co-1",
		EmployeeID: "emp-2",
		CompanyID:  "company-1",
		WorkedDate: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Status:     compoff.StatusPending,
	})

	reason := "changed"
	ctx := authedContext(t, "emp-1", "employee")
	_, err := f.svc.Update(ctx, compoff.UpdateRequest{ID: "co-1", Reason: &reason})

	assert.ErrorIs(t, err, compoff.ErrNotOwner)
}

func TestCompOffService_Update_RederivesCreditOnHoursChange(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID:          "co-1",
		EmployeeID:  "emp-1",
		CompanyID:   "company-1",
		WorkedDate:  time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		HoursWorked: 9,
		CompOffDays: 1,
		Status:      compoff.StatusPending,
	})

	hours := 4.0
	ctx := authedContext(t, "emp-1", "employee")
	resp, err := f.svc.Update(ctx, compoff.UpdateRequest{ID: "co-1", HoursWorked: &hours})

	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.CompOffDays)
}

func TestCompOffService_Update_TerminalStateRejected(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID:         "co-1",
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		WorkedDate: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Status:     compoff.StatusApproved,
	})

	reason := "changed"
	ctx := authedContext(t, "emp-1", "employee")
	_, err := f.svc.Update(ctx, compoff.UpdateRequest{ID: "co-1", Reason: &reason})

	assert.ErrorIs(t, err, compoff.ErrAlreadyProcessed)
}

func TestCompOffService_Delete_PendingOnly(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID:         "co-1",
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		WorkedDate: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Status:     compoff.StatusApproved,
	})

	ctx := authedContext(t, "emp-1", "employee")
	err := f.svc.Delete(ctx, "co-1")

	assert.ErrorIs(t, err, compoff.ErrAlreadyProcessed)
}

func TestCompOffService_List_NonAdminScopedToSelf(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-1", EmployeeID: "emp-1", CompanyID: "company-1", Status: compoff.StatusPending,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-2", EmployeeID: "emp-2", CompanyID: "company-1", Status: compoff.StatusPending,
	})

	ctx := authedContext(t, "emp-1", "employee")
	results, total, err := f.svc.List(ctx, compoff.Filter{EmployeeID: "emp-2"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "emp-1", results[0].EmployeeID)
}

func TestCompOffService_GetBalance_Buckets(t *testing.T) {
	f := newCompOffFixture()
	expiredOn := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	futureExpiry := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	usedAt := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	f.repo.put(compoff.CompensatoryOff{
		ID: "co-available", EmployeeID: "emp-1", CompanyID: "company-1",
		CompOffDays: 1, Status: compoff.StatusApproved, ExpiryDate: &futureExpiry,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-used", EmployeeID: "emp-1", CompanyID: "company-1",
		CompOffDays: 0.5, Status: compoff.StatusApproved, IsUsed: true, UsedAt: &usedAt, ExpiryDate: &futureExpiry,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-expired", EmployeeID: "emp-1", CompanyID: "company-1",
		CompOffDays: 1, Status: compoff.StatusApproved, ExpiryDate: &expiredOn,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-pending", EmployeeID: "emp-1", CompanyID: "company-1",
		CompOffDays: 0.5, Status: compoff.StatusPending,
	})

	ctx := authedContext(t, "emp-1", "employee")
	balance, err := f.svc.GetBalance(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, 1.0, balance.Available)
	assert.Equal(t, 0.5, balance.TotalUsed)
	assert.Equal(t, 1.0, balance.TotalExpired)
	assert.Equal(t, 0.5, balance.TotalPending)
}

func TestCompOffService_ExpireOutstanding_CountsLapsedCredits(t *testing.T) {
	f := newCompOffFixture()
	expiredOn := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	futureExpiry := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	f.repo.put(compoff.CompensatoryOff{
		ID: "co-lapsed", EmployeeID: "emp-1", CompanyID: "company-1",
		CompOffDays: 1, Status: compoff.StatusApproved, ExpiryDate: &expiredOn,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-live", EmployeeID: "emp-1", CompanyID: "company-1",
		CompOffDays: 1, Status: compoff.StatusApproved, ExpiryDate: &futureExpiry,
	})

	count, err := f.svc.ExpireOutstanding(context.Background(), "company-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCompOffService_Consume_OldestCreditsFirst(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-feb", EmployeeID: "emp-1", CompanyID: "company-1",
		WorkedDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		CompOffDays: 0.5, Status: compoff.StatusApproved,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-jan-10", EmployeeID: "emp-1", CompanyID: "company-1",
		WorkedDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		CompOffDays: 1, Status: compoff.StatusApproved,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-jan-05", EmployeeID: "emp-1", CompanyID: "company-1",
		WorkedDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		CompOffDays: 1, Status: compoff.StatusApproved,
	})

	ctx := authedContext(t, "emp-1", "employee")
	consumed, err := f.svc.Consume(ctx, 2)

	require.NoError(t, err)
	require.Len(t, consumed, 2)
	assert.Equal(t, "co-jan-05", consumed[0].ID)
	assert.Equal(t, "co-jan-10", consumed[1].ID)

	assert.True(t, f.repo.credits["co-jan-05"].IsUsed)
	assert.True(t, f.repo.credits["co-jan-10"].IsUsed)
	assert.False(t, f.repo.credits["co-feb"].IsUsed)
	require.NotNil(t, f.repo.credits["co-jan-05"].UsedAt)
}

func TestCompOffService_Consume_NeverTouchesUnapprovedCredits(t *testing.T) {
	f := newCompOffFixture()
	lapsed := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-pending", EmployeeID: "emp-1", CompanyID: "company-1",
		WorkedDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CompOffDays: 1, Status: compoff.StatusPending,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-expired", EmployeeID: "emp-1", CompanyID: "company-1",
		WorkedDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		CompOffDays: 1, Status: compoff.StatusApproved, ExpiryDate: &lapsed,
	})
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-usable", EmployeeID: "emp-1", CompanyID: "company-1",
		WorkedDate: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		CompOffDays: 1, Status: compoff.StatusApproved,
	})

	ctx := authedContext(t, "emp-1", "employee")
	consumed, err := f.svc.Consume(ctx, 1)

	require.NoError(t, err)
	require.Len(t, consumed, 1)
	assert.Equal(t, "co-usable", consumed[0].ID)
	assert.False(t, f.repo.credits["co-pending"].IsUsed)
	assert.False(t, f.repo.credits["co-expired"].IsUsed)
}

func TestCompOffService_Consume_InsufficientBalance(t *testing.T) {
	f := newCompOffFixture()
	f.repo.put(compoff.CompensatoryOff{
		ID: "co-1", EmployeeID: "emp-1", CompanyID: "company-1",
		WorkedDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		CompOffDays: 0.5, Status: compoff.StatusApproved,
	})

	ctx := authedContext(t, "emp-1", "employee")
	_, err := f.svc.Consume(ctx, 2)

	assert.ErrorIs(t, err, compoff.ErrNoAvailableCredit)
}

func TestCompOffService_Consume_RejectsInvalidDays(t *testing.T) {
	f := newCompOffFixture()

	ctx := authedContext(t, "emp-1", "employee")
	_, err := f.svc.Consume(ctx, 0.75)

	assert.Error(t, err)
}
