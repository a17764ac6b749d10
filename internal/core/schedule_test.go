package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/banben/yugabyte-db/internal/model"
)

// fakeRegistry resolves resource ownership without a database.
type fakeRegistry struct {
	universeOwned bool
	configOwned   bool
	err           error
}

func (r fakeRegistry) UniverseOwned(ctx context.Context, tenantID, universeID string) (bool, error) {
	return r.universeOwned, r.err
}

func (r fakeRegistry) StorageConfigOwned(ctx context.Context, tenantID, configID string) (bool, error) {
	return r.configOwned, r.err
}

func sqlContaining(substr string) any {
	return mock.MatchedBy(func(sql string) bool { return strings.Contains(sql, substr) })
}

func validBackupParams() json.RawMessage {
	return json.RawMessage(`{"universeUUID":"test-universe-1","storageConfigUUID":"test-config-1"}`)
}

func newScheduleService(db *mockDB, reg model.Registry) *ScheduleService {
	return NewScheduleService(db, NewTenantService(db), reg)
}

// ---------- Create ----------

func TestScheduleService_Create_InvalidTenant(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{universeOwned: true, configOwned: true})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(false))

	schedule, err := svc.Create(ctx, "unknown-tenant", model.TaskTypeBackupUniverse, validBackupParams(), 1000)
	require.Error(t, err)
	assert.Nil(t, schedule)

	var invalidTenant *InvalidTenantError
	require.ErrorAs(t, err, &invalidTenant)
	assert.Equal(t, "Invalid Tenant UUID: unknown-tenant", err.Error())
	db.AssertExpectations(t)
}

func TestScheduleService_Create_NonPositiveFrequency(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{universeOwned: true, configOwned: true})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))

	for _, freq := range []int64{0, -1000} {
		schedule, err := svc.Create(ctx, "test-tenant-1", model.TaskTypeBackupUniverse, validBackupParams(), freq)
		require.Error(t, err)
		assert.Nil(t, schedule)

		var invalidParams *InvalidParamsError
		require.ErrorAs(t, err, &invalidParams)
		assert.Contains(t, err.Error(), "frequencyMillis")
	}
}

func TestScheduleService_Create_UnknownTaskType(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{universeOwned: true, configOwned: true})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))

	schedule, err := svc.Create(ctx, "test-tenant-1", "DefragUniverse", validBackupParams(), 1000)
	require.Error(t, err)
	assert.Nil(t, schedule)

	var invalidParams *InvalidParamsError
	require.ErrorAs(t, err, &invalidParams)
	assert.Contains(t, err.Error(), "unknown task type")
}

func TestScheduleService_Create_UnownedUniverse(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{universeOwned: false, configOwned: true})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))

	schedule, err := svc.Create(ctx, "test-tenant-1", model.TaskTypeBackupUniverse, validBackupParams(), 1000)
	require.Error(t, err)
	assert.Nil(t, schedule)

	var invalidParams *InvalidParamsError
	require.ErrorAs(t, err, &invalidParams)
	assert.Contains(t, err.Error(), "universe test-universe-1 not found")
	db.AssertExpectations(t)
}

func TestScheduleService_Create_Success(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{universeOwned: true, configOwned: true})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))
	db.On("Exec", ctx, sqlContaining("INSERT INTO schedules"), mock.Anything).Return(pgconn.CommandTag{}, nil)

	before := time.Now()
	schedule, err := svc.Create(ctx, "test-tenant-1", model.TaskTypeBackupUniverse, validBackupParams(), 1000)
	require.NoError(t, err)
	require.NotNil(t, schedule)

	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, "test-tenant-1", schedule.TenantID)
	assert.Equal(t, model.TaskTypeBackupUniverse, schedule.TaskType)
	assert.Equal(t, int64(1000), schedule.FrequencyMillis)
	assert.Equal(t, model.ScheduleStatusActive, schedule.Status)
	// First dispatch is due one frequency after creation.
	assert.WithinDuration(t, before.Add(time.Second), schedule.NextExpectedTaskTime, time.Second)
	db.AssertExpectations(t)
}

func TestScheduleService_Create_InsertError(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{universeOwned: true, configOwned: true})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))
	db.On("Exec", ctx, sqlContaining("INSERT INTO schedules"), mock.Anything).Return(pgconn.CommandTag{}, errors.New("db error"))

	schedule, err := svc.Create(ctx, "test-tenant-1", model.TaskTypeBackupUniverse, validBackupParams(), 1000)
	require.Error(t, err)
	assert.Nil(t, schedule)
	assert.Contains(t, err.Error(), "insert schedule")
}

// ---------- ListByTenant ----------

func scheduleScanFunc(id, tenantID string, next time.Time) func(dest ...any) error {
	return func(dest ...any) error {
		now := time.Now()
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = tenantID
		*(dest[2].(*string)) = model.TaskTypeBackupUniverse
		*(dest[3].(*json.RawMessage)) = validBackupParams()
		*(dest[4].(*int64)) = 1000
		*(dest[5].(*time.Time)) = next
		*(dest[6].(*string)) = model.ScheduleStatusActive
		*(dest[7].(*time.Time)) = now
		*(dest[8].(*time.Time)) = now
		return nil
	}
}

func TestScheduleService_ListByTenant_InvalidTenant(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(false))

	schedules, err := svc.ListByTenant(ctx, "unknown-tenant")
	require.Error(t, err)
	assert.Nil(t, schedules)

	var invalidTenant *InvalidTenantError
	require.ErrorAs(t, err, &invalidTenant)
	db.AssertExpectations(t)
}

func TestScheduleService_ListByTenant_Success(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	next := time.Now().Add(time.Second)
	rows := newMockRows(
		scheduleScanFunc("test-schedule-1", "test-tenant-1", next),
		scheduleScanFunc("test-schedule-2", "test-tenant-1", next),
	)
	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))
	db.On("Query", ctx, sqlContaining("FROM schedules"), mock.Anything).Return(rows, nil)

	schedules, err := svc.ListByTenant(ctx, "test-tenant-1")
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, "test-schedule-1", schedules[0].ID)
	assert.Equal(t, "test-schedule-2", schedules[1].ID)
	db.AssertExpectations(t)
}

func TestScheduleService_ListByTenant_Empty(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))
	db.On("Query", ctx, sqlContaining("FROM schedules"), mock.Anything).Return(newEmptyMockRows(), nil)

	schedules, err := svc.ListByTenant(ctx, "test-tenant-1")
	require.NoError(t, err)
	assert.Empty(t, schedules)
}

// ---------- Delete ----------

func TestScheduleService_Delete_InvalidTenant(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(false))

	err := svc.Delete(ctx, "unknown-tenant", "test-schedule-1")
	require.Error(t, err)

	var invalidTenant *InvalidTenantError
	require.ErrorAs(t, err, &invalidTenant)
	// The schedule row must not be touched when the tenant check fails.
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleService_Delete_Success(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))
	db.On("Exec", ctx, sqlContaining("UPDATE schedules"), mock.Anything).Return(pgconn.NewCommandTag("UPDATE 1"), nil)

	err := svc.Delete(ctx, "test-tenant-1", "test-schedule-1")
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestScheduleService_Delete_UnknownOrForeignSchedule(t *testing.T) {
	// A missing schedule, another tenant's schedule and an already-deleted
	// schedule all hit the same zero-row UPDATE and fail identically.
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))
	db.On("Exec", ctx, sqlContaining("UPDATE schedules"), mock.Anything).Return(pgconn.NewCommandTag("UPDATE 0"), nil)

	err := svc.Delete(ctx, "test-tenant-1", "someone-elses-schedule")
	require.Error(t, err)

	var invalidSchedule *InvalidScheduleError
	require.ErrorAs(t, err, &invalidSchedule)
	assert.Equal(t, "Invalid Schedule UUID: someone-elses-schedule", err.Error())
}

// ---------- GetOwned ----------

func TestScheduleService_GetOwned_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))
	db.On("QueryRow", ctx, sqlContaining("FROM schedules"), mock.Anything).Return(&mockRow{scanFunc: func(dest ...any) error {
		return pgx.ErrNoRows
	}})

	schedule, err := svc.GetOwned(ctx, "test-tenant-1", "nonexistent")
	require.Error(t, err)
	assert.Nil(t, schedule)

	var invalidSchedule *InvalidScheduleError
	require.ErrorAs(t, err, &invalidSchedule)
	assert.Equal(t, "Invalid Schedule UUID: nonexistent", err.Error())
}

func TestScheduleService_GetOwned_StorageFault(t *testing.T) {
	// A storage fault is not a missing schedule: it must surface as an
	// infrastructure error, never as the user-visible invalid-UUID kind.
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContaining("FROM tenants"), mock.Anything).Return(existsRow(true))
	db.On("QueryRow", ctx, sqlContaining("FROM schedules"), mock.Anything).Return(&mockRow{scanFunc: func(dest ...any) error {
		return errors.New("connection reset")
	}})

	schedule, err := svc.GetOwned(ctx, "test-tenant-1", "test-schedule-1")
	require.Error(t, err)
	assert.Nil(t, schedule)

	var invalidSchedule *InvalidScheduleError
	assert.False(t, errors.As(err, &invalidSchedule))
	assert.Contains(t, err.Error(), "get schedule test-schedule-1")
}

// ---------- ListDue ----------

func TestScheduleService_ListDue_Success(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	now := time.Now()
	rows := newMockRows(
		scheduleScanFunc("test-schedule-1", "test-tenant-1", now.Add(-2*time.Second)),
		scheduleScanFunc("test-schedule-2", "test-tenant-2", now.Add(-time.Second)),
	)
	db.On("Query", ctx, sqlContaining("next_expected_task_time <="), mock.Anything).Return(rows, nil)

	due, err := svc.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "test-schedule-1", due[0].ID)
	db.AssertExpectations(t)
}

// ---------- AdvanceNextTaskTime ----------

func TestScheduleService_AdvanceNextTaskTime_Advanced(t *testing.T) {
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("Exec", ctx, sqlContaining("UPDATE schedules"), mock.Anything).Return(pgconn.NewCommandTag("UPDATE 1"), nil)

	from := time.Now()
	ok, err := svc.AdvanceNextTaskTime(ctx, "test-schedule-1", from, from.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScheduleService_AdvanceNextTaskTime_ScheduleChanged(t *testing.T) {
	// Zero rows means the schedule was deleted or moved concurrently; the
	// caller must not treat that as an error.
	db := &mockDB{}
	svc := newScheduleService(db, fakeRegistry{})
	ctx := context.Background()

	db.On("Exec", ctx, sqlContaining("UPDATE schedules"), mock.Anything).Return(pgconn.NewCommandTag("UPDATE 0"), nil)

	from := time.Now()
	ok, err := svc.AdvanceNextTaskTime(ctx, "test-schedule-1", from, from.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, ok)
}
