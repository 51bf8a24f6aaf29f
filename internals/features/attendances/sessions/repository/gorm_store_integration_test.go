package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"absensi_backend/internals/configs"
	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/features/attendances/sessions/repository"
	"absensi_backend/internals/features/attendances/sessions/service"
	employeeModel "absensi_backend/internals/features/users/employees/model"
	employeeRepo "absensi_backend/internals/features/users/employees/repository"
	"absensi_backend/internals/helpers/dbtime"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test (butuh Docker)")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("absensi_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormPg.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&employeeModel.UserModel{}, &model.AttendanceSessionModel{}))
	return db
}

func TestGormStoreIntegration(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	store := repository.NewGormStore(db)

	t.Run("open session unik per user+tanggal", func(t *testing.T) {
		user := uuid.New()
		now := time.Now().UTC()
		first := &model.AttendanceSessionModel{
			AttendanceSessionUserID:       user,
			AttendanceSessionBusinessDate: "2025-03-10",
			AttendanceSessionNumber:       1,
			AttendanceSessionCheckIn:      &now,
		}
		require.NoError(t, store.Create(ctx, first))
		assert.NotEqual(t, uuid.Nil, first.AttendanceSessionID)

		second := &model.AttendanceSessionModel{
			AttendanceSessionUserID:       user,
			AttendanceSessionBusinessDate: "2025-03-10",
			AttendanceSessionNumber:       2,
			AttendanceSessionCheckIn:      &now,
		}
		err := store.Create(ctx, second)
		assert.ErrorIs(t, err, service.ErrSessionConflict)

		out := now.Add(time.Hour)
		first.AttendanceSessionCheckOut = &out
		require.NoError(t, store.Update(ctx, first))
		require.NoError(t, store.Create(ctx, second))

		rows, err := store.ListByUserAndDate(ctx, user, "2025-03-10")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, 1, rows[0].AttendanceSessionNumber)
		assert.NotNil(t, rows[0].AttendanceSessionCheckOut)
	})

	t.Run("update baris yang tidak ada", func(t *testing.T) {
		err := store.Update(ctx, &model.AttendanceSessionModel{AttendanceSessionID: uuid.New()})
		assert.True(t, errors.Is(err, repository.ErrSessionNotFound))
	})

	t.Run("clock-in paralel hanya satu yang menang", func(t *testing.T) {
		at := time.Date(2025, 3, 11, 8, 0, 0, 0, dbtime.JakartaLocation())
		svc := service.NewAttendanceService(store, nil, configs.DefaultShiftPolicy(),
			service.WithClock(func() time.Time { return at }))
		user := uuid.New()

		var wg sync.WaitGroup
		var mu sync.Mutex
		wins, conflicts := 0, 0
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.ClockIn(ctx, user, "Shift 1", service.Evidence{})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case errors.Is(err, service.ErrSessionConflict):
					conflicts++
				default:
					t.Errorf("error tak terduga: %v", err)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
		assert.Equal(t, 9, conflicts)
	})

	t.Run("list range dengan filter user & paging", func(t *testing.T) {
		a, b := uuid.New(), uuid.New()
		for _, u := range []uuid.UUID{a, b} {
			for d, date := range []string{"2025-04-01", "2025-04-02", "2025-04-03"} {
				in := time.Date(2025, 4, 1+d, 1, 0, 0, 0, time.UTC)
				out := in.Add(8 * time.Hour)
				require.NoError(t, store.Create(ctx, &model.AttendanceSessionModel{
					AttendanceSessionUserID:       u,
					AttendanceSessionBusinessDate: date,
					AttendanceSessionNumber:       1,
					AttendanceSessionCheckIn:      &in,
					AttendanceSessionCheckOut:     &out,
				}))
			}
		}

		rows, total, err := store.ListRange(ctx, service.RangeFilter{
			UserIDs: []uuid.UUID{a}, From: "2025-04-02", To: "2025-04-03",
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, rows, 2)

		rows, total, err = store.ListRange(ctx, service.RangeFilter{From: "2025-04-01", To: "2025-04-30", Limit: 4})
		require.NoError(t, err)
		assert.EqualValues(t, 6, total)
		assert.Len(t, rows, 4)
	})

	t.Run("sweep menutup sesi open hari sebelumnya", func(t *testing.T) {
		user := uuid.New()
		in := time.Date(2025, 5, 1, 1, 0, 0, 0, time.UTC)
		require.NoError(t, store.Create(ctx, &model.AttendanceSessionModel{
			AttendanceSessionUserID:       user,
			AttendanceSessionBusinessDate: "2025-05-01",
			AttendanceSessionNumber:       1,
			AttendanceSessionCheckIn:      &in,
		}))

		now := time.Date(2025, 5, 2, 9, 0, 0, 0, dbtime.JakartaLocation())
		svc := service.NewAttendanceService(store, nil, configs.DefaultShiftPolicy(),
			service.WithClock(func() time.Time { return now }))
		n, err := svc.SweepStale(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)

		rows, err := store.ListByUserAndDate(ctx, user, "2025-05-01")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].AttendanceSessionAutoClosed)
		require.NotNil(t, rows[0].AttendanceSessionCheckOut)
	})

	t.Run("directory lookup nama karyawan", func(t *testing.T) {
		u := employeeModel.UserModel{UserName: "budi", FullName: "Budi", Email: "budi@example.com", Password: "x", Role: "employee", DefaultShift: "Shift 2", IsActive: true}
		require.NoError(t, db.Create(&u).Error)

		dir := employeeRepo.NewDirectory(db)
		info, err := dir.Lookup(ctx, []uuid.UUID{u.ID, uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, "Budi", info[u.ID].FullName)
		assert.Equal(t, "Shift 2", info[u.ID].DefaultShift)
		assert.Len(t, info, 1)

		ids, err := dir.ActiveIDs(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, u.ID)
	})
}
