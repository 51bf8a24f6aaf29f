package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/features/attendances/sessions/service"
)

var ErrSessionNotFound = errors.New("sesi absensi tidak ditemukan")

const pgUniqueViolation = "23505"

// GormStore: service.Store di atas Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func lockKey(userID uuid.UUID, businessDate string) string {
	return userID.String() + "|" + businessDate
}

// Transact: transaksi + pg_advisory_xact_lock per user+tanggal (lepas otomatis saat commit/rollback).
func (s *GormStore) Transact(ctx context.Context, userID uuid.UUID, businessDate string, fn func(tx service.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lockKey(userID, businessDate)).Error; err != nil {
			return err
		}
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) ListByUserAndDate(ctx context.Context, userID uuid.UUID, businessDate string) ([]model.AttendanceSessionModel, error) {
	var rows []model.AttendanceSessionModel
	err := s.db.WithContext(ctx).
		Where("attendance_session_user_id = ? AND attendance_session_business_date = ?", userID, businessDate).
		Order("attendance_session_number ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) Create(ctx context.Context, row *model.AttendanceSessionModel) error {
	return mapWriteError(s.db.WithContext(ctx).Create(row).Error)
}

func (s *GormStore) Update(ctx context.Context, row *model.AttendanceSessionModel) error {
	res := s.db.WithContext(ctx).
		Model(&model.AttendanceSessionModel{}).
		Where("attendance_session_id = ?", row.AttendanceSessionID).
		Select("*").
		Omit("attendance_session_id", "attendance_session_created_at").
		Updates(row)
	if res.Error != nil {
		return mapWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *GormStore) ListOpenBefore(ctx context.Context, businessDate string, limit int) ([]model.AttendanceSessionModel, error) {
	q := s.db.WithContext(ctx).
		Where("attendance_session_check_out IS NULL AND attendance_session_business_date < ?", businessDate).
		Order("attendance_session_business_date ASC, attendance_session_user_id ASC, attendance_session_number ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.AttendanceSessionModel
	return rows, q.Find(&rows).Error
}

func (s *GormStore) ListRange(ctx context.Context, f service.RangeFilter) ([]model.AttendanceSessionModel, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.AttendanceSessionModel{})
	if f.From != "" {
		q = q.Where("attendance_session_business_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("attendance_session_business_date <= ?", f.To)
	}
	if len(f.UserIDs) > 0 {
		ids := make([]string, 0, len(f.UserIDs))
		for _, id := range f.UserIDs {
			ids = append(ids, id.String())
		}
		q = q.Where("attendance_session_user_id = ANY(?::uuid[])", pq.Array(ids))
	}
	if f.Status != "" {
		q = q.Where("attendance_session_status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("attendance_session_business_date ASC, attendance_session_user_id ASC, attendance_session_number ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var rows []model.AttendanceSessionModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// mapWriteError: pelanggaran index unik (open session / nomor sesi) → ErrSessionConflict.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return service.ErrSessionConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return service.ErrSessionConflict
	}
	return err
}

var _ service.Store = (*GormStore)(nil)
