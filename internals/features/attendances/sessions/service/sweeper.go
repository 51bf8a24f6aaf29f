package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/helpers/dbtime"
)

const sweepBatchSize = 200

// autoClosePrevious menutup sesi open di tanggal kerja sebelumnya pada jam 04:00 hari ini.
// Hanya jalan kalau jam lokal Jakarta sudah >= 04:00. Aman dipanggil berulang.
func (s *AttendanceService) autoClosePrevious(ctx context.Context, userID uuid.UUID, now time.Time, today string) (*model.AttendanceSessionModel, error) {
	if dbtime.ToJakartaTime(now).Hour() < dbtime.BoundaryHour {
		return nil, nil
	}
	prev, err := dbtime.PreviousBusinessDate(today)
	if err != nil {
		return nil, err
	}
	closeAt, err := dbtime.BusinessDayStart(today)
	if err != nil {
		return nil, err
	}
	return s.closeOpen(ctx, userID, prev, closeAt)
}

// closeOpen: di dalam lock user+tanggal, tutup sesi open (kalau masih ada) pada closeAt.
func (s *AttendanceService) closeOpen(ctx context.Context, userID uuid.UUID, businessDate string, closeAt time.Time) (*model.AttendanceSessionModel, error) {
	var closed *model.AttendanceSessionModel
	err := s.store.Transact(ctx, userID, businessDate, func(tx Store) error {
		sessions, err := tx.ListByUserAndDate(ctx, userID, businessDate)
		if err != nil {
			return err
		}
		row := ActiveSession(sessions)
		if row == nil {
			return nil
		}
		at := closeAt
		row.AttendanceSessionCheckOut = &at
		row.AttendanceSessionAutoClosed = true
		row.AppendNote(model.AutoCloseNote)
		if err := tx.Update(ctx, row); err != nil {
			return err
		}
		closed = row
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("auto-close %s: %w", businessDate, err)
	}
	return closed, nil
}

// SweepStale menutup semua sesi open yang tanggal kerjanya sudah lewat,
// pada batas 04:00 yang mengakhiri tanggal kerja tsb. Return jumlah sesi yang ditutup.
func (s *AttendanceService) SweepStale(ctx context.Context) (int, error) {
	today := dbtime.ResolveBusinessDate(s.now())
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		batch, err := s.store.ListOpenBefore(ctx, today, sweepBatchSize)
		if err != nil {
			return total, fmt.Errorf("list sesi stale: %w", err)
		}
		closedInBatch := 0
		for _, row := range batch {
			closeAt, err := dbtime.BusinessDayEnd(row.AttendanceSessionBusinessDate)
			if err != nil {
				log.Printf("[SWEEP] tanggal tidak valid sesi=%s: %v", row.AttendanceSessionID, err)
				continue
			}
			closed, err := s.closeOpen(ctx, row.AttendanceSessionUserID, row.AttendanceSessionBusinessDate, closeAt)
			if err != nil {
				log.Printf("[SWEEP] gagal tutup sesi=%s: %v", row.AttendanceSessionID, err)
				continue
			}
			if closed != nil {
				closedInBatch++
			}
		}
		total += closedInBatch
		if len(batch) < sweepBatchSize || closedInBatch == 0 {
			break
		}
	}
	return total, nil
}
