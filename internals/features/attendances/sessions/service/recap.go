package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/helpers/dbtime"
)

// EmployeeRecap: total satu karyawan dalam rentang tanggal.
type EmployeeRecap struct {
	UserID       uuid.UUID `json:"user_id"`
	DaysPresent  int       `json:"days_present"`
	SessionCount int       `json:"session_count"`
	LateCount    int       `json:"late_count"`
	SickCount    int       `json:"sick_count"`
	PermitCount  int       `json:"permission_count"`
	AutoClosed   int       `json:"auto_closed_count"`
	Summary
}

// Recap: rekap per karyawan untuk rentang [from, to]. userIDs kosong = semua.
func (s *AttendanceService) Recap(ctx context.Context, from, to string, userIDs []uuid.UUID) ([]EmployeeRecap, error) {
	if _, err := dbtime.DatesBetween(from, to); err != nil {
		return nil, withMessage(ErrInvalidInput, "Rentang tanggal tidak valid")
	}
	rows, _, err := s.store.ListRange(ctx, RangeFilter{UserIDs: userIDs, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("load rekap: %w", err)
	}
	return BuildRecap(rows), nil
}

// BuildRecap mengelompokkan sesi per user. Urut berdasarkan user id agar stabil.
func BuildRecap(rows []model.AttendanceSessionModel) []EmployeeRecap {
	byUser := map[uuid.UUID][]model.AttendanceSessionModel{}
	for _, r := range rows {
		byUser[r.AttendanceSessionUserID] = append(byUser[r.AttendanceSessionUserID], r)
	}

	out := make([]EmployeeRecap, 0, len(byUser))
	for uid, list := range byUser {
		rec := EmployeeRecap{UserID: uid, SessionCount: len(list), Summary: Aggregate(list)}
		days := map[string]struct{}{}
		for _, r := range list {
			switch r.AttendanceSessionStatus {
			case model.AttendanceStatusLate:
				rec.LateCount++
			case model.AttendanceStatusSick:
				rec.SickCount++
			case model.AttendanceStatusPermission:
				rec.PermitCount++
			}
			if r.AttendanceSessionAutoClosed {
				rec.AutoClosed++
			}
			if !r.AttendanceSessionStatus.IsPermit() && r.AttendanceSessionCheckIn != nil {
				days[r.AttendanceSessionBusinessDate] = struct{}{}
			}
		}
		rec.DaysPresent = len(days)
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b EmployeeRecap) int {
		return slices.Compare(a.UserID[:], b.UserID[:])
	})
	return out
}

// ListSessions: daftar sesi untuk admin (paginated lewat f.Limit/f.Offset).
func (s *AttendanceService) ListSessions(ctx context.Context, f RangeFilter) ([]model.AttendanceSessionModel, int64, error) {
	if f.From != "" || f.To != "" {
		if _, err := dbtime.DatesBetween(f.From, f.To); err != nil {
			return nil, 0, withMessage(ErrInvalidInput, "Rentang tanggal tidak valid")
		}
	}
	if f.Status != "" {
		switch model.AttendanceStatus(f.Status) {
		case model.AttendanceStatusPresent, model.AttendanceStatusLate, model.AttendanceStatusSick,
			model.AttendanceStatusPermission, model.AttendanceStatusAbsent:
		default:
			return nil, 0, withMessage(ErrInvalidInput, "Status tidak dikenal")
		}
	}
	rows, total, err := s.store.ListRange(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list sesi: %w", err)
	}
	return rows, total, nil
}
