package export

import (
	"context"
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"

	"absensi_backend/internals/features/attendances/sessions/dto"
	"absensi_backend/internals/features/attendances/sessions/service"
	employeeRepo "absensi_backend/internals/features/users/employees/repository"
)

// Directory: sumber nama & shift default karyawan. Dipenuhi employeeRepo.Directory.
type Directory interface {
	Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]employeeRepo.Info, error)
	ActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Recapper: dipenuhi *service.AttendanceService.
type Recapper interface {
	Recap(ctx context.Context, from, to string, userIDs []uuid.UUID) ([]service.EmployeeRecap, error)
}

// WithNames mengisi UserName di response (best effort, dir boleh nil).
func WithNames(ctx context.Context, dir Directory, rows []dto.SessionResponse) []dto.SessionResponse {
	if dir == nil || len(rows) == 0 {
		return rows
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	ids = slices.Compact(ids)

	info, err := dir.Lookup(ctx, ids)
	if err != nil {
		log.Printf("[WARN] lookup nama karyawan: %v", err)
		return rows
	}
	for i := range rows {
		rows[i].UserName = info[rows[i].UserID].FullName
	}
	return rows
}

// BuildRecap: rekap per karyawan + nama, urut nama.
// Tanpa filter user, karyawan aktif yang belum pernah absen tetap muncul dengan nilai nol.
func BuildRecap(ctx context.Context, svc Recapper, dir Directory, from, to string, userIDs []uuid.UUID) ([]dto.EmployeeRecapResponse, error) {
	recaps, err := svc.Recap(ctx, from, to, userIDs)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID]service.EmployeeRecap, len(recaps))
	ids := make([]uuid.UUID, 0, len(recaps))
	for _, r := range recaps {
		byUser[r.UserID] = r
		ids = append(ids, r.UserID)
	}
	if dir != nil && len(userIDs) == 0 {
		active, err := dir.ActiveIDs(ctx)
		if err != nil {
			log.Printf("[WARN] daftar karyawan aktif: %v", err)
		}
		for _, id := range active {
			if _, ok := byUser[id]; !ok {
				byUser[id] = service.EmployeeRecap{UserID: id}
				ids = append(ids, id)
			}
		}
	}

	info := map[uuid.UUID]employeeRepo.Info{}
	if dir != nil && len(ids) > 0 {
		if m, err := dir.Lookup(ctx, ids); err == nil {
			info = m
		} else {
			log.Printf("[WARN] lookup nama karyawan: %v", err)
		}
	}

	out := make([]dto.EmployeeRecapResponse, 0, len(ids))
	for _, id := range ids {
		r := byUser[id]
		out = append(out, dto.EmployeeRecapResponse{
			UserID:         id,
			FullName:       info[id].FullName,
			Email:          info[id].Email,
			DaysPresent:    r.DaysPresent,
			SessionCount:   r.SessionCount,
			LateCount:      r.LateCount,
			SickCount:      r.SickCount,
			PermitCount:    r.PermitCount,
			AutoClosed:     r.AutoClosed,
			TotalWorkMins:  r.TotalWorkMins,
			TotalBreakMins: r.TotalBreakMins,
			NetWorkMins:    r.NetWorkMins,
		})
	}
	slices.SortStableFunc(out, func(a, b dto.EmployeeRecapResponse) int {
		return strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName))
	})
	return out, nil
}
