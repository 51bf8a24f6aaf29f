package service

import (
	"strings"
	"time"

	"absensi_backend/internals/configs"
	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/helpers/dbtime"
)

// LatenessPolicy menentukan status present/late saat sesi dibuat. Tidak pernah dihitung ulang.
type LatenessPolicy struct {
	shifts configs.ShiftPolicy
}

func NewLatenessPolicy(p configs.ShiftPolicy) LatenessPolicy {
	if p.LateAfter == nil {
		p = configs.DefaultShiftPolicy()
	}
	if strings.TrimSpace(p.DefaultShift) == "" {
		p.DefaultShift = configs.DefaultShiftPolicy().DefaultShift
	}
	return LatenessPolicy{shifts: p}
}

// NormalizeShift: shift kosong → default ("Management").
func (p LatenessPolicy) NormalizeShift(shift string) string {
	shift = strings.TrimSpace(shift)
	if shift == "" {
		return p.shifts.DefaultShift
	}
	return shift
}

// ClockInStatus: late kalau menit-sejak-tengah-malam > batas shift.
func (p LatenessPolicy) ClockInStatus(shift string, at time.Time) model.AttendanceStatus {
	limit, ok := p.shifts.LateAfter[shift]
	if !ok {
		return model.AttendanceStatusPresent
	}
	return statusAgainst(limit, at)
}

// ResumeStatus memakai batas resume (07:00) tanpa melihat shift.
func (p LatenessPolicy) ResumeStatus(at time.Time) model.AttendanceStatus {
	return statusAgainst(p.shifts.ResumeLateAfter, at)
}

func statusAgainst(limit dbtime.Tod, at time.Time) model.AttendanceStatus {
	if dbtime.MinutesSinceMidnight(at) > limit.Minutes() {
		return model.AttendanceStatusLate
	}
	return model.AttendanceStatusPresent
}
