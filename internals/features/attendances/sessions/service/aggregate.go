package service

import (
	"time"

	"absensi_backend/internals/features/attendances/sessions/model"
)

type Summary struct {
	TotalWorkMins  int `json:"total_work_mins"`
	TotalBreakMins int `json:"total_break_mins"`
	NetWorkMins    int `json:"net_work_mins"`
}

// minutesBetween: selisih menit (dibulatkan ke menit) from→to; 0 kalau salah satu kosong.
func minutesBetween(from, to *time.Time) int {
	if from == nil || to == nil {
		return 0
	}
	d := to.Truncate(time.Minute).Sub(from.Truncate(time.Minute))
	return int(d / time.Minute)
}

// SessionWorkMinutes: checkIn→checkOut dikurangi interval izin keluar (kalau lengkap), min 0.
func SessionWorkMinutes(s *model.AttendanceSessionModel) int {
	work := minutesBetween(s.AttendanceSessionCheckIn, s.AttendanceSessionCheckOut)
	if s.AttendanceSessionPermitExitAt != nil && s.AttendanceSessionPermitResumeAt != nil {
		work -= minutesBetween(s.AttendanceSessionPermitExitAt, s.AttendanceSessionPermitResumeAt)
	}
	return max(0, work)
}

func SessionBreakMinutes(s *model.AttendanceSessionModel) int {
	return max(0, minutesBetween(s.AttendanceSessionBreakStart, s.AttendanceSessionBreakEnd))
}

// Aggregate menjumlahkan durasi semua sesi. Urutan sesi tidak berpengaruh.
func Aggregate(sessions []model.AttendanceSessionModel) Summary {
	var out Summary
	for i := range sessions {
		out.TotalWorkMins += SessionWorkMinutes(&sessions[i])
		out.TotalBreakMins += SessionBreakMinutes(&sessions[i])
	}
	out.NetWorkMins = max(0, out.TotalWorkMins-out.TotalBreakMins)
	return out
}
