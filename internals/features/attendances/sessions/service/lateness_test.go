package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"absensi_backend/internals/configs"
	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/helpers/dbtime"
)

func jkt(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, dbtime.JakartaLocation())
}

func TestClockInStatus(t *testing.T) {
	p := NewLatenessPolicy(configs.DefaultShiftPolicy())

	assert.Equal(t, model.AttendanceStatusPresent, p.ClockInStatus("Shift 1", jkt(7, 0)))
	assert.Equal(t, model.AttendanceStatusLate, p.ClockInStatus("Shift 1", jkt(7, 1)))
	assert.Equal(t, model.AttendanceStatusPresent, p.ClockInStatus("Shift 2", jkt(12, 0)))
	assert.Equal(t, model.AttendanceStatusLate, p.ClockInStatus("Shift 2", jkt(12, 1)))
	assert.Equal(t, model.AttendanceStatusPresent, p.ClockInStatus("Management", jkt(23, 0)))

	// UTC input dibaca sebagai jam Jakarta: 00:30Z = 07:30 WIB
	assert.Equal(t, model.AttendanceStatusLate, p.ClockInStatus("Shift 1", time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC)))
}

func TestResumeStatusIgnoresShift(t *testing.T) {
	p := NewLatenessPolicy(configs.DefaultShiftPolicy())
	assert.Equal(t, model.AttendanceStatusPresent, p.ResumeStatus(jkt(6, 59)))
	assert.Equal(t, model.AttendanceStatusLate, p.ResumeStatus(jkt(13, 0)))
}

func TestNormalizeShift(t *testing.T) {
	p := NewLatenessPolicy(configs.ShiftPolicy{})
	assert.Equal(t, "Management", p.NormalizeShift("  "))
	assert.Equal(t, "Shift 2", p.NormalizeShift("Shift 2"))
}
