package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"absensi_backend/internals/features/attendances/sessions/model"
)

func TestAggregate(t *testing.T) {
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	at := func(h, m, s int) *time.Time { return ptr(base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)) }

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Summary{}, Aggregate(nil))
	})

	t.Run("work minus break", func(t *testing.T) {
		rows := []model.AttendanceSessionModel{{
			AttendanceSessionCheckIn:    at(1, 0, 59),
			AttendanceSessionCheckOut:   at(9, 0, 10),
			AttendanceSessionBreakStart: at(5, 0, 0),
			AttendanceSessionBreakEnd:   at(5, 45, 30),
		}}
		assert.Equal(t, Summary{TotalWorkMins: 480, TotalBreakMins: 45, NetWorkMins: 435}, Aggregate(rows))
	})

	t.Run("open session and missing break end count zero", func(t *testing.T) {
		rows := []model.AttendanceSessionModel{{
			AttendanceSessionCheckIn:    at(1, 0, 0),
			AttendanceSessionBreakStart: at(2, 0, 0),
		}}
		assert.Equal(t, Summary{}, Aggregate(rows))
	})

	t.Run("permit interval subtracted", func(t *testing.T) {
		rows := []model.AttendanceSessionModel{{
			AttendanceSessionCheckIn:        at(1, 0, 0),
			AttendanceSessionCheckOut:       at(5, 0, 0),
			AttendanceSessionPermitExitAt:   at(2, 0, 0),
			AttendanceSessionPermitResumeAt: at(3, 30, 0),
		}}
		assert.Equal(t, 150, Aggregate(rows).TotalWorkMins)
	})

	t.Run("crossing midnight stays positive", func(t *testing.T) {
		rows := []model.AttendanceSessionModel{{
			AttendanceSessionCheckIn:  at(15, 0, 0), // 22:00 WIB
			AttendanceSessionCheckOut: at(20, 30, 0),
		}}
		assert.Equal(t, 330, Aggregate(rows).TotalWorkMins)
	})

	t.Run("net floored at zero", func(t *testing.T) {
		rows := []model.AttendanceSessionModel{
			{AttendanceSessionCheckIn: at(1, 0, 0), AttendanceSessionCheckOut: at(1, 10, 0)},
			{AttendanceSessionBreakStart: at(2, 0, 0), AttendanceSessionBreakEnd: at(3, 0, 0)},
		}
		got := Aggregate(rows)
		assert.Equal(t, 10, got.TotalWorkMins)
		assert.Equal(t, 60, got.TotalBreakMins)
		assert.Equal(t, 0, got.NetWorkMins)
	})

	t.Run("order independent", func(t *testing.T) {
		a := model.AttendanceSessionModel{AttendanceSessionCheckIn: at(1, 0, 0), AttendanceSessionCheckOut: at(2, 0, 0)}
		b := model.AttendanceSessionModel{AttendanceSessionCheckIn: at(3, 0, 0), AttendanceSessionCheckOut: at(4, 30, 0)}
		assert.Equal(t, Aggregate([]model.AttendanceSessionModel{a, b}), Aggregate([]model.AttendanceSessionModel{b, a}))
	})
}
