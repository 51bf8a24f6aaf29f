// file: internals/helpers/dbtime/dbtime.go
package dbtime

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	DefaultTimezone = "Asia/Jakarta"
	DateLayout      = "2006-01-02"

	// Jam pergantian hari kerja (lokal Jakarta). Sebelum jam ini masih dihitung hari sebelumnya.
	BoundaryHour = 4
)

var (
	locOnce    sync.Once
	jakartaLoc *time.Location
)

// JakartaLocation mengembalikan *time.Location Asia/Jakarta.
// Kalau tzdata tidak tersedia di container, fallback ke zona tetap UTC+7 (WIB).
func JakartaLocation() *time.Location {
	locOnce.Do(func() {
		loc, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.FixedZone("WIB", 7*60*60)
		}
		jakartaLoc = loc
	})
	return jakartaLoc
}

// NowInJakarta: "sekarang" di timezone Jakarta.
func NowInJakarta() time.Time {
	return time.Now().In(JakartaLocation())
}

// ToJakartaTime mengonversi waktu (biasanya dari DB = UTC) ke Jakarta.
// Kalau t.IsZero() → dikembalikan apa adanya.
func ToJakartaTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(JakartaLocation())
}

// Versi pointer, biar gampang dipakai di DTO yg pakai *time.Time
func ToJakartaTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := ToJakartaTime(*t)
	return &v
}

// ResolveBusinessDate menentukan tanggal kerja (YYYY-MM-DD) untuk sebuah instant.
// Jam lokal < 04:00 masih milik tanggal kalender sebelumnya.
func ResolveBusinessDate(instant time.Time) string {
	local := instant.In(JakartaLocation())
	if local.Hour() < BoundaryHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(DateLayout)
}

// ParseDate memvalidasi string "YYYY-MM-DD" dan mengembalikan jam 00:00 Jakarta.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), JakartaLocation())
	if err != nil {
		return time.Time{}, fmt.Errorf("tanggal %q tidak valid (format YYYY-MM-DD): %w", date, err)
	}
	return t, nil
}

// BusinessDayStart: instant jam 04:00 Jakarta yang membuka tanggal kerja `date`.
func BusinessDayStart(date string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), BoundaryHour, 0, 0, 0, JakartaLocation()), nil
}

// BusinessDayEnd: instant jam 04:00 keesokan harinya (eksklusif).
func BusinessDayEnd(date string) (time.Time, error) {
	start, err := BusinessDayStart(date)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, 1), nil
}

func PreviousBusinessDate(date string) (string, error) {
	return shiftDate(date, -1)
}

func NextBusinessDate(date string) (string, error) {
	return shiftDate(date, 1)
}

func shiftDate(date string, days int) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, days).Format(DateLayout), nil
}

// MinutesSinceMidnight menghitung menit sejak 00:00 waktu lokal Jakarta (detik diabaikan).
func MinutesSinceMidnight(t time.Time) int {
	local := t.In(JakartaLocation())
	return local.Hour()*60 + local.Minute()
}

// DatesBetween mengembalikan daftar tanggal kerja [from..to] inklusif.
func DatesBetween(from, to string) ([]string, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("rentang tanggal terbalik: %s > %s", from, to)
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out, nil
}
