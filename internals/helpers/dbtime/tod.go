// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"fmt"
	"strings"
	"time"
)

// Tod = time-of-day ("HH:mm[:ss]") tanpa tanggal & zona.
type Tod struct{ time.Time }

// From: bikin Tod dari time.Time (ambil HH:mm:ss di Jakarta, buang tanggal)
func From(t time.Time) Tod {
	local := t.In(JakartaLocation())
	return Tod{
		Time: time.Date(0, 1, 1, local.Hour(), local.Minute(), local.Second(), 0, time.UTC),
	}
}

// Parse: bikin Tod dari string "HH:mm[:ss]"
func Parse(s string) (Tod, error) {
	var tt Tod
	return tt, tt.parse(s)
}

// MustParse dipakai untuk default yang sudah pasti valid.
func MustParse(s string) Tod {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 { // "HH:MM"
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: format jam %q tidak valid: %w", s, err)
	}
	t.Time = tt
	return nil
}

// Minutes: menit sejak tengah malam.
func (t Tod) Minutes() int {
	return t.Hour()*60 + t.Minute()
}

func (t Tod) String() string {
	return t.Format("15:04")
}
