package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadShiftPolicyDefaults(t *testing.T) {
	t.Setenv("SHIFT_1_LATE_AFTER", "")
	t.Setenv("SHIFT_2_LATE_AFTER", "")

	p := LoadShiftPolicy()
	assert.Equal(t, 420, p.LateAfter["Shift 1"].Minutes())
	assert.Equal(t, 720, p.LateAfter["Shift 2"].Minutes())
	assert.Equal(t, 420, p.ResumeLateAfter.Minutes())
	assert.Equal(t, "Management", p.DefaultShift)
}

func TestLoadShiftPolicyOverrides(t *testing.T) {
	t.Setenv("SHIFT_1_LATE_AFTER", "08:15")
	t.Setenv("SHIFT_2_LATE_AFTER", "bukan-jam")
	t.Setenv("DEFAULT_SHIFT", "Office")

	p := LoadShiftPolicy()
	assert.Equal(t, 8*60+15, p.LateAfter["Shift 1"].Minutes())
	assert.Equal(t, 720, p.LateAfter["Shift 2"].Minutes(), "invalid value falls back to default")
	assert.Equal(t, "Office", p.DefaultShift)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ABSENSI_INT", "12")
	t.Setenv("ABSENSI_BOOL", "yes")

	assert.Equal(t, 12, GetEnvInt("ABSENSI_INT", 3))
	assert.Equal(t, 3, GetEnvInt("ABSENSI_MISSING_INT", 3))
	assert.True(t, GetEnvBool("ABSENSI_BOOL", false))
	assert.Equal(t, "fallback", GetEnv("ABSENSI_MISSING", "fallback"))
}
