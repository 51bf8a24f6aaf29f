package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"absensi_backend/internals/features/attendances/sessions/dto"
	"absensi_backend/internals/features/attendances/sessions/model"
)

func TestWriteRecapWorkbook(t *testing.T) {
	in := time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC) // 07:05 WIB
	out := in.Add(8 * time.Hour)

	recaps := []dto.EmployeeRecapResponse{{
		UserID: uuid.New(), FullName: "Budi Santoso", Email: "budi@kantor.id",
		DaysPresent: 1, SessionCount: 1, LateCount: 1, TotalWorkMins: 480, NetWorkMins: 450, TotalBreakMins: 30,
	}}
	sessions := []dto.SessionResponse{{
		BusinessDate: "2025-03-10", UserName: "Budi Santoso", Number: 1, Shift: "Shift 1",
		Status: model.AttendanceStatusLate, CheckIn: &in, CheckOut: &out,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteRecapWorkbook(&buf, "2025-03", recaps, sessions))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetRecap, sheetSessions}, f.GetSheetList())

	title, err := f.GetCellValue(sheetRecap, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Rekap Absensi 2025-03", title)

	name, _ := f.GetCellValue(sheetRecap, "B4")
	assert.Equal(t, "Budi Santoso", name)
	net, _ := f.GetCellValue(sheetRecap, "L4")
	assert.Equal(t, "450", net)
	hours, _ := f.GetCellValue(sheetRecap, "M4")
	assert.Equal(t, "7.5", hours)

	checkIn, _ := f.GetCellValue(sheetSessions, "F2")
	assert.Equal(t, "2025-03-10 07:05", checkIn)
	breakStart, _ := f.GetCellValue(sheetSessions, "G2")
	assert.Empty(t, breakStart)
}
