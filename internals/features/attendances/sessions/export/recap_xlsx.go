package export

import (
	"io"
	"log"
	"time"

	"github.com/xuri/excelize/v2"

	"absensi_backend/internals/features/attendances/sessions/dto"
	"absensi_backend/internals/helpers/dbtime"
)

const (
	sheetRecap    = "Rekap"
	sheetSessions = "Detail Sesi"
)

var recapHeader = []any{
	"No", "Nama", "Email", "Hari Hadir", "Jumlah Sesi", "Telat", "Sakit", "Izin",
	"Auto-close", "Total Kerja (menit)", "Total Istirahat (menit)", "Kerja Bersih (menit)", "Kerja Bersih (jam)",
}

var sessionHeader = []any{
	"Tanggal", "Nama", "Sesi", "Shift", "Status", "Masuk", "Istirahat Mulai", "Istirahat Selesai", "Keluar", "Catatan",
}

// WriteRecapWorkbook menulis rekap bulanan (sheet Rekap + Detail Sesi) ke w.
func WriteRecapWorkbook(w io.Writer, period string, recaps []dto.EmployeeRecapResponse, sessions []dto.SessionResponse) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Println("⚠️ close workbook:", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetRecap); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetSessions); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return err
	}

	// --- Rekap ---
	if err := f.SetCellValue(sheetRecap, "A1", "Rekap Absensi "+period); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetRecap, "A3", &recapHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetRecap, "A3", "M3", bold); err != nil {
		return err
	}
	for i, r := range recaps {
		row := []any{
			i + 1, r.FullName, r.Email, r.DaysPresent, r.SessionCount, r.LateCount, r.SickCount, r.PermitCount,
			r.AutoClosed, r.TotalWorkMins, r.TotalBreakMins, r.NetWorkMins, float64(r.NetWorkMins) / 60,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+4)
		if err := f.SetSheetRow(sheetRecap, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheetRecap, "B", "C", 28)
	_ = f.SetColWidth(sheetRecap, "D", "M", 14)

	// --- Detail Sesi ---
	if err := f.SetSheetRow(sheetSessions, "A1", &sessionHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSessions, "A1", "J1", bold); err != nil {
		return err
	}
	for i, s := range sessions {
		row := []any{
			s.BusinessDate, s.UserName, s.Number, s.Shift, string(s.Status),
			clock(s.CheckIn), clock(s.BreakStart), clock(s.BreakEnd), clock(s.CheckOut), s.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetSessions, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheetSessions, "A", "B", 24)
	_ = f.SetColWidth(sheetSessions, "F", "I", 18)
	_ = f.SetColWidth(sheetSessions, "J", "J", 40)

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

// clock: "2006-01-02 15:04" jam Jakarta, kosong kalau nil.
func clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return dbtime.ToJakartaTime(*t).Format("2006-01-02 15:04")
}
