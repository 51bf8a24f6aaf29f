package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/helpers/dbtime"
)

/* =========================
   Requests (JSON atau multipart)
========================= */

type ClockInRequest struct {
	Shift    string `json:"shift" form:"shift" validate:"omitempty,max=50"`
	Location string `json:"location" form:"location" validate:"omitempty,max=255"`
}

// EvidenceRequest: body untuk clock-out / break-start / break-end / resume.
type EvidenceRequest struct {
	Location string `json:"location" form:"location" validate:"omitempty,max=255"`
}

type PermitRequest struct {
	Type     string `json:"type" form:"type" validate:"required,oneof=sick permission sakit izin ijin"`
	Notes    string `json:"notes" form:"notes" validate:"omitempty,max=500"`
	Location string `json:"location" form:"location" validate:"omitempty,max=255"`
}

func (r *PermitRequest) Normalize() {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Notes = strings.TrimSpace(r.Notes)
}

// RangeQuery: ?from=YYYY-MM-DD&to=YYYY-MM-DD (default: 30 hari terakhir s/d hari ini).
type RangeQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

func (q *RangeQuery) ApplyDefaults(now time.Time) {
	today := dbtime.ResolveBusinessDate(now)
	if q.To == "" {
		q.To = today
	}
	if q.From == "" {
		if t, err := dbtime.ParseDate(q.To); err == nil {
			q.From = t.AddDate(0, 0, -29).Format(dbtime.DateLayout)
		}
	}
}

type AdminSessionQuery struct {
	RangeQuery
	UserID string `query:"user_id" validate:"omitempty,uuid"`
	Status string `query:"status" validate:"omitempty,oneof=present late sick permission absent"`
}

// MonthQuery: ?month=YYYY-MM (default bulan berjalan).
type MonthQuery struct {
	Month  string `query:"month" validate:"omitempty,datetime=2006-01"`
	UserID string `query:"user_id" validate:"omitempty,uuid"`
}

// Range: tanggal pertama & terakhir bulan.
func (q *MonthQuery) Range(now time.Time) (string, string, error) {
	month := strings.TrimSpace(q.Month)
	if month == "" {
		month = dbtime.ResolveBusinessDate(now)[:7]
	}
	start, err := time.ParseInLocation("2006-01", month, dbtime.JakartaLocation())
	if err != nil {
		return "", "", err
	}
	end := start.AddDate(0, 1, -1)
	q.Month = month
	return start.Format(dbtime.DateLayout), end.Format(dbtime.DateLayout), nil
}

/* =========================
   Responses
========================= */

type SessionResponse struct {
	ID           uuid.UUID              `json:"attendance_session_id"`
	UserID       uuid.UUID              `json:"user_id"`
	UserName     string                 `json:"user_full_name,omitempty"`
	BusinessDate string                 `json:"business_date"`
	Number       int                    `json:"session_number"`
	Shift        string                 `json:"shift"`
	Status       model.AttendanceStatus `json:"status"`
	Notes        string                 `json:"notes"`
	CheckIn      *time.Time             `json:"check_in,omitempty"`
	CheckOut     *time.Time             `json:"check_out,omitempty"`
	BreakStart   *time.Time             `json:"break_start,omitempty"`
	BreakEnd     *time.Time             `json:"break_end,omitempty"`
	PermitExitAt *time.Time             `json:"permit_exit_at,omitempty"`
	AutoClosed   bool                   `json:"auto_closed"`

	CheckInPhotoURL    *string `json:"check_in_photo_url,omitempty"`
	CheckInLocation    *string `json:"check_in_location,omitempty"`
	CheckOutPhotoURL   *string `json:"check_out_photo_url,omitempty"`
	CheckOutLocation   *string `json:"check_out_location,omitempty"`
	BreakStartPhotoURL *string `json:"break_start_photo_url,omitempty"`
	BreakEndPhotoURL   *string `json:"break_end_photo_url,omitempty"`
}

// FromModel: waktu dikonversi ke jam Jakarta supaya klien tidak perlu konversi.
func FromModel(m *model.AttendanceSessionModel) SessionResponse {
	return SessionResponse{
		ID:                 m.AttendanceSessionID,
		UserID:             m.AttendanceSessionUserID,
		BusinessDate:       m.AttendanceSessionBusinessDate,
		Number:             m.AttendanceSessionNumber,
		Shift:              m.AttendanceSessionShift,
		Status:             m.AttendanceSessionStatus,
		Notes:              m.AttendanceSessionNotes,
		CheckIn:            dbtime.ToJakartaTimePtr(m.AttendanceSessionCheckIn),
		CheckOut:           dbtime.ToJakartaTimePtr(m.AttendanceSessionCheckOut),
		BreakStart:         dbtime.ToJakartaTimePtr(m.AttendanceSessionBreakStart),
		BreakEnd:           dbtime.ToJakartaTimePtr(m.AttendanceSessionBreakEnd),
		PermitExitAt:       dbtime.ToJakartaTimePtr(m.AttendanceSessionPermitExitAt),
		AutoClosed:         m.AttendanceSessionAutoClosed,
		CheckInPhotoURL:    m.AttendanceSessionCheckInPhotoURL,
		CheckInLocation:    m.AttendanceSessionCheckInLocation,
		CheckOutPhotoURL:   m.AttendanceSessionCheckOutPhotoURL,
		CheckOutLocation:   m.AttendanceSessionCheckOutLocation,
		BreakStartPhotoURL: m.AttendanceSessionBreakStartPhotoURL,
		BreakEndPhotoURL:   m.AttendanceSessionBreakEndPhotoURL,
	}
}

func FromModels(rows []model.AttendanceSessionModel) []SessionResponse {
	out := make([]SessionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type EmployeeRecapResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	DaysPresent    int       `json:"days_present"`
	SessionCount   int       `json:"session_count"`
	LateCount      int       `json:"late_count"`
	SickCount      int       `json:"sick_count"`
	PermitCount    int       `json:"permission_count"`
	AutoClosed     int       `json:"auto_closed_count"`
	TotalWorkMins  int       `json:"total_work_mins"`
	TotalBreakMins int       `json:"total_break_mins"`
	NetWorkMins    int       `json:"net_work_mins"`
}
