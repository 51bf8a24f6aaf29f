package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

/* =========================
   Enums (selaras dgn DB)
========================= */

type AttendanceStatus string

const (
	AttendanceStatusPresent    AttendanceStatus = "present"
	AttendanceStatusLate       AttendanceStatus = "late"
	AttendanceStatusSick       AttendanceStatus = "sick"
	AttendanceStatusPermission AttendanceStatus = "permission"
	AttendanceStatusAbsent     AttendanceStatus = "absent"
)

// IsPermit: sakit / izin
func (s AttendanceStatus) IsPermit() bool {
	return s == AttendanceStatusSick || s == AttendanceStatusPermission
}

// ParsePermitType menerima "sick"/"permission" (plus alias bahasa Indonesia).
func ParsePermitType(s string) (AttendanceStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sick", "sakit":
		return AttendanceStatusSick, true
	case "permission", "izin", "ijin":
		return AttendanceStatusPermission, true
	}
	return "", false
}

const (
	MaxSessionsPerDay = 5
	AutoCloseNote     = "(Auto-closed at 04:00)"
)

/* =========================================
   Model: attendance_sessions
   Satu baris = satu sesi kerja (maks 5 per user per tanggal kerja).
   Tidak pernah dihapus (audit trail).
========================================= */

type AttendanceSessionModel struct {
	AttendanceSessionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_session_id" json:"attendance_session_id"`

	// Open session unik per user+tanggal → uq_attendance_sessions_open (partial, check_out IS NULL)
	AttendanceSessionUserID       uuid.UUID `gorm:"type:uuid;not null;column:attendance_session_user_id;index:idx_attendance_sessions_user_date;uniqueIndex:uq_attendance_sessions_number;index:uq_attendance_sessions_open,unique,where:attendance_session_check_out IS NULL" json:"attendance_session_user_id"`
	AttendanceSessionBusinessDate string    `gorm:"type:varchar(10);not null;column:attendance_session_business_date;index:idx_attendance_sessions_user_date;uniqueIndex:uq_attendance_sessions_number;index:uq_attendance_sessions_open,unique,where:attendance_session_check_out IS NULL" json:"attendance_session_business_date"`
	AttendanceSessionNumber       int       `gorm:"not null;column:attendance_session_number;uniqueIndex:uq_attendance_sessions_number" json:"attendance_session_number"`

	AttendanceSessionShift  string           `gorm:"type:varchar(50);not null;default:'Management';column:attendance_session_shift" json:"attendance_session_shift"`
	AttendanceSessionStatus AttendanceStatus `gorm:"type:varchar(20);not null;default:'present';column:attendance_session_status" json:"attendance_session_status"`
	AttendanceSessionNotes  string           `gorm:"type:text;not null;default:'';column:attendance_session_notes" json:"attendance_session_notes"`

	// Timeline
	AttendanceSessionCheckIn        *time.Time `gorm:"type:timestamptz;column:attendance_session_check_in" json:"attendance_session_check_in,omitempty"`
	AttendanceSessionCheckOut       *time.Time `gorm:"type:timestamptz;column:attendance_session_check_out" json:"attendance_session_check_out,omitempty"`
	AttendanceSessionBreakStart     *time.Time `gorm:"type:timestamptz;column:attendance_session_break_start" json:"attendance_session_break_start,omitempty"`
	AttendanceSessionBreakEnd       *time.Time `gorm:"type:timestamptz;column:attendance_session_break_end" json:"attendance_session_break_end,omitempty"`
	AttendanceSessionPermitExitAt   *time.Time `gorm:"type:timestamptz;column:attendance_session_permit_exit_at" json:"attendance_session_permit_exit_at,omitempty"`
	AttendanceSessionPermitResumeAt *time.Time `gorm:"type:timestamptz;column:attendance_session_permit_resume_at" json:"attendance_session_permit_resume_at,omitempty"`
	AttendanceSessionAutoClosed     bool       `gorm:"not null;default:false;column:attendance_session_auto_closed" json:"attendance_session_auto_closed"`

	// Evidence (foto + lokasi) per event
	AttendanceSessionCheckInPhotoURL    *string `gorm:"type:text;column:attendance_session_check_in_photo_url" json:"attendance_session_check_in_photo_url,omitempty"`
	AttendanceSessionCheckInLocation    *string `gorm:"type:text;column:attendance_session_check_in_location" json:"attendance_session_check_in_location,omitempty"`
	AttendanceSessionCheckOutPhotoURL   *string `gorm:"type:text;column:attendance_session_check_out_photo_url" json:"attendance_session_check_out_photo_url,omitempty"`
	AttendanceSessionCheckOutLocation   *string `gorm:"type:text;column:attendance_session_check_out_location" json:"attendance_session_check_out_location,omitempty"`
	AttendanceSessionBreakStartPhotoURL *string `gorm:"type:text;column:attendance_session_break_start_photo_url" json:"attendance_session_break_start_photo_url,omitempty"`
	AttendanceSessionBreakStartLocation *string `gorm:"type:text;column:attendance_session_break_start_location" json:"attendance_session_break_start_location,omitempty"`
	AttendanceSessionBreakEndPhotoURL   *string `gorm:"type:text;column:attendance_session_break_end_photo_url" json:"attendance_session_break_end_photo_url,omitempty"`
	AttendanceSessionBreakEndLocation   *string `gorm:"type:text;column:attendance_session_break_end_location" json:"attendance_session_break_end_location,omitempty"`

	// Audit
	AttendanceSessionCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:attendance_session_created_at" json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:attendance_session_updated_at" json:"attendance_session_updated_at"`
}

func (AttendanceSessionModel) TableName() string { return "attendance_sessions" }

// IsOpen: belum check-out.
func (m *AttendanceSessionModel) IsOpen() bool {
	return m.AttendanceSessionCheckOut == nil
}

// IsOnBreak: sedang istirahat (break dimulai, belum selesai, sesi masih open).
func (m *AttendanceSessionModel) IsOnBreak() bool {
	return m.IsOpen() && m.AttendanceSessionBreakStart != nil && m.AttendanceSessionBreakEnd == nil
}

// AppendNote menambahkan catatan dengan spasi sebagai pemisah.
func (m *AttendanceSessionModel) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if strings.TrimSpace(m.AttendanceSessionNotes) == "" {
		m.AttendanceSessionNotes = note
		return
	}
	m.AttendanceSessionNotes = m.AttendanceSessionNotes + " " + note
}
