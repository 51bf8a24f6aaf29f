package service

import (
	"log"

	"absensi_backend/internals/features/attendances/sessions/model"
)

// Phase: status hari kerja seorang user.
type Phase string

const (
	PhaseNoSession Phase = "no_session"
	PhaseOpen      Phase = "open"
	PhaseOnBreak   Phase = "on_break"
	PhaseClosed    Phase = "closed"
	PhasePermitted Phase = "permitted"
)

type Event string

const (
	EventClockIn    Event = "clock_in"
	EventBreakStart Event = "break_start"
	EventBreakEnd   Event = "break_end"
	EventClockOut   Event = "clock_out"
	EventPermit     Event = "permit"
	EventResume     Event = "resume"
)

type rule struct {
	to  Phase
	err *Error
}

func allow(to Phase) rule    { return rule{to: to} }
func reject(err *Error) rule { return rule{err: err} }

// Tabel transisi. Kombinasi yang tidak ada di sini dianggap ErrInvalidTransition.
var transitions = map[Phase]map[Event]rule{
	PhaseNoSession: {
		EventClockIn:    allow(PhaseOpen),
		EventBreakStart: reject(ErrNoActiveSession),
		EventBreakEnd:   reject(ErrNoActiveSession),
		EventClockOut:   reject(ErrNoActiveSession),
		EventPermit:     allow(PhasePermitted),
		EventResume:     reject(ErrNoAttendanceToday),
	},
	PhaseOpen: {
		EventClockIn:    reject(ErrSessionConflict),
		EventBreakStart: allow(PhaseOnBreak),
		EventBreakEnd:   reject(withMessage(ErrInvalidTransition, "Istirahat belum dimulai")),
		EventClockOut:   allow(PhaseClosed),
		EventPermit:     allow(PhasePermitted),
		EventResume:     reject(ErrSessionConflict),
	},
	PhaseOnBreak: {
		EventClockIn:    reject(ErrSessionConflict),
		EventBreakStart: reject(withMessage(ErrInvalidTransition, "Sedang istirahat")),
		EventBreakEnd:   allow(PhaseOpen),
		EventClockOut:   allow(PhaseClosed),
		EventPermit:     allow(PhasePermitted),
		EventResume:     reject(ErrSessionConflict),
	},
	PhaseClosed: {
		EventClockIn:    allow(PhaseOpen),
		EventBreakStart: reject(ErrNoActiveSession),
		EventBreakEnd:   reject(ErrNoActiveSession),
		EventClockOut:   reject(ErrNoActiveSession),
		EventPermit:     allow(PhasePermitted),
		EventResume:     allow(PhaseOpen),
	},
	PhasePermitted: {
		EventClockIn:    allow(PhaseOpen),
		EventBreakStart: reject(ErrNoActiveSession),
		EventBreakEnd:   reject(ErrNoActiveSession),
		EventClockOut:   reject(ErrNoActiveSession),
		EventPermit:     allow(PhasePermitted),
		EventResume:     allow(PhaseOpen),
	},
}

// Transition: fungsi murni (phase, event) → phase berikutnya atau error bisnis.
func Transition(from Phase, ev Event) (Phase, error) {
	r, ok := transitions[from][ev]
	if !ok {
		return from, ErrInvalidTransition
	}
	if r.err != nil {
		return from, r.err
	}
	return r.to, nil
}

// DerivePhase menghitung phase dari daftar sesi satu tanggal kerja (urut session_number).
func DerivePhase(sessions []model.AttendanceSessionModel) Phase {
	if len(sessions) == 0 {
		return PhaseNoSession
	}
	if active := ActiveSession(sessions); active != nil {
		if active.IsOnBreak() {
			return PhaseOnBreak
		}
		return PhaseOpen
	}
	if sessions[len(sessions)-1].AttendanceSessionStatus.IsPermit() {
		return PhasePermitted
	}
	return PhaseClosed
}

// ActiveSession: sesi pertama yang belum check-out, atau nil.
// Lebih dari satu sesi open = anomali data; tetap kembalikan yang pertama.
func ActiveSession(sessions []model.AttendanceSessionModel) *model.AttendanceSessionModel {
	var active *model.AttendanceSessionModel
	open := 0
	for i := range sessions {
		if !sessions[i].IsOpen() {
			continue
		}
		open++
		if active == nil {
			active = &sessions[i]
		}
	}
	if open > 1 {
		log.Printf("[WARN] anomali absensi: %d sesi open untuk user=%s tanggal=%s",
			open, active.AttendanceSessionUserID, active.AttendanceSessionBusinessDate)
	}
	return active
}
