package service

import (
	"errors"
	"net/http"
)

// ErrorKind: jenis error aturan bisnis absensi (bukan error infrastruktur).
type ErrorKind string

const (
	KindSessionConflict      ErrorKind = "SESSION_CONFLICT"
	KindSessionLimitExceeded ErrorKind = "SESSION_LIMIT_EXCEEDED"
	KindNoActiveSession      ErrorKind = "NO_ACTIVE_SESSION"
	KindNoAttendanceToday    ErrorKind = "NO_ATTENDANCE_TODAY"
	KindInvalidTransition    ErrorKind = "INVALID_TRANSITION"
	KindInvalidInput         ErrorKind = "INVALID_INPUT"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus & Code dipakai helper.JsonFromError.
func (e *Error) HTTPStatus() int { return HTTPStatus(e) }
func (e *Error) Code() string    { return string(e.Kind) }

// Is: dua *Error dianggap sama kalau Kind-nya sama (pesan boleh beda).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrSessionConflict      = &Error{Kind: KindSessionConflict, Message: "Masih ada sesi absensi yang aktif hari ini"}
	ErrSessionLimitExceeded = &Error{Kind: KindSessionLimitExceeded, Message: "Batas maksimal 5 sesi per hari sudah tercapai"}
	ErrNoActiveSession      = &Error{Kind: KindNoActiveSession, Message: "Tidak ada sesi absensi yang aktif"}
	ErrNoAttendanceToday    = &Error{Kind: KindNoAttendanceToday, Message: "Belum ada absensi hari ini"}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition, Message: "Aksi tidak valid untuk status sesi saat ini"}
	ErrInvalidInput         = &Error{Kind: KindInvalidInput, Message: "Input tidak valid"}
)

// withMessage: salin error dasar dengan pesan yang lebih spesifik.
func withMessage(base *Error, msg string) *Error {
	return &Error{Kind: base.Kind, Message: msg}
}

// HTTPStatus memetakan error ke status HTTP. Error non-bisnis → 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindSessionConflict, KindNoActiveSession, KindNoAttendanceToday, KindInvalidTransition:
		return http.StatusConflict
	case KindSessionLimitExceeded:
		return http.StatusUnprocessableEntity
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsBusinessError: true kalau err adalah penolakan aturan bisnis (aman ditampilkan ke user).
func IsBusinessError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
