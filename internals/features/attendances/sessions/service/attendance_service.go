package service

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"absensi_backend/internals/configs"
	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/helpers/dbtime"
)

type AttendanceService struct {
	store    Store
	evidence EvidenceStore
	lateness LatenessPolicy
	now      func() time.Time
}

type Option func(*AttendanceService)

// WithClock mengganti sumber waktu (dipakai di test).
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceService) { s.now = now }
}

// NewAttendanceService: evidence boleh nil (foto diabaikan).
func NewAttendanceService(store Store, evidence EvidenceStore, policy configs.ShiftPolicy, opts ...Option) *AttendanceService {
	s := &AttendanceService{
		store:    store,
		evidence: evidence,
		lateness: NewLatenessPolicy(policy),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now: waktu saat ini menurut clock service.
func (s *AttendanceService) Now() time.Time { return s.now() }

/* =========================
   View types
========================= */

type DayView struct {
	BusinessDate string                         `json:"business_date"`
	Phase        Phase                          `json:"phase"`
	Sessions     []model.AttendanceSessionModel `json:"sessions"`
	Summary      Summary                        `json:"summary"`
}

type DaySummary struct {
	BusinessDate string                 `json:"business_date"`
	SessionCount int                    `json:"session_count"`
	FirstCheckIn *time.Time             `json:"first_check_in,omitempty"`
	LastCheckOut *time.Time             `json:"last_check_out,omitempty"`
	Status       model.AttendanceStatus `json:"status"`
	Summary
}

/* =========================
   Core: setiap mutasi lewat sini
========================= */

type dayState struct {
	now      time.Time
	date     string
	sessions []model.AttendanceSessionModel
	phase    Phase
	uploads  []string
}

func (d *dayState) active() *model.AttendanceSessionModel { return ActiveSession(d.sessions) }

func (d *dayState) nextNumber() (int, error) {
	if len(d.sessions) >= model.MaxSessionsPerDay {
		return 0, ErrSessionLimitExceeded
	}
	return len(d.sessions) + 1, nil
}

// mutate: ambil lock user+tanggal, hitung phase, validasi event, lalu jalankan fn.
func (s *AttendanceService) mutate(
	ctx context.Context,
	userID uuid.UUID,
	ev Event,
	fn func(tx Store, day *dayState) (*model.AttendanceSessionModel, error),
) (*model.AttendanceSessionModel, error) {
	if userID == uuid.Nil {
		return nil, withMessage(ErrInvalidInput, "User tidak valid")
	}
	now := s.now()
	date := dbtime.ResolveBusinessDate(now)

	var out *model.AttendanceSessionModel
	day := &dayState{now: now, date: date}
	err := s.store.Transact(ctx, userID, date, func(tx Store) error {
		sessions, err := tx.ListByUserAndDate(ctx, userID, date)
		if err != nil {
			return fmt.Errorf("load sesi: %w", err)
		}
		day.sessions, day.phase = sessions, DerivePhase(sessions)
		if _, err := Transition(day.phase, ev); err != nil {
			return err
		}
		out, err = fn(tx, day)
		return err
	})
	if err != nil {
		s.discardUploads(userID, day.uploads)
		return nil, err
	}
	return out, nil
}

// discardUploads: foto yang sudah ter-upload tapi sesinya gagal disimpan dihapus lagi (best effort).
func (s *AttendanceService) discardUploads(userID uuid.UUID, refs []string) {
	d, ok := s.evidence.(EvidenceDiscarder)
	if !ok || len(refs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ref := range refs {
		if err := d.Discard(ctx, ref); err != nil {
			log.Printf("[EVIDENCE] gagal hapus foto yatim user=%s ref=%s: %v", userID, ref, err)
		}
	}
}

// capture menyimpan foto (kalau ada) dan mengembalikan pointer URL + lokasi.
func (s *AttendanceService) capture(ctx context.Context, day *dayState, userID uuid.UUID, ev Event, e Evidence) (photo *string, location *string, err error) {
	if loc := strings.TrimSpace(e.Location); loc != "" {
		location = &loc
	}
	if !e.HasPhoto() || s.evidence == nil {
		return nil, location, nil
	}
	ref, err := s.evidence.Save(ctx, userID, string(ev), e.Photo, e.PhotoName)
	if err != nil {
		return nil, nil, fmt.Errorf("simpan foto %s: %w", ev, err)
	}
	if ref == "" {
		return nil, location, nil
	}
	day.uploads = append(day.uploads, ref)
	return &ref, location, nil
}

/* =========================
   Operations
========================= */

func (s *AttendanceService) ClockIn(ctx context.Context, userID uuid.UUID, shift string, e Evidence) (*model.AttendanceSessionModel, error) {
	return s.mutate(ctx, userID, EventClockIn, func(tx Store, day *dayState) (*model.AttendanceSessionModel, error) {
		number, err := day.nextNumber()
		if err != nil {
			return nil, err
		}
		photo, loc, err := s.capture(ctx, day, userID, EventClockIn, e)
		if err != nil {
			return nil, err
		}
		shift = s.lateness.NormalizeShift(shift)
		now := day.now
		row := &model.AttendanceSessionModel{
			AttendanceSessionUserID:          userID,
			AttendanceSessionBusinessDate:    day.date,
			AttendanceSessionNumber:          number,
			AttendanceSessionShift:           shift,
			AttendanceSessionStatus:          s.lateness.ClockInStatus(shift, now),
			AttendanceSessionCheckIn:         &now,
			AttendanceSessionCheckInPhotoURL: photo,
			AttendanceSessionCheckInLocation: loc,
		}
		if err := tx.Create(ctx, row); err != nil {
			return nil, fmt.Errorf("clock-in: %w", err)
		}
		return row, nil
	})
}

func (s *AttendanceService) ClockOut(ctx context.Context, userID uuid.UUID, e Evidence) (*model.AttendanceSessionModel, error) {
	return s.mutate(ctx, userID, EventClockOut, func(tx Store, day *dayState) (*model.AttendanceSessionModel, error) {
		row := day.active()
		photo, loc, err := s.capture(ctx, day, userID, EventClockOut, e)
		if err != nil {
			return nil, err
		}
		now := day.now
		row.AttendanceSessionCheckOut = &now
		row.AttendanceSessionCheckOutPhotoURL = photo
		row.AttendanceSessionCheckOutLocation = loc
		if err := tx.Update(ctx, row); err != nil {
			return nil, fmt.Errorf("clock-out: %w", err)
		}
		return row, nil
	})
}

func (s *AttendanceService) BreakStart(ctx context.Context, userID uuid.UUID, e Evidence) (*model.AttendanceSessionModel, error) {
	return s.mutate(ctx, userID, EventBreakStart, func(tx Store, day *dayState) (*model.AttendanceSessionModel, error) {
		row := day.active()
		// satu sesi hanya punya satu slot istirahat
		if row.AttendanceSessionBreakStart != nil {
			return nil, withMessage(ErrInvalidTransition, "Istirahat sudah dipakai pada sesi ini")
		}
		photo, loc, err := s.capture(ctx, day, userID, EventBreakStart, e)
		if err != nil {
			return nil, err
		}
		now := day.now
		row.AttendanceSessionBreakStart = &now
		row.AttendanceSessionBreakStartPhotoURL = photo
		row.AttendanceSessionBreakStartLocation = loc
		if err := tx.Update(ctx, row); err != nil {
			return nil, fmt.Errorf("break-start: %w", err)
		}
		return row, nil
	})
}

func (s *AttendanceService) BreakEnd(ctx context.Context, userID uuid.UUID, e Evidence) (*model.AttendanceSessionModel, error) {
	return s.mutate(ctx, userID, EventBreakEnd, func(tx Store, day *dayState) (*model.AttendanceSessionModel, error) {
		row := day.active()
		photo, loc, err := s.capture(ctx, day, userID, EventBreakEnd, e)
		if err != nil {
			return nil, err
		}
		now := day.now
		row.AttendanceSessionBreakEnd = &now
		row.AttendanceSessionBreakEndPhotoURL = photo
		row.AttendanceSessionBreakEndLocation = loc
		if err := tx.Update(ctx, row); err != nil {
			return nil, fmt.Errorf("break-end: %w", err)
		}
		return row, nil
	})
}

// Permit: izin/sakit. Kalau ada sesi open → ditutup; kalau tidak → buat sesi izin yang langsung closed.
func (s *AttendanceService) Permit(ctx context.Context, userID uuid.UUID, permitType string, notes string, e Evidence) (*model.AttendanceSessionModel, error) {
	status, ok := model.ParsePermitType(permitType)
	if !ok {
		return nil, withMessage(ErrInvalidInput, "Jenis izin harus 'sick' atau 'permission'")
	}
	return s.mutate(ctx, userID, EventPermit, func(tx Store, day *dayState) (*model.AttendanceSessionModel, error) {
		now := day.now
		if row := day.active(); row != nil {
			photo, loc, err := s.capture(ctx, day, userID, EventPermit, e)
			if err != nil {
				return nil, err
			}
			row.AttendanceSessionCheckOut = &now
			row.AttendanceSessionPermitExitAt = &now
			row.AttendanceSessionStatus = status
			row.AttendanceSessionCheckOutPhotoURL = photo
			row.AttendanceSessionCheckOutLocation = loc
			row.AppendNote(notes)
			if err := tx.Update(ctx, row); err != nil {
				return nil, fmt.Errorf("permit: %w", err)
			}
			return row, nil
		}

		number, err := day.nextNumber()
		if err != nil {
			return nil, err
		}
		photo, loc, err := s.capture(ctx, day, userID, EventPermit, e)
		if err != nil {
			return nil, err
		}
		shift := s.lateness.NormalizeShift("")
		if n := len(day.sessions); n > 0 {
			shift = day.sessions[n-1].AttendanceSessionShift
		}
		row := &model.AttendanceSessionModel{
			AttendanceSessionUserID:          userID,
			AttendanceSessionBusinessDate:    day.date,
			AttendanceSessionNumber:          number,
			AttendanceSessionShift:           shift,
			AttendanceSessionStatus:          status,
			AttendanceSessionNotes:           strings.TrimSpace(notes),
			AttendanceSessionCheckIn:         &now,
			AttendanceSessionCheckOut:        &now,
			AttendanceSessionCheckInPhotoURL: photo,
			AttendanceSessionCheckInLocation: loc,
		}
		if err := tx.Create(ctx, row); err != nil {
			return nil, fmt.Errorf("permit: %w", err)
		}
		return row, nil
	})
}

// Resume: lanjut kerja setelah izin/clock-out. Butuh minimal satu sesi hari ini.
func (s *AttendanceService) Resume(ctx context.Context, userID uuid.UUID, e Evidence) (*model.AttendanceSessionModel, error) {
	return s.mutate(ctx, userID, EventResume, func(tx Store, day *dayState) (*model.AttendanceSessionModel, error) {
		number, err := day.nextNumber()
		if err != nil {
			return nil, err
		}
		photo, loc, err := s.capture(ctx, day, userID, EventResume, e)
		if err != nil {
			return nil, err
		}
		now := day.now
		last := day.sessions[len(day.sessions)-1]
		row := &model.AttendanceSessionModel{
			AttendanceSessionUserID:          userID,
			AttendanceSessionBusinessDate:    day.date,
			AttendanceSessionNumber:          number,
			AttendanceSessionShift:           s.lateness.NormalizeShift(last.AttendanceSessionShift),
			AttendanceSessionStatus:          s.lateness.ResumeStatus(now),
			AttendanceSessionNotes:           fmt.Sprintf("session %d", number),
			AttendanceSessionCheckIn:         &now,
			AttendanceSessionCheckInPhotoURL: photo,
			AttendanceSessionCheckInLocation: loc,
		}
		if err := tx.Create(ctx, row); err != nil {
			return nil, fmt.Errorf("resume: %w", err)
		}
		return row, nil
	})
}

/* =========================
   Queries
========================= */

// SessionsForDay: semua sesi user pada tanggal kerja tertentu.
func (s *AttendanceService) SessionsForDay(ctx context.Context, userID uuid.UUID, businessDate string) ([]model.AttendanceSessionModel, error) {
	if _, err := dbtime.ParseDate(businessDate); err != nil {
		return nil, withMessage(ErrInvalidInput, "Format tanggal harus YYYY-MM-DD")
	}
	return s.store.ListByUserAndDate(ctx, userID, businessDate)
}

// Today: sesi hari ini + phase + ringkasan. Sekaligus auto-close sesi kemarin yang masih open.
func (s *AttendanceService) Today(ctx context.Context, userID uuid.UUID) (*DayView, error) {
	now := s.now()
	date := dbtime.ResolveBusinessDate(now)

	sessions, err := s.store.ListByUserAndDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("load sesi hari ini: %w", err)
	}
	if len(sessions) == 0 {
		if closed, err := s.autoClosePrevious(ctx, userID, now, date); err != nil {
			log.Printf("[WARN] auto-close user=%s gagal: %v", userID, err)
		} else if closed != nil {
			log.Printf("[INFO] auto-close sesi %s (%s) user=%s", closed.AttendanceSessionID, closed.AttendanceSessionBusinessDate, userID)
		}
	}

	if sessions == nil {
		sessions = []model.AttendanceSessionModel{}
	}
	return &DayView{
		BusinessDate: date,
		Phase:        DerivePhase(sessions),
		Sessions:     sessions,
		Summary:      Aggregate(sessions),
	}, nil
}

// History: ringkasan per hari untuk rentang tanggal (inklusif). Hari tanpa sesi dilewati.
func (s *AttendanceService) History(ctx context.Context, userID uuid.UUID, from, to string) ([]DaySummary, error) {
	if _, err := dbtime.DatesBetween(from, to); err != nil {
		return nil, withMessage(ErrInvalidInput, "Rentang tanggal tidak valid")
	}
	rows, _, err := s.store.ListRange(ctx, RangeFilter{UserIDs: []uuid.UUID{userID}, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("load riwayat: %w", err)
	}
	return SummarizeByDay(rows), nil
}

// SummarizeByDay mengelompokkan sesi (satu user) per tanggal kerja, urut tanggal naik.
func SummarizeByDay(rows []model.AttendanceSessionModel) []DaySummary {
	byDate := map[string][]model.AttendanceSessionModel{}
	var order []string
	for _, r := range rows {
		if _, seen := byDate[r.AttendanceSessionBusinessDate]; !seen {
			order = append(order, r.AttendanceSessionBusinessDate)
		}
		byDate[r.AttendanceSessionBusinessDate] = append(byDate[r.AttendanceSessionBusinessDate], r)
	}
	slices.Sort(order)

	out := make([]DaySummary, 0, len(order))
	for _, d := range order {
		day := byDate[d]
		slices.SortFunc(day, func(a, b model.AttendanceSessionModel) int {
			return a.AttendanceSessionNumber - b.AttendanceSessionNumber
		})
		sum := DaySummary{
			BusinessDate: d,
			SessionCount: len(day),
			Status:       day[0].AttendanceSessionStatus,
			Summary:      Aggregate(day),
		}
		for i := range day {
			if ci := day[i].AttendanceSessionCheckIn; ci != nil && (sum.FirstCheckIn == nil || ci.Before(*sum.FirstCheckIn)) {
				sum.FirstCheckIn = ci
			}
			if co := day[i].AttendanceSessionCheckOut; co != nil && (sum.LastCheckOut == nil || co.After(*sum.LastCheckOut)) {
				sum.LastCheckOut = co
			}
		}
		out = append(out, sum)
	}
	return out
}
