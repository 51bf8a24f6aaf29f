package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/features/attendances/sessions/service"
)

// MemoryStore: implementasi service.Store di memori (test & CLI dry-run).
// Index unik yang ada di Postgres ditiru di Create/Update.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]model.AttendanceSessionModel

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:  map[uuid.UUID]model.AttendanceSessionModel{},
		locks: map[string]*sync.Mutex{},
	}
}

func (s *MemoryStore) lockFor(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	return m
}

// Transact: mutex per user+tanggal. Kalau fn gagal, sesi user+tanggal dikembalikan ke snapshot.
func (s *MemoryStore) Transact(ctx context.Context, userID uuid.UUID, businessDate string, fn func(tx service.Store) error) error {
	l := s.lockFor(lockKey(userID, businessDate))
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.snapshot(userID, businessDate)
	if err := fn(s); err != nil {
		s.restore(userID, businessDate, snapshot)
		return err
	}
	return nil
}

func (s *MemoryStore) snapshot(userID uuid.UUID, date string) map[uuid.UUID]model.AttendanceSessionModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[uuid.UUID]model.AttendanceSessionModel{}
	for id, r := range s.rows {
		if r.AttendanceSessionUserID == userID && r.AttendanceSessionBusinessDate == date {
			out[id] = r
		}
	}
	return out
}

func (s *MemoryStore) restore(userID uuid.UUID, date string, snap map[uuid.UUID]model.AttendanceSessionModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.rows {
		if r.AttendanceSessionUserID == userID && r.AttendanceSessionBusinessDate == date {
			delete(s.rows, id)
		}
	}
	for id, r := range snap {
		s.rows[id] = r
	}
}

func (s *MemoryStore) ListByUserAndDate(_ context.Context, userID uuid.UUID, businessDate string) ([]model.AttendanceSessionModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.AttendanceSessionModel
	for _, r := range s.rows {
		if r.AttendanceSessionUserID == userID && r.AttendanceSessionBusinessDate == businessDate {
			out = append(out, r)
		}
	}
	sortSessions(out)
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, row *model.AttendanceSessionModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row.AttendanceSessionID == uuid.Nil {
		row.AttendanceSessionID = uuid.New()
	}
	if err := s.checkUnique(row); err != nil {
		return err
	}
	now := time.Now()
	row.AttendanceSessionCreatedAt = now
	row.AttendanceSessionUpdatedAt = now
	s.rows[row.AttendanceSessionID] = *row
	return nil
}

func (s *MemoryStore) Update(_ context.Context, row *model.AttendanceSessionModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[row.AttendanceSessionID]; !ok {
		return ErrSessionNotFound
	}
	if err := s.checkUnique(row); err != nil {
		return err
	}
	row.AttendanceSessionUpdatedAt = time.Now()
	s.rows[row.AttendanceSessionID] = *row
	return nil
}

// checkUnique meniru uq_attendance_sessions_open & uq_attendance_sessions_number.
func (s *MemoryStore) checkUnique(row *model.AttendanceSessionModel) error {
	for id, r := range s.rows {
		if id == row.AttendanceSessionID ||
			r.AttendanceSessionUserID != row.AttendanceSessionUserID ||
			r.AttendanceSessionBusinessDate != row.AttendanceSessionBusinessDate {
			continue
		}
		if r.AttendanceSessionNumber == row.AttendanceSessionNumber {
			return service.ErrSessionConflict
		}
		if r.IsOpen() && row.IsOpen() {
			return service.ErrSessionConflict
		}
	}
	return nil
}

func (s *MemoryStore) ListOpenBefore(_ context.Context, businessDate string, limit int) ([]model.AttendanceSessionModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.AttendanceSessionModel
	for _, r := range s.rows {
		if r.IsOpen() && r.AttendanceSessionBusinessDate < businessDate {
			out = append(out, r)
		}
	}
	sortSessions(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListRange(_ context.Context, f service.RangeFilter) ([]model.AttendanceSessionModel, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.AttendanceSessionModel
	for _, r := range s.rows {
		if f.From != "" && r.AttendanceSessionBusinessDate < f.From {
			continue
		}
		if f.To != "" && r.AttendanceSessionBusinessDate > f.To {
			continue
		}
		if len(f.UserIDs) > 0 && !slices.Contains(f.UserIDs, r.AttendanceSessionUserID) {
			continue
		}
		if f.Status != "" && string(r.AttendanceSessionStatus) != f.Status {
			continue
		}
		out = append(out, r)
	}
	sortSessions(out)
	total := int64(len(out))
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []model.AttendanceSessionModel{}, total, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

// sortSessions: tanggal, user, lalu nomor sesi (sama dengan ORDER BY di GormStore).
func sortSessions(rows []model.AttendanceSessionModel) {
	slices.SortFunc(rows, func(a, b model.AttendanceSessionModel) int {
		if a.AttendanceSessionBusinessDate != b.AttendanceSessionBusinessDate {
			if a.AttendanceSessionBusinessDate < b.AttendanceSessionBusinessDate {
				return -1
			}
			return 1
		}
		if c := slices.Compare(a.AttendanceSessionUserID[:], b.AttendanceSessionUserID[:]); c != 0 {
			return c
		}
		return a.AttendanceSessionNumber - b.AttendanceSessionNumber
	})
}

var _ service.Store = (*MemoryStore)(nil)
