package service

import (
	"context"

	"github.com/google/uuid"

	"absensi_backend/internals/features/attendances/sessions/model"
)

// Store: persistensi sesi absensi. Implementasi: repository.GormStore & repository.MemoryStore.
type Store interface {
	// ListByUserAndDate mengembalikan sesi satu tanggal kerja, urut session_number naik.
	ListByUserAndDate(ctx context.Context, userID uuid.UUID, businessDate string) ([]model.AttendanceSessionModel, error)
	Create(ctx context.Context, s *model.AttendanceSessionModel) error
	Update(ctx context.Context, s *model.AttendanceSessionModel) error

	// ListOpenBefore: sesi yang masih open dengan tanggal kerja < businessDate (untuk sweep).
	ListOpenBefore(ctx context.Context, businessDate string, limit int) ([]model.AttendanceSessionModel, error)
	// ListRange: sesi dalam rentang tanggal (inklusif) untuk admin & rekap.
	ListRange(ctx context.Context, f RangeFilter) ([]model.AttendanceSessionModel, int64, error)

	// Transact menjalankan fn secara eksklusif untuk pasangan user+tanggal.
	// Error dari fn diteruskan apa adanya; perubahan dibatalkan kalau fn gagal.
	Transact(ctx context.Context, userID uuid.UUID, businessDate string, fn func(tx Store) error) error
}

type RangeFilter struct {
	UserIDs []uuid.UUID
	From    string // YYYY-MM-DD, inklusif
	To      string // YYYY-MM-DD, inklusif
	Status  string
	Limit   int // 0 = semua
	Offset  int
}

// Evidence: bukti opsional (foto + lokasi) yang menempel ke sebuah event.
type Evidence struct {
	Photo     []byte
	PhotoName string
	Location  string
}

func (e Evidence) HasPhoto() bool { return len(e.Photo) > 0 }

// EvidenceStore menyimpan foto dan mengembalikan referensi (URL) yang disimpan di sesi.
type EvidenceStore interface {
	Save(ctx context.Context, userID uuid.UUID, event string, photo []byte, filename string) (string, error)
}

// EvidenceDiscarder: opsional. Dipakai untuk menghapus foto kalau transaksi sesi gagal.
type EvidenceDiscarder interface {
	Discard(ctx context.Context, ref string) error
}
