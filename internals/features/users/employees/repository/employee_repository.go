package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"absensi_backend/internals/constants"
	"absensi_backend/internals/features/users/employees/model"
)

type ListFilter struct {
	Q        string
	IsActive *bool
	Role     string
	Limit    int
	Offset   int
}

// List: pencarian nama / email / user_name (ILIKE), terbaru dulu.
func List(ctx context.Context, db *gorm.DB, f ListFilter) ([]model.UserModel, int64, error) {
	q := db.WithContext(ctx).Model(&model.UserModel{})
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + s + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ? OR user_name ILIKE ?", like, like, like)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.UserModel
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Info: data ringkas karyawan untuk laporan absensi.
type Info struct {
	FullName     string
	Email        string
	DefaultShift string
}

// Directory memetakan user id → Info. Dipakai controller absensi.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory { return &Directory{db: db} }

// Lookup ikut mengembalikan user yang sudah soft-delete, supaya rekap lama tetap bernama.
func (d *Directory) Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Info, error) {
	out := make(map[uuid.UUID]Info, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	var rows []model.UserModel
	if err := d.db.WithContext(ctx).Unscoped().
		Select("id", "full_name", "email", "default_shift").
		Where("id = ANY(?::uuid[])", pq.Array(strs)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = Info{FullName: r.FullName, Email: r.Email, DefaultShift: r.DefaultShift}
	}
	return out, nil
}

// ActiveIDs: semua karyawan aktif (untuk rekap yang juga menampilkan yang belum pernah hadir).
func (d *Directory) ActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("is_active = ? AND role = ?", true, constants.RoleEmployee).
		Order("full_name ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// IsUniqueViolation: email / user_name sudah dipakai.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
