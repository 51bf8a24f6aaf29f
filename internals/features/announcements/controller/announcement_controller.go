package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensi_backend/internals/features/announcements/dto"
	"absensi_backend/internals/features/announcements/model"
	helper "absensi_backend/internals/helpers"
)

type AnnouncementController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAnnouncementController(db *gorm.DB) *AnnouncementController {
	return &AnnouncementController{DB: db, Now: time.Now}
}

func (h *AnnouncementController) find(c *fiber.Ctx) (*model.AnnouncementModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.AnnouncementModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "announcement_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Pengumuman tidak ditemukan")
		}
		return nil, err
	}
	return &m, nil
}

/* ===================== ADMIN ===================== */

// POST /api/a/announcements
func (h *AnnouncementController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateAnnouncementRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}

	m := req.ToModel(userID, h.Now())
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		log.Println("[ERROR] Create announcement:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat pengumuman")
	}
	return helper.JsonCreated(c, "Pengumuman berhasil dibuat", dto.FromModel(m))
}

// PATCH /api/a/announcements/:id
func (h *AnnouncementController) Update(c *fiber.Ctx) error {
	var req dto.UpdateAnnouncementRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	m, err := h.find(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	req.ApplyToModel(m, h.Now())
	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		log.Println("[ERROR] Update announcement:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui pengumuman")
	}
	return helper.JsonUpdated(c, "Pengumuman berhasil diperbarui", dto.FromModel(m))
}

// DELETE /api/a/announcements/:id (soft delete; dihapus permanen oleh reaper)
func (h *AnnouncementController) Delete(c *fiber.Ctx) error {
	m, err := h.find(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		log.Println("[ERROR] Delete announcement:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus pengumuman")
	}
	return helper.JsonDeleted(c, "Pengumuman berhasil dihapus", fiber.Map{"announcement_id": m.AnnouncementID})
}

// GET /api/a/announcements?published=&q=&page=&per_page=
func (h *AnnouncementController) AdminList(c *fiber.Ctx) error {
	var q dto.AdminListQuery
	if err := helper.BindQuery(c, &q); err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.AnnouncementModel{})
	if q.Published != nil {
		tx = tx.Where("announcement_is_published = ?", *q.Published)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("announcement_title ILIKE ?", "%"+s+"%")
	}
	return h.respondList(c, tx, paging, "announcement_created_at DESC")
}

/* ===================== EMPLOYEE ===================== */

// GET /api/u/announcements: hanya yang published & audience cocok dengan role user.
func (h *AnnouncementController) List(c *fiber.Ctx) error {
	role := helper.GetRoleFromToken(c)
	paging := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.AnnouncementModel{}).
		Where("announcement_is_published = ?", true).
		Where("announcement_audience = '[]'::jsonb OR announcement_audience @> ?::jsonb", string(dto.EncodeAudience([]string{role})))
	return h.respondList(c, tx, paging, "announcement_published_at DESC NULLS LAST, announcement_created_at DESC")
}

func (h *AnnouncementController) respondList(c *fiber.Ctx, tx *gorm.DB, paging helper.Paging, order string) error {
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		log.Println("[ERROR] Count announcements:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengumuman")
	}
	var rows []model.AnnouncementModel
	if err := tx.Order(order).Limit(paging.Limit).Offset(paging.Offset).Find(&rows).Error; err != nil {
		log.Println("[ERROR] List announcements:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil pengumuman")
	}
	return helper.JsonList(c, "Daftar pengumuman", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}
