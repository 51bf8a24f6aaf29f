package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"absensi_backend/internals/features/complaints/dto"
	"absensi_backend/internals/features/complaints/model"
	employeeRepo "absensi_backend/internals/features/users/employees/repository"
	helper "absensi_backend/internals/helpers"
)

type ComplaintController struct {
	DB  *gorm.DB
	Dir *employeeRepo.Directory
	Now func() time.Time
}

func NewComplaintController(db *gorm.DB) *ComplaintController {
	return &ComplaintController{DB: db, Dir: employeeRepo.NewDirectory(db), Now: time.Now}
}

func (h *ComplaintController) findByID(c *fiber.Ctx, id uuid.UUID) (*model.ComplaintModel, error) {
	var m model.ComplaintModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "complaint_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Keluhan tidak ditemukan")
		}
		return nil, err
	}
	return &m, nil
}

// findOwned: keluhan milik user login. Milik orang lain diperlakukan seperti tidak ada.
func (h *ComplaintController) findOwned(c *fiber.Ctx) (*model.ComplaintModel, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	m, err := h.findByID(c, id)
	if err != nil {
		return nil, err
	}
	if m.ComplaintUserID != userID {
		return nil, fiber.NewError(fiber.StatusNotFound, "Keluhan tidak ditemukan")
	}
	return m, nil
}

func (h *ComplaintController) list(c *fiber.Ctx, tx *gorm.DB, withNames bool) error {
	paging := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		log.Println("[ERROR] Count complaints:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil keluhan")
	}
	var rows []model.ComplaintModel
	if err := tx.Order("complaint_created_at DESC").Limit(paging.Limit).Offset(paging.Offset).Find(&rows).Error; err != nil {
		log.Println("[ERROR] List complaints:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil keluhan")
	}

	data := dto.FromModels(rows)
	if withNames && len(rows) > 0 {
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ComplaintUserID)
		}
		if info, err := h.Dir.Lookup(c.UserContext(), ids); err == nil {
			for i := range data {
				data[i].UserName = info[data[i].UserID].FullName
			}
		} else {
			log.Printf("[WARN] lookup nama pelapor: %v", err)
		}
	}
	return helper.JsonList(c, "Daftar keluhan", data, helper.BuildPagination(total, paging, len(data)))
}

/* ===================== EMPLOYEE: /api/u/complaints ===================== */

// POST /
func (h *ComplaintController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.CreateComplaintRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}

	m := req.ToModel(userID)
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		log.Println("[ERROR] Create complaint:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengirim keluhan")
	}
	log.Printf("[INFO] keluhan baru %s dari user=%s", m.ComplaintID, userID)
	return helper.JsonCreated(c, "Keluhan terkirim", dto.FromModel(m))
}

// GET /?status=
func (h *ComplaintController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var q dto.ListQuery
	if err := helper.BindQuery(c, &q); err != nil {
		return helper.JsonFromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext()).Model(&model.ComplaintModel{}).Where("complaint_user_id = ?", userID)
	if q.Status != "" {
		tx = tx.Where("complaint_status = ?", q.Status)
	}
	return h.list(c, tx, false)
}

// GET /:id
func (h *ComplaintController) GetMine(c *fiber.Ctx) error {
	m, err := h.findOwned(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Detail keluhan", dto.FromModel(m))
}

// DELETE /:id: hanya selama masih open.
func (h *ComplaintController) DeleteMine(c *fiber.Ctx) error {
	m, err := h.findOwned(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if m.ComplaintStatus != model.ComplaintStatusOpen {
		return helper.JsonError(c, fiber.StatusConflict, "Keluhan yang sudah diproses tidak bisa dihapus")
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(m).Error; err != nil {
		log.Println("[ERROR] Delete complaint:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus keluhan")
	}
	return helper.JsonDeleted(c, "Keluhan dihapus", fiber.Map{"complaint_id": m.ComplaintID})
}

/* ===================== ADMIN: /api/a/complaints ===================== */

// GET /?status=&category=&user_id=
func (h *ComplaintController) AdminList(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := helper.BindQuery(c, &q); err != nil {
		return helper.JsonFromError(c, err)
	}
	tx := h.DB.WithContext(c.UserContext()).Model(&model.ComplaintModel{})
	if q.Status != "" {
		tx = tx.Where("complaint_status = ?", q.Status)
	}
	if q.Category != "" {
		tx = tx.Where("complaint_category = ?", q.Category)
	}
	if q.UserID != "" {
		tx = tx.Where("complaint_user_id = ?", q.UserID)
	}
	return h.list(c, tx, true)
}

// PATCH /:id/status
func (h *ComplaintController) UpdateStatus(c *fiber.Ctx) error {
	adminID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.UpdateStatusRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}

	m, err := h.findByID(c, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if !req.Apply(m, adminID, h.Now()) {
		return helper.JsonError(c, fiber.StatusConflict, "Status keluhan tidak boleh mundur")
	}
	if err := h.DB.WithContext(c.UserContext()).Save(m).Error; err != nil {
		log.Println("[ERROR] Update complaint status:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui keluhan")
	}
	return helper.JsonUpdated(c, "Status keluhan diperbarui", dto.FromModel(m))
}
