package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensi_backend/internals/constants"
	authService "absensi_backend/internals/features/users/auth/service"
	"absensi_backend/internals/features/users/employees/dto"
	"absensi_backend/internals/features/users/employees/model"
	"absensi_backend/internals/features/users/employees/repository"
	helper "absensi_backend/internals/helpers"
)

type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

// GET /api/a/employees?q=&is_active=&role=&page=&per_page=
func (ec *EmployeeController) List(c *fiber.Ctx) error {
	var q dto.ListEmployeeQuery
	if err := helper.BindQuery(c, &q); err != nil {
		return helper.JsonFromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 200)

	rows, total, err := repository.List(c.UserContext(), ec.DB, repository.ListFilter{
		Q:        q.Q,
		IsActive: q.IsActive,
		Role:     q.Role,
		Limit:    paging.Limit,
		Offset:   paging.Offset,
	})
	if err != nil {
		log.Println("[ERROR] List employees:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data karyawan")
	}
	return helper.JsonList(c, "Daftar karyawan", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

// GET /api/a/employees/:id
func (ec *EmployeeController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var user model.UserModel
	if err := ec.DB.WithContext(c.UserContext()).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Karyawan tidak ditemukan")
		}
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Detail karyawan", dto.FromModel(&user))
}

// POST /api/a/employees
func (ec *EmployeeController) Create(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := authService.ValidatePassword(req.Password); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	role := req.Role
	if role == "" {
		role = constants.RoleEmployee
	}
	shift := req.DefaultShift
	if shift == "" {
		shift = "Management"
	}

	user := model.UserModel{
		UserName:     req.UserName,
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     hash,
		Role:         role,
		Position:     req.Position,
		DefaultShift: shift,
		IsActive:     true,
	}
	if err := ec.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		if repository.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email atau user_name sudah digunakan")
		}
		log.Println("[ERROR] Create employee:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat karyawan")
	}

	log.Printf("[SUCCESS] Karyawan dibuat: %s (%s)", user.Email, user.ID)
	return helper.JsonCreated(c, "Karyawan berhasil dibuat", dto.FromModel(&user))
}

// PATCH /api/a/employees/:id
func (ec *EmployeeController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.PatchEmployeeRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}

	updates := req.Updates()
	if req.Password != nil {
		pw := strings.TrimSpace(*req.Password)
		if err := authService.ValidatePassword(pw); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		hash, err := authService.HashPassword(pw)
		if err != nil {
			return helper.JsonFromError(c, err)
		}
		updates["password"] = hash
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada field yang diubah")
	}

	// Admin tidak boleh menonaktifkan / menurunkan role dirinya sendiri.
	if self, _ := helper.GetUserIDFromToken(c); self == id {
		if v, ok := updates["is_active"].(bool); ok && !v {
			return helper.JsonError(c, fiber.StatusBadRequest, "Tidak bisa menonaktifkan akun sendiri")
		}
		if r, ok := updates["role"].(string); ok && r != constants.RoleAdmin {
			return helper.JsonError(c, fiber.StatusBadRequest, "Tidak bisa mengubah role akun sendiri")
		}
	}

	var user model.UserModel
	err = ec.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&user, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Karyawan tidak ditemukan")
		}
		log.Println("[ERROR] Patch employee:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui karyawan")
	}
	return helper.JsonUpdated(c, "Karyawan berhasil diperbarui", dto.FromModel(&user))
}

// DELETE /api/a/employees/:id (soft delete, riwayat absensi tetap ada)
func (ec *EmployeeController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if self, _ := helper.GetUserIDFromToken(c); self == id {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak bisa menghapus akun sendiri")
	}

	res := ec.DB.WithContext(c.UserContext()).Delete(&model.UserModel{}, "id = ?", id)
	if res.Error != nil {
		log.Println("[ERROR] Delete employee:", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus karyawan")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Karyawan tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Karyawan berhasil dihapus", fiber.Map{"id": id})
}
