package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRepo "absensi_backend/internals/features/users/auth/repository"
	userModel "absensi_backend/internals/features/users/employees/model"
	helper "absensi_backend/internals/helpers"
	helpersAuth "absensi_backend/internals/helpers/auth"
)

func nowUTC() time.Time { return time.Now().UTC() }

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        UserSummaryResp `json:"user"`
}

type UserSummaryResp struct {
	ID           string  `json:"id"`
	UserName     string  `json:"user_name"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	Position     *string `json:"position,omitempty"`
	DefaultShift string  `json:"default_shift"`
}

func toUserSummary(u userModel.UserModel) UserSummaryResp {
	return UserSummaryResp{
		ID:           u.ID.String(),
		UserName:     u.UserName,
		FullName:     u.FullName,
		Email:        u.Email,
		Role:         u.Role,
		Position:     u.Position,
		DefaultShift: u.DefaultShift,
	}
}

// POST /api/auth/login
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input LoginRequest
	if err := helper.BindAndValidate(c, &input); err != nil {
		return helper.JsonFromError(c, err)
	}

	user, err := authRepo.FindUserByEmailOrUsername(db, input.Identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] login lookup: %v", err)
		}
		return helper.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}
	if err := CheckPasswordHash(user.Password, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Identifier atau Password salah")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Akun Anda telah dinonaktifkan. Hubungi admin.")
	}

	token, exp, err := IssueAccessToken(*user, nowUTC())
	if err != nil {
		log.Printf("[ERROR] issue token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.JsonOK(c, "Login berhasil", LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		User:        toUserSummary(*user),
	})
}

// GET /api/auth/me
func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}
	return helper.JsonOK(c, "ok", toUserSummary(*user))
}

// POST /api/auth/logout: blacklist access token sampai exp-nya (idempotent).
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		log.Println("[INFO] Logout tanpa access token; tetap sukses (idempotent)")
		return helper.JsonOK(c, "Logout berhasil", nil)
	}
	secret, err := getJWTSecret()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	exp := tokenExpiry(strings.TrimSpace(raw), nowUTC())
	if err := helpersAuth.Add(c.Context(), db, raw, secret, exp); err != nil {
		log.Printf("[WARN] Failed to blacklist token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal logout")
	}
	return helper.JsonOK(c, "Logout berhasil", nil)
}
