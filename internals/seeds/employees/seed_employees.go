package employees

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"absensi_backend/internals/constants"
	authService "absensi_backend/internals/features/users/auth/service"
	"absensi_backend/internals/features/users/employees/model"
)

type EmployeeSeed struct {
	UserName     string  `json:"user_name"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	Position     *string `json:"position"`
	DefaultShift string  `json:"default_shift"`
}

// ParseSeeds: decode + normalisasi. Baris tanpa email / password dilewati.
func ParseSeeds(raw []byte) ([]EmployeeSeed, error) {
	var inputs []EmployeeSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	out := inputs[:0]
	for _, s := range inputs {
		s.Email = strings.ToLower(strings.TrimSpace(s.Email))
		s.UserName = strings.ToLower(strings.TrimSpace(s.UserName))
		s.Role = strings.ToLower(strings.TrimSpace(s.Role))
		if s.Email == "" || s.Password == "" {
			log.Printf("⚠️ seed tanpa email/password dilewati: %q", s.FullName)
			continue
		}
		if s.UserName == "" {
			s.UserName = strings.Split(s.Email, "@")[0]
		}
		if !constants.IsValidRole(s.Role) {
			s.Role = constants.RoleEmployee
		}
		if strings.TrimSpace(s.DefaultShift) == "" {
			s.DefaultShift = "Management"
		}
		out = append(out, s)
	}
	return out, nil
}

// SeedEmployeesFromJSON: insert karyawan dari file JSON; email yang sudah ada dilewati.
// Return jumlah baris baru.
func SeedEmployeesFromJSON(ctx context.Context, db *gorm.DB, filePath string) (int, error) {
	log.Println("📥 Membaca file karyawan:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("baca file: %w", err)
	}
	seeds, err := ParseSeeds(file)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, data := range seeds {
		var existing model.UserModel
		err := db.WithContext(ctx).Where("LOWER(email) = ?", data.Email).First(&existing).Error
		if err == nil {
			log.Printf("ℹ️ User dengan email '%s' sudah ada, dilewati.", data.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return inserted, err
		}

		hashedPassword, err := authService.HashPassword(data.Password)
		if err != nil {
			log.Printf("❌ Gagal hash password untuk '%s': %v", data.Email, err)
			continue
		}

		user := model.UserModel{
			UserName:     data.UserName,
			FullName:     data.FullName,
			Email:        data.Email,
			Password:     hashedPassword,
			Role:         data.Role,
			Position:     data.Position,
			DefaultShift: data.DefaultShift,
			IsActive:     true,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			log.Printf("❌ Gagal insert user '%s': %v", data.Email, err)
			continue
		}
		inserted++
		log.Printf("✅ Berhasil insert user '%s'", data.Email)
	}
	return inserted, nil
}
