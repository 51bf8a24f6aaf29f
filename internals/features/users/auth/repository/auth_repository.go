package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "absensi_backend/internals/features/users/employees/model"
)

// FindUserByEmailOrUsername: identifier boleh email atau user_name (case-insensitive).
func FindUserByEmailOrUsername(db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	var user userModel.UserModel
	err := db.Where("LOWER(email) = ? OR LOWER(user_name) = ?", identifier, identifier).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, newHash string) error {
	return db.Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", newHash).Error
}
