package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel merepresentasikan tabel users (admin & karyawan)
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName     string    `gorm:"size:50;not null;uniqueIndex:uq_users_user_name,where:deleted_at IS NULL" json:"user_name"`
	FullName     string    `gorm:"size:150;not null" json:"full_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uq_users_email,where:deleted_at IS NULL" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	Position     *string   `gorm:"size:100" json:"position,omitempty"`
	DefaultShift string    `gorm:"size:50;not null;default:'Management'" json:"default_shift"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}
