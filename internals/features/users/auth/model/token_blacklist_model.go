package model

import "time"

// TokenBlacklistModel: access token yang sudah logout (disimpan sebagai HMAC hex).
// Baris dihapus permanen oleh job cleanup setelah lewat expired_at.
type TokenBlacklistModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"`
	ExpiredAt time.Time `gorm:"not null;index" json:"expired_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TokenBlacklistModel) TableName() string { return "token_blacklist" }
