package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnnouncementModel: pengumuman dari admin ke karyawan.
// Audience = JSON array role (["employee"]); array kosong = semua role.
type AnnouncementModel struct {
	AnnouncementID uuid.UUID `gorm:"column:announcement_id;type:uuid;default:gen_random_uuid();primaryKey" json:"announcement_id"`

	AnnouncementTitle    string         `gorm:"column:announcement_title;type:varchar(200);not null" json:"announcement_title"`
	AnnouncementContent  string         `gorm:"column:announcement_content;type:text;not null" json:"announcement_content"`
	AnnouncementAudience datatypes.JSON `gorm:"column:announcement_audience;type:jsonb;not null;default:'[]'" json:"announcement_audience"`

	AnnouncementIsPublished bool       `gorm:"column:announcement_is_published;not null;default:false;index:idx_announcements_published" json:"announcement_is_published"`
	AnnouncementPublishedAt *time.Time `gorm:"column:announcement_published_at;type:timestamptz;index:idx_announcements_published" json:"announcement_published_at,omitempty"`

	AnnouncementCreatedBy uuid.UUID `gorm:"column:announcement_created_by;type:uuid;not null" json:"announcement_created_by"`

	AnnouncementCreatedAt time.Time      `gorm:"column:announcement_created_at;type:timestamptz;not null;autoCreateTime" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time      `gorm:"column:announcement_updated_at;type:timestamptz;not null;autoUpdateTime" json:"announcement_updated_at"`
	AnnouncementDeletedAt gorm.DeletedAt `gorm:"column:announcement_deleted_at;index" json:"-"`
}

func (AnnouncementModel) TableName() string {
	return "announcements"
}
