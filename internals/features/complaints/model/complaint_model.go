package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

var complaintRank = map[ComplaintStatus]int{
	ComplaintStatusOpen:       0,
	ComplaintStatusInProgress: 1,
	ComplaintStatusResolved:   2,
}

// CanMoveTo: status hanya boleh maju (atau tetap, untuk update balasan).
func (s ComplaintStatus) CanMoveTo(next ComplaintStatus) bool {
	from, ok1 := complaintRank[s]
	to, ok2 := complaintRank[next]
	return ok1 && ok2 && to >= from
}

// ComplaintModel: keluhan karyawan. Attachments = JSON array URL.
type ComplaintModel struct {
	ComplaintID     uuid.UUID `gorm:"column:complaint_id;type:uuid;default:gen_random_uuid();primaryKey" json:"complaint_id"`
	ComplaintUserID uuid.UUID `gorm:"column:complaint_user_id;type:uuid;not null;index:idx_complaints_user" json:"complaint_user_id"`

	ComplaintTitle       string         `gorm:"column:complaint_title;type:varchar(200);not null" json:"complaint_title"`
	ComplaintBody        string         `gorm:"column:complaint_body;type:text;not null" json:"complaint_body"`
	ComplaintCategory    string         `gorm:"column:complaint_category;type:varchar(50);not null;default:'general'" json:"complaint_category"`
	ComplaintAttachments datatypes.JSON `gorm:"column:complaint_attachments;type:jsonb;not null;default:'[]'" json:"complaint_attachments"`

	ComplaintStatus     ComplaintStatus `gorm:"column:complaint_status;type:varchar(20);not null;default:'open';index:idx_complaints_status" json:"complaint_status"`
	ComplaintReply      *string         `gorm:"column:complaint_reply;type:text" json:"complaint_reply,omitempty"`
	ComplaintHandledBy  *uuid.UUID      `gorm:"column:complaint_handled_by;type:uuid" json:"complaint_handled_by,omitempty"`
	ComplaintResolvedAt *time.Time      `gorm:"column:complaint_resolved_at;type:timestamptz" json:"complaint_resolved_at,omitempty"`

	ComplaintCreatedAt time.Time      `gorm:"column:complaint_created_at;type:timestamptz;not null;autoCreateTime" json:"complaint_created_at"`
	ComplaintUpdatedAt time.Time      `gorm:"column:complaint_updated_at;type:timestamptz;not null;autoUpdateTime" json:"complaint_updated_at"`
	ComplaintDeletedAt gorm.DeletedAt `gorm:"column:complaint_deleted_at;index" json:"-"`
}

func (ComplaintModel) TableName() string {
	return "complaints"
}
