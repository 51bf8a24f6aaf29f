package dto

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"absensi_backend/internals/features/complaints/model"
)

type CreateComplaintRequest struct {
	Title       string   `json:"complaint_title" validate:"required,min=3,max=200"`
	Body        string   `json:"complaint_body" validate:"required,min=3"`
	Category    string   `json:"complaint_category" validate:"omitempty,max=50"`
	Attachments []string `json:"complaint_attachments" validate:"omitempty,max=5,dive,url"`
}

func (r CreateComplaintRequest) ToModel(userID uuid.UUID) *model.ComplaintModel {
	category := strings.ToLower(strings.TrimSpace(r.Category))
	if category == "" {
		category = "general"
	}
	return &model.ComplaintModel{
		ComplaintUserID:      userID,
		ComplaintTitle:       strings.TrimSpace(r.Title),
		ComplaintBody:        strings.TrimSpace(r.Body),
		ComplaintCategory:    category,
		ComplaintAttachments: EncodeAttachments(r.Attachments),
		ComplaintStatus:      model.ComplaintStatusOpen,
	}
}

// UpdateStatusRequest: dipakai admin (open → in_progress → resolved).
type UpdateStatusRequest struct {
	Status string  `json:"complaint_status" validate:"required,oneof=open in_progress resolved"`
	Reply  *string `json:"complaint_reply" validate:"omitempty,max=2000"`
}

// Apply mengubah status + balasan. false kalau status mundur.
func (r UpdateStatusRequest) Apply(m *model.ComplaintModel, adminID uuid.UUID, now time.Time) bool {
	next := model.ComplaintStatus(r.Status)
	if !m.ComplaintStatus.CanMoveTo(next) {
		return false
	}
	m.ComplaintStatus = next
	m.ComplaintHandledBy = &adminID
	if r.Reply != nil {
		reply := strings.TrimSpace(*r.Reply)
		m.ComplaintReply = &reply
	}
	if next == model.ComplaintStatusResolved && m.ComplaintResolvedAt == nil {
		t := now.UTC()
		m.ComplaintResolvedAt = &t
	}
	return true
}

type ListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=open in_progress resolved"`
	Category string `query:"category" validate:"omitempty,max=50"`
	UserID   string `query:"user_id" validate:"omitempty,uuid"`
}

func EncodeAttachments(urls []string) datatypes.JSON {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	b, _ := sonic.Marshal(out)
	return datatypes.JSON(b)
}

func DecodeAttachments(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) > 0 {
		_ = sonic.Unmarshal(raw, &out)
	}
	return out
}

type ComplaintResponse struct {
	ID          uuid.UUID             `json:"complaint_id"`
	UserID      uuid.UUID             `json:"complaint_user_id"`
	UserName    string                `json:"complaint_user_full_name,omitempty"`
	Title       string                `json:"complaint_title"`
	Body        string                `json:"complaint_body"`
	Category    string                `json:"complaint_category"`
	Attachments []string              `json:"complaint_attachments"`
	Status      model.ComplaintStatus `json:"complaint_status"`
	Reply       *string               `json:"complaint_reply,omitempty"`
	HandledBy   *uuid.UUID            `json:"complaint_handled_by,omitempty"`
	ResolvedAt  *time.Time            `json:"complaint_resolved_at,omitempty"`
	CreatedAt   time.Time             `json:"complaint_created_at"`
	UpdatedAt   time.Time             `json:"complaint_updated_at"`
}

func FromModel(m *model.ComplaintModel) ComplaintResponse {
	return ComplaintResponse{
		ID:          m.ComplaintID,
		UserID:      m.ComplaintUserID,
		Title:       m.ComplaintTitle,
		Body:        m.ComplaintBody,
		Category:    m.ComplaintCategory,
		Attachments: DecodeAttachments(m.ComplaintAttachments),
		Status:      m.ComplaintStatus,
		Reply:       m.ComplaintReply,
		HandledBy:   m.ComplaintHandledBy,
		ResolvedAt:  m.ComplaintResolvedAt,
		CreatedAt:   m.ComplaintCreatedAt,
		UpdatedAt:   m.ComplaintUpdatedAt,
	}
}

func FromModels(rows []model.ComplaintModel) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
