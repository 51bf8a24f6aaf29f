package dto

import (
	"slices"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"absensi_backend/internals/constants"
	"absensi_backend/internals/features/announcements/model"
)

/* ===================== REQUESTS ===================== */

type CreateAnnouncementRequest struct {
	Title       string   `json:"announcement_title" validate:"required,min=3,max=200"`
	Content     string   `json:"announcement_content" validate:"required,min=3"`
	Audience    []string `json:"announcement_audience" validate:"omitempty,dive,oneof=admin employee"`
	IsPublished *bool    `json:"announcement_is_published"`
}

// ToModel: created_by diambil dari token oleh controller.
func (r CreateAnnouncementRequest) ToModel(createdBy uuid.UUID, now time.Time) *model.AnnouncementModel {
	m := &model.AnnouncementModel{
		AnnouncementTitle:     strings.TrimSpace(r.Title),
		AnnouncementContent:   strings.TrimSpace(r.Content),
		AnnouncementAudience:  EncodeAudience(r.Audience),
		AnnouncementCreatedBy: createdBy,
	}
	if r.IsPublished != nil && *r.IsPublished {
		setPublished(m, true, now)
	}
	return m
}

type UpdateAnnouncementRequest struct {
	Title       *string   `json:"announcement_title" validate:"omitempty,min=3,max=200"`
	Content     *string   `json:"announcement_content" validate:"omitempty,min=3"`
	Audience    *[]string `json:"announcement_audience" validate:"omitempty,dive,oneof=admin employee"`
	IsPublished *bool     `json:"announcement_is_published"`
}

// ApplyToModel: hanya field yang dikirim. published_at diisi saat pertama kali publish.
func (r *UpdateAnnouncementRequest) ApplyToModel(m *model.AnnouncementModel, now time.Time) {
	if r.Title != nil {
		m.AnnouncementTitle = strings.TrimSpace(*r.Title)
	}
	if r.Content != nil {
		m.AnnouncementContent = strings.TrimSpace(*r.Content)
	}
	if r.Audience != nil {
		m.AnnouncementAudience = EncodeAudience(*r.Audience)
	}
	if r.IsPublished != nil {
		setPublished(m, *r.IsPublished, now)
	}
}

func setPublished(m *model.AnnouncementModel, published bool, now time.Time) {
	m.AnnouncementIsPublished = published
	if published && m.AnnouncementPublishedAt == nil {
		t := now.UTC()
		m.AnnouncementPublishedAt = &t
	}
}

// EncodeAudience: lowercase, unik, terurut. nil/kosong → [].
func EncodeAudience(roles []string) datatypes.JSON {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if constants.IsValidRole(r) {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	b, _ := sonic.Marshal(out)
	return datatypes.JSON(b)
}

func DecodeAudience(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	_ = sonic.Unmarshal(raw, &out)
	return out
}

/* ===================== QUERIES ===================== */

type AdminListQuery struct {
	Published *bool  `query:"published"`
	Q         string `query:"q" validate:"omitempty,max=100"`
}

/* ===================== RESPONSES ===================== */

type AnnouncementResponse struct {
	ID          uuid.UUID  `json:"announcement_id"`
	Title       string     `json:"announcement_title"`
	Content     string     `json:"announcement_content"`
	Audience    []string   `json:"announcement_audience"`
	IsPublished bool       `json:"announcement_is_published"`
	PublishedAt *time.Time `json:"announcement_published_at,omitempty"`
	CreatedBy   uuid.UUID  `json:"announcement_created_by"`
	CreatedAt   time.Time  `json:"announcement_created_at"`
	UpdatedAt   time.Time  `json:"announcement_updated_at"`
}

func FromModel(m *model.AnnouncementModel) AnnouncementResponse {
	return AnnouncementResponse{
		ID:          m.AnnouncementID,
		Title:       m.AnnouncementTitle,
		Content:     m.AnnouncementContent,
		Audience:    DecodeAudience(m.AnnouncementAudience),
		IsPublished: m.AnnouncementIsPublished,
		PublishedAt: m.AnnouncementPublishedAt,
		CreatedBy:   m.AnnouncementCreatedBy,
		CreatedAt:   m.AnnouncementCreatedAt,
		UpdatedAt:   m.AnnouncementUpdatedAt,
	}
}

func FromModels(rows []model.AnnouncementModel) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
