package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"absensi_backend/internals/features/users/employees/model"
)

type CreateEmployeeRequest struct {
	UserName     string  `json:"user_name" validate:"required,min=3,max=50"`
	FullName     string  `json:"full_name" validate:"required,min=3,max=150"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=8"`
	Role         string  `json:"role" validate:"omitempty,oneof=admin employee"`
	Position     *string `json:"position" validate:"omitempty,max=100"`
	DefaultShift string  `json:"default_shift" validate:"omitempty,max=50"`
}

func (r *CreateEmployeeRequest) Normalize() {
	r.UserName = strings.ToLower(strings.TrimSpace(r.UserName))
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.DefaultShift = strings.TrimSpace(r.DefaultShift)
}

// PatchEmployeeRequest: hanya field yang dikirim (non-nil) yang diubah.
type PatchEmployeeRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=3,max=150"`
	Position     *string `json:"position" validate:"omitempty,max=100"`
	DefaultShift *string `json:"default_shift" validate:"omitempty,max=50"`
	Role         *string `json:"role" validate:"omitempty,oneof=admin employee"`
	IsActive     *bool   `json:"is_active"`
	Password     *string `json:"password" validate:"omitempty,min=8"`
}

// Updates menghasilkan map kolom → nilai. Password di-hash oleh pemanggil.
func (r *PatchEmployeeRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.FullName != nil {
		m["full_name"] = strings.TrimSpace(*r.FullName)
	}
	if r.Position != nil {
		m["position"] = strings.TrimSpace(*r.Position)
	}
	if r.DefaultShift != nil {
		m["default_shift"] = strings.TrimSpace(*r.DefaultShift)
	}
	if r.Role != nil {
		m["role"] = strings.ToLower(strings.TrimSpace(*r.Role))
	}
	if r.IsActive != nil {
		m["is_active"] = *r.IsActive
	}
	return m
}

type ListEmployeeQuery struct {
	Q        string `query:"q" validate:"omitempty,max=100"`
	IsActive *bool  `query:"is_active"`
	Role     string `query:"role" validate:"omitempty,oneof=admin employee"`
}

type EmployeeResponse struct {
	ID           uuid.UUID `json:"id"`
	UserName     string    `json:"user_name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Position     *string   `json:"position,omitempty"`
	DefaultShift string    `json:"default_shift"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromModel(m *model.UserModel) EmployeeResponse {
	return EmployeeResponse{
		ID:           m.ID,
		UserName:     m.UserName,
		FullName:     m.FullName,
		Email:        m.Email,
		Role:         m.Role,
		Position:     m.Position,
		DefaultShift: m.DefaultShift,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromModels(rows []model.UserModel) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
