package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absensi_backend/internals/features/complaints/model"
)

func TestCreateDefaults(t *testing.T) {
	m := CreateComplaintRequest{Title: " AC rusak ", Body: "Ruang 2", Attachments: []string{" https://x/y.jpg ", ""}}.ToModel(uuid.New())
	assert.Equal(t, "AC rusak", m.ComplaintTitle)
	assert.Equal(t, "general", m.ComplaintCategory)
	assert.Equal(t, model.ComplaintStatusOpen, m.ComplaintStatus)
	assert.Equal(t, []string{"https://x/y.jpg"}, DecodeAttachments(m.ComplaintAttachments))
}

func TestUpdateStatusResolvesOnce(t *testing.T) {
	admin := uuid.New()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	m := &model.ComplaintModel{ComplaintStatus: model.ComplaintStatusOpen}

	reply := " sudah diperbaiki "
	require.True(t, UpdateStatusRequest{Status: "resolved", Reply: &reply}.Apply(m, admin, now))
	assert.Equal(t, model.ComplaintStatusResolved, m.ComplaintStatus)
	assert.Equal(t, "sudah diperbaiki", *m.ComplaintReply)
	assert.Equal(t, now, *m.ComplaintResolvedAt)
	assert.Equal(t, admin, *m.ComplaintHandledBy)

	assert.False(t, UpdateStatusRequest{Status: "in_progress"}.Apply(m, admin, now.Add(time.Hour)))
	assert.Equal(t, model.ComplaintStatusResolved, m.ComplaintStatus)
}
