package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAudience(t *testing.T) {
	assert.JSONEq(t, `[]`, string(EncodeAudience(nil)))
	assert.JSONEq(t, `["admin","employee"]`, string(EncodeAudience([]string{"Employee", " admin", "employee", "owner"})))
	assert.Equal(t, []string{"employee"}, DecodeAudience(EncodeAudience([]string{"employee"})))
}

func TestPublishSetsTimestampOnce(t *testing.T) {
	first := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	yes := true
	m := CreateAnnouncementRequest{Title: " Libur ", Content: "Kantor tutup", IsPublished: &yes}.ToModel(uuid.New(), first)
	require.NotNil(t, m.AnnouncementPublishedAt)
	assert.Equal(t, "Libur", m.AnnouncementTitle)

	no := false
	(&UpdateAnnouncementRequest{IsPublished: &no}).ApplyToModel(m, first.Add(time.Hour))
	assert.False(t, m.AnnouncementIsPublished)

	(&UpdateAnnouncementRequest{IsPublished: &yes}).ApplyToModel(m, first.Add(2*time.Hour))
	assert.True(t, m.AnnouncementIsPublished)
	assert.Equal(t, first, *m.AnnouncementPublishedAt)
}

func TestDraftHasNoPublishedAt(t *testing.T) {
	m := CreateAnnouncementRequest{Title: "Draft", Content: "isi"}.ToModel(uuid.New(), time.Now())
	assert.False(t, m.AnnouncementIsPublished)
	assert.Nil(t, m.AnnouncementPublishedAt)
}
