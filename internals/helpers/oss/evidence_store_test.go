package helper

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chai2010/webp"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestConvertEvidenceToWebPFitsBounds(t *testing.T) {
	out, err := ConvertEvidenceToWebP(pngBytes(t, 2560, 1440), "selfie.png")
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
}

func TestConvertEvidenceKeepsSmallImage(t *testing.T) {
	out, err := ConvertEvidenceToWebP(pngBytes(t, 320, 240), "small.png")
	require.NoError(t, err)
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
}

func TestConvertEvidenceRejectsUnknownFormat(t *testing.T) {
	_, err := ConvertEvidenceToWebP([]byte("bukan gambar"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestConvertEvidenceRejectsCorruptImage(t *testing.T) {
	for _, name := range []string{"selfie.jpg", "selfie.png", "selfie.webp"} {
		_, err := ConvertEvidenceToWebP([]byte("bukan gambar"), name)
		assert.ErrorIs(t, err, ErrUnsupportedImage, name)
	}
	_, err := NoopEvidenceStore{}.Save(context.Background(), uuid.New(), "clock_in", []byte("rusak"), "foto.jpeg")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestEvidenceObjectKey(t *testing.T) {
	uid := uuid.MustParse("6f1c1a0e-8d5a-4c3e-9a51-0f0b8c1d2e3f")
	// 2025-03-09 20:30 UTC = 2025-03-10 03:30 WIB
	key := EvidenceObjectKey(uid, "check_in", time.Date(2025, 3, 9, 20, 30, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(key, "attendance/6f1c1a0e-8d5a-4c3e-9a51-0f0b8c1d2e3f/20250310/check-in-"), key)
	assert.True(t, strings.HasSuffix(key, ".webp"))
}

func TestNoopEvidenceStore(t *testing.T) {
	ref, err := NoopEvidenceStore{}.Save(context.Background(), uuid.New(), "check_in", pngBytes(t, 10, 10), "a.png")
	require.NoError(t, err)
	assert.Empty(t, ref)

	_, err = NoopEvidenceStore{}.Save(context.Background(), uuid.New(), "check_in", []byte("x"), "a.bin")
	assert.Error(t, err)
}

func TestPublicURLFor(t *testing.T) {
	t.Setenv("ALI_OSS_PUBLIC_BASE", "")
	assert.Equal(t, "https://absensi.oss-ap-southeast-5.aliyuncs.com/attendance/a.webp",
		PublicURLFor("https://oss-ap-southeast-5.aliyuncs.com", "absensi", "attendance/a.webp"))

	t.Setenv("ALI_OSS_PUBLIC_BASE", "https://cdn.example.id/")
	assert.Equal(t, "https://cdn.example.id/attendance/a.webp", PublicURLFor("x", "y", "attendance/a.webp"))

	key, err := ExtractKeyFromPublicURL("https://cdn.example.id/attendance/a.webp")
	require.NoError(t, err)
	assert.Equal(t, "attendance/a.webp", key)
}
