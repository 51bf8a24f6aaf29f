package helper

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"absensi_backend/internals/helpers/dbtime"
)

const (
	EvidenceMaxBytes = 5 * 1024 * 1024
	evidenceMaxSide  = 1280
	evidenceQuality  = 78
)

var ErrUnsupportedImage = fmt.Errorf("format tidak didukung (pakai jpg/png/webp)")

/* =======================================================================
   Konversi foto bukti → WebP (maks 1280x1280, keep aspect)
======================================================================= */

func decodeEvidence(data []byte, filename string) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file kosong", ErrUnsupportedImage)
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		img image.Image
		err error
	)
	switch {
	case strings.Contains(ct, "webp") || ext == ".webp":
		img, err = webp.Decode(bytes.NewReader(data))
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "png"),
		ext == ".jpg", ext == ".jpeg", ext == ".png":
		// imaging.Decode juga membaca orientasi EXIF (foto kamera HP)
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	default:
		return nil, ErrUnsupportedImage
	}
	if err != nil {
		// ekstensi cocok tapi isinya rusak / bukan gambar
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}

// ConvertEvidenceToWebP: decode → fit 1280x1280 → encode WebP lossy.
func ConvertEvidenceToWebP(data []byte, filename string) ([]byte, error) {
	if len(data) > EvidenceMaxBytes {
		return nil, fmt.Errorf("file too large (max %d bytes)", EvidenceMaxBytes)
	}
	img, err := decodeEvidence(data, filename)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() > evidenceMaxSide || b.Dy() > evidenceMaxSide {
		img = imaging.Fit(img, evidenceMaxSide, evidenceMaxSide, imaging.Lanczos)
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: evidenceQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// EvidenceObjectKey: attendance/<user>/<YYYYMMDD>/<event>-<uuid>.webp (tanggal lokal Jakarta).
func EvidenceObjectKey(userID uuid.UUID, event string, at time.Time) string {
	event = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(event)), "_", "-")
	if event == "" {
		event = "evidence"
	}
	return fmt.Sprintf("attendance/%s/%s/%s-%s.webp",
		userID, dbtime.ToJakartaTime(at).Format("20060102"), event, uuid.NewString())
}

/* =======================================================================
   Evidence stores
======================================================================= */

// OSSEvidenceStore menyimpan foto bukti absensi ke Alibaba OSS.
type OSSEvidenceStore struct {
	svc *OSSService
	now func() time.Time
}

func NewOSSEvidenceStore(svc *OSSService) *OSSEvidenceStore {
	return &OSSEvidenceStore{svc: svc, now: time.Now}
}

func (s *OSSEvidenceStore) Save(ctx context.Context, userID uuid.UUID, event string, photo []byte, filename string) (string, error) {
	data, err := ConvertEvidenceToWebP(photo, filename)
	if err != nil {
		return "", err
	}
	key := s.svc.FullKey(EvidenceObjectKey(userID, event, s.now()))
	if err := s.svc.PutBytes(ctx, key, data, "image/webp"); err != nil {
		return "", fmt.Errorf("upload oss: %w", err)
	}
	return s.svc.PublicURL(key), nil
}

// Discard menghapus foto berdasarkan URL publik yang dikembalikan Save.
func (s *OSSEvidenceStore) Discard(ctx context.Context, ref string) error {
	return s.svc.DeleteByPublicURL(ctx, ref)
}

// NoopEvidenceStore: dipakai saat OSS belum dikonfigurasi. Foto tetap divalidasi, tapi tidak disimpan.
type NoopEvidenceStore struct{}

func (NoopEvidenceStore) Save(_ context.Context, userID uuid.UUID, event string, photo []byte, filename string) (string, error) {
	if _, err := decodeEvidence(photo, filename); err != nil {
		return "", err
	}
	log.Printf("[EVIDENCE] OSS tidak aktif, foto %s user=%s (%d bytes) tidak disimpan", event, userID, len(photo))
	return "", nil
}

// EvidenceSaver: kontrak yang dipenuhi OSSEvidenceStore & NoopEvidenceStore.
type EvidenceSaver interface {
	Save(ctx context.Context, userID uuid.UUID, event string, photo []byte, filename string) (string, error)
}

// NewEvidenceStoreFromEnv: OSS kalau ENV lengkap, fallback Noop.
func NewEvidenceStoreFromEnv() EvidenceSaver {
	if !OSSConfigured() {
		log.Println("⚠️ ALI_OSS_* belum lengkap, foto absensi tidak disimpan")
		return NoopEvidenceStore{}
	}
	svc, err := NewOSSServiceFromEnv(getEnv("ALI_OSS_PREFIX"))
	if err != nil {
		log.Printf("❌ OSS init gagal, fallback noop: %v", err)
		return NoopEvidenceStore{}
	}
	log.Println("✅ OSS evidence store aktif")
	return NewOSSEvidenceStore(svc)
}
