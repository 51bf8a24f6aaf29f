package helper

import (
	"context"
	"log"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

const reaperBatch = 1000

// ReapOlderThan menghapus objek di bawah prefix (relatif ke Prefix service)
// yang LastModified-nya sebelum threshold. Return jumlah objek yang (akan) dihapus.
func (s *OSSService) ReapOlderThan(ctx context.Context, prefix string, threshold time.Time, dryRun bool) (int, error) {
	full := s.FullKey(prefix)
	log.Printf("[OSS-REAPER] scanning prefix=%q threshold=%s dry=%v", full, threshold.Format(time.RFC3339), dryRun)

	marker := oss.Marker("")
	var keys []string
	total := 0
	for {
		lor, err := s.Bucket.ListObjects(oss.Prefix(full), marker, oss.MaxKeys(reaperBatch), oss.WithContext(ctx))
		if err != nil {
			return 0, err
		}
		for _, obj := range lor.Objects {
			total++
			if obj.Key != "" && obj.LastModified.Before(threshold) {
				keys = append(keys, obj.Key)
			}
		}
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}

	if len(keys) == 0 {
		log.Printf("[OSS-REAPER] nothing to delete; scanned=%d", total)
		return 0, nil
	}
	if dryRun {
		log.Printf("[OSS-REAPER] DRY-RUN would delete %d/%d objects", len(keys), total)
		return len(keys), nil
	}

	deleted := 0
	for i := 0; i < len(keys); i += reaperBatch {
		end := min(i+reaperBatch, len(keys))
		if _, err := s.Bucket.DeleteObjects(keys[i:end], oss.DeleteObjectsQuiet(true), oss.WithContext(ctx)); err != nil {
			log.Printf("[OSS-REAPER] delete batch %d-%d gagal: %v", i, end, err)
			continue
		}
		deleted += end - i
	}
	log.Printf("[OSS-REAPER] deleted %d objects (scanned=%d)", deleted, total)
	return deleted, nil
}
