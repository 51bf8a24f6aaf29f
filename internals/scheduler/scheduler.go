// Package scheduler menjalankan job berkala: sweep sesi absensi basi,
// purge token blacklist, hard-delete soft-delete lama, dan (opsional) foto bukti lama di OSS.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"absensi_backend/internals/configs"
	helpersAuth "absensi_backend/internals/helpers/auth"
	"absensi_backend/internals/helpers/dbtime"
	helperOSS "absensi_backend/internals/helpers/oss"
)

type Config struct {
	SweepSchedule   string // ATTENDANCE_SWEEP_CRON
	CleanupSchedule string // CLEANUP_CRON

	BlacklistTTLDays      int // TOKEN_BLACKLIST_TTL_DAYS
	RetentionDays         int // RETENTION_DAYS (row soft-delete)
	EvidenceRetentionDays int // EVIDENCE_RETENTION_DAYS, 0 = foto tidak pernah dihapus
	DryRun                bool
}

func LoadConfig() Config {
	return Config{
		SweepSchedule:         configs.GetEnv("ATTENDANCE_SWEEP_CRON", "5 4 * * *"),
		CleanupSchedule:       configs.GetEnv("CLEANUP_CRON", "15 2 * * *"),
		BlacklistTTLDays:      configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7),
		RetentionDays:         configs.GetEnvInt("RETENTION_DAYS", 30),
		EvidenceRetentionDays: configs.GetEnvInt("EVIDENCE_RETENTION_DAYS", 0),
		DryRun:                configs.GetEnvBool("DRY_RUN", false),
	}
}

// Sweeper: dipenuhi *service.AttendanceService.
type Sweeper interface {
	SweepStale(ctx context.Context) (int, error)
}

// Reaper: dipenuhi *helperOSS.OSSService.
type Reaper interface {
	ReapOlderThan(ctx context.Context, prefix string, threshold time.Time, dryRun bool) (int, error)
}

type Jobs struct {
	DB      *gorm.DB
	Sweeper Sweeper
	Reaper  Reaper // boleh nil
	Config  Config
	Now     func() time.Time
}

func (j *Jobs) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Sweep: tutup sesi open dari tanggal kerja sebelumnya.
func (j *Jobs) Sweep(ctx context.Context) {
	if j.Sweeper == nil {
		return
	}
	n, err := j.Sweeper.SweepStale(ctx)
	if err != nil {
		log.Printf("[CRON] sweep gagal setelah %d sesi: %v", n, err)
		return
	}
	log.Printf("[CRON] sweep selesai, %d sesi ditutup", n)
}

// Cleanup: purge blacklist, hard-delete soft-delete lama, reaper foto.
func (j *Jobs) Cleanup(ctx context.Context) {
	now := j.now()

	if j.DB != nil {
		cutoff := now.Add(-time.Duration(j.Config.BlacklistTTLDays) * 24 * time.Hour)
		if n, err := helpersAuth.PurgeExpired(ctx, j.DB, cutoff); err != nil {
			log.Printf("[CLEANUP ERROR] purge token_blacklist: %v", err)
		} else if n > 0 {
			log.Printf("[CLEANUP] %d token kadaluarsa dihapus", n)
		}

		retention := time.Duration(j.Config.RetentionDays) * 24 * time.Hour
		if err := runDBReaper(ctx, j.DB, now.Add(-retention), j.Config.DryRun); err != nil {
			log.Printf("[DB-REAPER] error: %v", err)
		}
	}

	if j.Reaper != nil && j.Config.EvidenceRetentionDays > 0 {
		threshold := now.Add(-time.Duration(j.Config.EvidenceRetentionDays) * 24 * time.Hour)
		if _, err := j.Reaper.ReapOlderThan(ctx, "attendance/", threshold, j.Config.DryRun); err != nil {
			log.Printf("[OSS-REAPER] error: %v", err)
		}
	}
}

// reaperTargets: tabel dengan soft delete yang boleh dihapus permanen.
// users & attendance_sessions sengaja tidak ada (jejak audit).
var reaperTargets = []struct{ Table, Col string }{
	{Table: "announcements", Col: "announcement_deleted_at"},
	{Table: "complaints", Col: "complaint_deleted_at"},
}

func runDBReaper(ctx context.Context, db *gorm.DB, cutoff time.Time, dryRun bool) error {
	total := int64(0)
	for _, t := range reaperTargets {
		table := t.Table
		if dryRun {
			var n int64
			if err := db.WithContext(ctx).Table(table).
				Where(t.Col+" IS NOT NULL AND "+t.Col+" < ?", cutoff).
				Count(&n).Error; err != nil {
				log.Printf("[DB-REAPER] %s: count error: %v", table, err)
				continue
			}
			log.Printf("[DB-REAPER] DRY-RUN %s: %d rows", table, n)
			continue
		}
		res := db.WithContext(ctx).Exec(
			`DELETE FROM `+table+` WHERE `+t.Col+` IS NOT NULL AND `+t.Col+` < ?`, cutoff,
		)
		if res.Error != nil {
			log.Printf("[DB-REAPER] %s: delete error: %v", table, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			log.Printf("[DB-REAPER] %s: hard-deleted %d rows older than %s", table, res.RowsAffected, cutoff.Format(time.RFC3339))
		}
		total += res.RowsAffected
	}
	if total == 0 && !dryRun {
		log.Printf("[DB-REAPER] nothing to delete")
	}
	return nil
}

// New menyusun cron (zona Asia/Jakarta) tanpa menjalankannya.
func New(j *Jobs) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(dbtime.JakartaLocation()),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	if _, err := c.AddFunc(j.Config.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		j.Sweep(ctx)
	}); err != nil {
		return nil, fmt.Errorf("jadwal sweep %q: %w", j.Config.SweepSchedule, err)
	}

	if _, err := c.AddFunc(j.Config.CleanupSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		j.Cleanup(ctx)
	}); err != nil {
		return nil, fmt.Errorf("jadwal cleanup %q: %w", j.Config.CleanupSchedule, err)
	}
	return c, nil
}

// Start: entrypoint dari main.go. OSS reaper hanya aktif kalau ENV OSS lengkap.
func Start(db *gorm.DB, sweeper Sweeper) *cron.Cron {
	jobs := &Jobs{DB: db, Sweeper: sweeper, Config: LoadConfig()}
	if jobs.Config.EvidenceRetentionDays > 0 && helperOSS.OSSConfigured() {
		if svc, err := helperOSS.NewOSSServiceFromEnv(configs.GetEnv("ALI_OSS_PREFIX")); err == nil {
			jobs.Reaper = svc
		} else {
			log.Printf("[CRON] OSS reaper nonaktif: %v", err)
		}
	}

	c, err := New(jobs)
	if err != nil {
		log.Fatalf("[CRON] init gagal: %v", err)
	}
	c.Start()
	log.Printf("[CRON] started sweep=%q cleanup=%q tz=Asia/Jakarta", jobs.Config.SweepSchedule, jobs.Config.CleanupSchedule)
	return c
}
