package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"absensi_backend/internals/helpers/dbtime"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	switch strings.TrimSpace(os.Getenv(key)) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	default:
		return def
	}
}

// =======================
// SHIFT POLICY
// =======================

// ShiftPolicy: batas jam telat per shift (lokal Jakarta).
// Shift yang tidak terdaftar tidak pernah dianggap telat.
type ShiftPolicy struct {
	LateAfter map[string]dbtime.Tod
	// Dipakai saat resume, tidak peduli shift.
	ResumeLateAfter dbtime.Tod
	DefaultShift    string
}

func DefaultShiftPolicy() ShiftPolicy {
	return ShiftPolicy{
		LateAfter: map[string]dbtime.Tod{
			"Shift 1": dbtime.MustParse("07:00"),
			"Shift 2": dbtime.MustParse("12:00"),
		},
		ResumeLateAfter: dbtime.MustParse("07:00"),
		DefaultShift:    "Management",
	}
}

// LoadShiftPolicy membaca SHIFT_1_LATE_AFTER / SHIFT_2_LATE_AFTER / RESUME_LATE_AFTER.
// Nilai yang tidak valid di-log lalu diabaikan (pakai default).
func LoadShiftPolicy() ShiftPolicy {
	p := DefaultShiftPolicy()
	overrides := map[string]string{
		"Shift 1": "SHIFT_1_LATE_AFTER",
		"Shift 2": "SHIFT_2_LATE_AFTER",
	}
	for shift, key := range overrides {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			continue
		}
		tod, err := dbtime.Parse(raw)
		if err != nil {
			log.Printf("[WARN] %s diabaikan: %v", key, err)
			continue
		}
		p.LateAfter[shift] = tod
	}
	if raw := strings.TrimSpace(os.Getenv("RESUME_LATE_AFTER")); raw != "" {
		if tod, err := dbtime.Parse(raw); err == nil {
			p.ResumeLateAfter = tod
		} else {
			log.Printf("[WARN] RESUME_LATE_AFTER diabaikan: %v", err)
		}
	}
	if s := strings.TrimSpace(os.Getenv("DEFAULT_SHIFT")); s != "" {
		p.DefaultShift = s
	}
	return p
}

// =======================
// DATABASE CONNECTOR (CLI)
// =======================
func InitCLIDB() *gorm.DB {
	dbUser := GetEnv("DB_USER")
	dbPassword := GetEnv("DB_PASSWORD")
	dbHost := GetEnv("DB_HOST")
	dbPort := GetEnv("DB_PORT")
	dbName := GetEnv("DB_NAME")
	dbSSL := GetEnv("DB_SSLMODE", "require")

	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPassword, dbHost, dbPort, dbName, dbSSL)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // ✅ hindari cache prepared statement
	}), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal koneksi ke database (CLI): %v", err)
	}
	log.Println("✅ Database (CLI) terkoneksi.")
	return db
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetEnvBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
