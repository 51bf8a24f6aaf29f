package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"absensi_backend/internals/configs"
	database "absensi_backend/internals/databases"
	attendanceRoute "absensi_backend/internals/features/attendances/sessions/route"
	helper "absensi_backend/internals/helpers"
	middlewares "absensi_backend/internals/middlewares"
	routes "absensi_backend/internals/route"
	"absensi_backend/internals/scheduler"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR Cloudflare jika perlu
		BodyLimit:               8 * 1024 * 1024,      // foto bukti maks 5MB + field form
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.JsonFromError(c, err)
		},
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	if configs.GetEnvBool("AUTO_MIGRATE", false) {
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("❌ AutoMigrate gagal: %v", err)
		}
		log.Println("✅ AutoMigrate selesai")
	}

	attendanceSvc := attendanceRoute.BuildAttendanceService(database.DB)

	// ⏱ scheduler setelah DB siap
	cronJobs := scheduler.Start(database.DB, attendanceSvc)

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, attendanceSvc)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop cron (tunggu job jalan) → HTTP → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	select {
	case <-cronJobs.Stop().Done():
	case <-ctx.Done():
		log.Println("⚠️ cron job belum selesai, lanjut shutdown")
	}
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
