package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensi_backend/internals/configs"
	"absensi_backend/internals/features/attendances/sessions/controller"
	"absensi_backend/internals/features/attendances/sessions/repository"
	"absensi_backend/internals/features/attendances/sessions/service"
	employeeRepo "absensi_backend/internals/features/users/employees/repository"
	helperOSS "absensi_backend/internals/helpers/oss"
	"absensi_backend/internals/middlewares"
)

// BuildAttendanceService: GORM store + evidence dari ENV + shift policy dari ENV.
// Dipanggil sekali di main, hasilnya dibagi ke route & scheduler.
func BuildAttendanceService(db *gorm.DB) *service.AttendanceService {
	return service.NewAttendanceService(
		repository.NewGormStore(db),
		helperOSS.NewEvidenceStoreFromEnv(),
		configs.LoadShiftPolicy(),
	)
}

// AttendanceUserRoutes dipasang di group /api/u (sudah auth).
func AttendanceUserRoutes(user fiber.Router, db *gorm.DB, svc *service.AttendanceService) {
	ctrl := controller.NewAttendanceController(svc, employeeRepo.NewDirectory(db))

	g := user.Group("/attendance")
	g.Get("/today", ctrl.Today)
	g.Get("/history", ctrl.History)

	act := g.Group("", middlewares.AttendanceActionRateLimiter())
	act.Post("/clock-in", ctrl.ClockIn)
	act.Post("/clock-out", ctrl.ClockOut)
	act.Post("/break-start", ctrl.BreakStart)
	act.Post("/break-end", ctrl.BreakEnd)
	act.Post("/permit", ctrl.Permit)
	act.Post("/resume", ctrl.Resume)
}

// AttendanceAdminRoutes dipasang di group /api/a (auth + admin).
func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB, svc *service.AttendanceService) {
	ctrl := controller.NewAttendanceController(svc, employeeRepo.NewDirectory(db))

	g := admin.Group("/attendance")
	g.Get("/sessions", ctrl.AdminSessions)
	g.Get("/recap", ctrl.Recap)
	g.Get("/recap/export", ctrl.ExportRecap)
	g.Post("/sweep", ctrl.Sweep)
}
