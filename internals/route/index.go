// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensi_backend/internals/constants"
	attendanceService "absensi_backend/internals/features/attendances/sessions/service"
	authRoute "absensi_backend/internals/features/users/auth/route"
	authMiddleware "absensi_backend/internals/middlewares/auth"
	routeDetails "absensi_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, svc *attendanceService.AttendanceService) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	user := app.Group("/api/u",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorEmployee("absensi"), constants.EmployeeAccess...),
	)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("admin"), constants.AdminOnly...),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting user routes...")
	routeDetails.UserRoutes(user, db, svc)

	log.Println("[INFO] Mounting admin routes...")
	routeDetails.AdminRoutes(admin, db, svc)
}
