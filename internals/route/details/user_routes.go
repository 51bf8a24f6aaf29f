package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementRoute "absensi_backend/internals/features/announcements/route"
	attendanceRoute "absensi_backend/internals/features/attendances/sessions/route"
	attendanceService "absensi_backend/internals/features/attendances/sessions/service"
	complaintRoute "absensi_backend/internals/features/complaints/route"
	employeeRoute "absensi_backend/internals/features/users/employees/route"
)

// UserRoutes: /api/u/... (karyawan & admin yang login)
func UserRoutes(user fiber.Router, db *gorm.DB, svc *attendanceService.AttendanceService) {
	attendanceRoute.AttendanceUserRoutes(user, db, svc)
	announcementRoute.AnnouncementUserRoutes(user, db)
	complaintRoute.ComplaintUserRoutes(user, db)
}

// AdminRoutes: /api/a/... (admin saja)
func AdminRoutes(admin fiber.Router, db *gorm.DB, svc *attendanceService.AttendanceService) {
	employeeRoute.EmployeeAdminRoutes(admin, db)
	attendanceRoute.AttendanceAdminRoutes(admin, db, svc)
	announcementRoute.AnnouncementAdminRoutes(admin, db)
	complaintRoute.ComplaintAdminRoutes(admin, db)
}
