package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensi_backend/internals/features/announcements/controller"
)

func AnnouncementUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAnnouncementController(db)
	user.Get("/announcements", ctrl.List)
}

func AnnouncementAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAnnouncementController(db)

	g := admin.Group("/announcements")
	g.Get("/", ctrl.AdminList)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
