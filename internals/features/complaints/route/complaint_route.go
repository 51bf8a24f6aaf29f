package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensi_backend/internals/features/complaints/controller"
)

func ComplaintUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := controller.NewComplaintController(db)

	g := user.Group("/complaints")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.ListMine)
	g.Get("/:id", ctrl.GetMine)
	g.Delete("/:id", ctrl.DeleteMine)
}

func ComplaintAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewComplaintController(db)

	g := admin.Group("/complaints")
	g.Get("/", ctrl.AdminList)
	g.Patch("/:id/status", ctrl.UpdateStatus)
}
