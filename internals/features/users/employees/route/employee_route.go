package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensi_backend/internals/features/users/employees/controller"
)

// EmployeeAdminRoutes dipasang di group /api/a (sudah auth + admin).
func EmployeeAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEmployeeController(db)

	g := admin.Group("/employees")
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Get)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Patch)
	g.Delete("/:id", ctrl.Delete)
}
