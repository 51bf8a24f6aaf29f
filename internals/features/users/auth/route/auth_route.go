// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"absensi_backend/internals/features/users/auth/controller"
	"absensi_backend/internals/middlewares"
	authMiddleware "absensi_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	// Base: /api/auth
	baseAuth := app.Group("/api/auth")

	// 🔓 Public
	baseAuth.Post("/login", middlewares.LoginRateLimiter(), authController.Login)

	// 🔐 Protected
	protected := baseAuth.Group("", authMiddleware.AuthMiddleware(db))
	protected.Get("/me", authController.Me)
	protected.Post("/logout", authController.Logout)
	protected.Post("/change-password", authController.ChangePassword)
}
