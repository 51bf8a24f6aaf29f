package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// OnlyRoles: lolos kalau role di Locals("userRole") ada di daftar roles.
// msg kosong → pesan forbidden default.
func OnlyRoles(msg string, roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	if msg == "" {
		msg = "Anda tidak memiliki akses ke resource ini"
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("userRole").(string)
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Role tidak ditemukan di token")
		}
		if _, ok := allowed[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, msg)
		}
		return c.Next()
	}
}
