package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

var quietPaths = map[string]bool{"/": true, "/health": true}

// LoggerMiddleware: access log jam Jakarta, plus request id dan user id (kalau sudah login).
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[${time}] ${ip} ${method} ${path} → ${status} ${latency} rid=${locals:reqid} uid=${locals:user_id}\n",
		Next: func(c *fiber.Ctx) bool {
			return quietPaths[c.Path()]
		},
	})
}
