package handler

import (
	"github.com/acikkaynak/needs-board-go/session"
	"github.com/gofiber/fiber/v2"
)

func Welcome(sessions *session.Manager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return render(ctx, sessions, "welcome", fiber.Map{"Title": "Welcome"})
	}
}
