package handler

import (
	"github.com/acikkaynak/needs-board-go/session"
	"github.com/gofiber/fiber/v2"
)

// render fills in what every page needs (roles and pending flashes) and
// renders page with the rest of binding.
func render(ctx *fiber.Ctx, sessions *session.Manager, page string, binding fiber.Map) error {
	st, err := sessions.Load(ctx)
	if err != nil {
		return err
	}

	flashes, err := sessions.PopFlashes(ctx)
	if err != nil {
		return err
	}

	if binding == nil {
		binding = fiber.Map{}
	}
	binding["IsAdmin"] = st.Admin
	binding["Provider"] = st.Provider
	binding["Flashes"] = flashes

	return ctx.Render(page, binding)
}

// flashAndRedirect queues a message for the caller and sends them to location.
func flashAndRedirect(ctx *fiber.Ctx, sessions *session.Manager, category, message, location string) error {
	if err := sessions.Flash(ctx, category, message); err != nil {
		return err
	}
	return ctx.Redirect(location)
}
