package handler

import (
	"fmt"

	"github.com/acikkaynak/needs-board-go/board"
	"github.com/acikkaynak/needs-board-go/middleware/auth"
	"github.com/acikkaynak/needs-board-go/session"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MsgProviderRequired is shown when a caller without a provider login opens the provider dashboard.
const MsgProviderRequired = "You must be logged in as provider."

type ProviderHandler struct {
	board    *board.Board
	sessions *session.Manager
	log      *zap.Logger
}

func NewProviderHandler(b *board.Board, sessions *session.Manager, log *zap.Logger) *ProviderHandler {
	return &ProviderHandler{board: b, sessions: sessions, log: log}
}

func (h *ProviderHandler) HandleLoginPage(ctx *fiber.Ctx) error {
	return render(ctx, h.sessions, "login", fiber.Map{"Title": "Provider login", "Role": "Provider", "Action": "/provider/login"})
}

func (h *ProviderHandler) HandleLogin(ctx *fiber.Ctx) error {
	form := loginForm{}
	if err := ctx.BodyParser(&form); err != nil {
		h.log.Debug("could not parse provider login form", zap.Error(err))
	}

	p, err := h.board.ProviderLogin(form.Username, form.Password)
	if err != nil {
		h.log.Info("provider login failed", zap.String("ip", ctx.IP()))
		return flashAndRedirect(ctx, h.sessions, session.Danger, msgInvalidCredentials, "/provider/login")
	}

	err = h.sessions.Update(ctx, func(st *session.State) {
		st.Provider = p.Name
		st.AddFlash(session.Success, fmt.Sprintf("Logged in as %s", p.Name))
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/provider/dashboard")
}

// HandleLogout drops the provider login and keeps any admin flag.
func (h *ProviderHandler) HandleLogout(ctx *fiber.Ctx) error {
	err := h.sessions.Update(ctx, func(st *session.State) {
		st.Provider = ""
		st.AddFlash(session.Info, msgLoggedOut)
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/index")
}

// HandleDashboard lists the open needs assigned to the logged in provider.
// It must run behind auth.RequireProvider.
func (h *ProviderHandler) HandleDashboard(ctx *fiber.Ctx) error {
	name := auth.Claims(ctx).Provider
	return render(ctx, h.sessions, "provider_dashboard", fiber.Map{
		"Title":         fmt.Sprintf("%s's tasks", name),
		"ProviderName":  name,
		"AssignedNeeds": h.board.AssignedTo(name),
	})
}
