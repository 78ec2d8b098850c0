package handler

import (
	"github.com/acikkaynak/needs-board-go/board"
	"github.com/acikkaynak/needs-board-go/session"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgLoggedOut          = "Logged out"

	// MsgAdminRequired is shown when an anonymous caller opens the admin dashboard.
	MsgAdminRequired = "You must be admin to view dashboard."
)

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type AdminHandler struct {
	board    *board.Board
	sessions *session.Manager
	log      *zap.Logger
}

func NewAdminHandler(b *board.Board, sessions *session.Manager, log *zap.Logger) *AdminHandler {
	return &AdminHandler{board: b, sessions: sessions, log: log}
}

func (h *AdminHandler) HandleLoginPage(ctx *fiber.Ctx) error {
	return render(ctx, h.sessions, "login", fiber.Map{"Title": "Admin login", "Role": "Admin", "Action": "/admin/login"})
}

func (h *AdminHandler) HandleLogin(ctx *fiber.Ctx) error {
	form := loginForm{}
	if err := ctx.BodyParser(&form); err != nil {
		h.log.Debug("could not parse admin login form", zap.Error(err))
	}

	if err := h.board.AdminLogin(form.Username, form.Password); err != nil {
		h.log.Info("admin login failed", zap.String("ip", ctx.IP()))
		return flashAndRedirect(ctx, h.sessions, session.Danger, msgInvalidCredentials, "/admin/login")
	}

	err := h.sessions.Update(ctx, func(st *session.State) {
		st.Admin = true
		st.AddFlash(session.Success, "Logged in as Admin")
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/admin/dashboard")
}

// HandleLogout drops the admin flag and keeps any provider login.
func (h *AdminHandler) HandleLogout(ctx *fiber.Ctx) error {
	err := h.sessions.Update(ctx, func(st *session.State) {
		st.Admin = false
		st.AddFlash(session.Info, msgLoggedOut)
	})
	if err != nil {
		return err
	}
	return ctx.Redirect("/index")
}

func (h *AdminHandler) HandleDashboard(ctx *fiber.Ctx) error {
	return render(ctx, h.sessions, "dashboard", fiber.Map{
		"Title":   "Admin dashboard",
		"History": h.board.History(),
	})
}
