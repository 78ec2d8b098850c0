package handler

import (
	"errors"
	"fmt"

	"github.com/acikkaynak/needs-board-go/board"
	"github.com/acikkaynak/needs-board-go/needs"
	"github.com/acikkaynak/needs-board-go/session"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgMissingFields = "All fields including location are required!"
	msgAdminToDelete = "You must be admin to delete needs."
	msgDeleted       = "Need deleted successfully."
)

type NeedsHandler struct {
	board    *board.Board
	sessions *session.Manager
	log      *zap.Logger
}

func NewNeedsHandler(b *board.Board, sessions *session.Manager, log *zap.Logger) *NeedsHandler {
	return &NeedsHandler{board: b, sessions: sessions, log: log}
}

// HandleList renders the main board with every need and the provider roster.
func (h *NeedsHandler) HandleList(ctx *fiber.Ctx) error {
	return render(ctx, h.sessions, "index", fiber.Map{
		"Title":     "Board",
		"Needs":     h.board.Needs(needs.Filter{}),
		"Providers": h.board.Providers(),
	})
}

func (h *NeedsHandler) HandleCreate(ctx *fiber.Ctx) error {
	req := needs.CreateNeedRequest{}
	if err := ctx.BodyParser(&req); err != nil {
		h.log.Debug("could not parse need form", zap.Error(err))
		return flashAndRedirect(ctx, h.sessions, session.Danger, msgMissingFields, "/index")
	}

	n, err := h.board.Submit(ctx.UserContext(), req)
	if errors.Is(err, board.ErrValidation) {
		return flashAndRedirect(ctx, h.sessions, session.Danger, msgMissingFields, "/index")
	}
	if err != nil {
		return err
	}

	assigned := n.AssignedTo
	if assigned == "" {
		assigned = "None"
	}
	return flashAndRedirect(ctx, h.sessions, session.Success, fmt.Sprintf("Need submitted! Assigned to: %s", assigned), "/index")
}

// HandleComplete marks a need as done. Unknown or finished needs are ignored.
func (h *NeedsHandler) HandleComplete(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}

	h.board.Complete(ctx.UserContext(), int64(id))
	return ctx.Redirect("/index")
}

func (h *NeedsHandler) HandleDelete(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}

	claims, err := h.sessions.Claims(ctx)
	if err != nil {
		return err
	}

	_, err = h.board.Delete(ctx.UserContext(), claims, int64(id))
	if errors.Is(err, board.ErrForbidden) {
		return flashAndRedirect(ctx, h.sessions, session.Danger, msgAdminToDelete, "/index")
	}
	if err != nil {
		return err
	}

	return flashAndRedirect(ctx, h.sessions, session.Info, msgDeleted, "/index")
}
