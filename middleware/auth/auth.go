package auth

import (
	"strings"

	"github.com/acikkaynak/needs-board-go/session"
	"github.com/gofiber/fiber/v2"
)

const (
	ApiKeyHeaderName = "X-Api-Key"

	claimsLocal = "claims"
)

// New guards the pprof endpoints with the configured API key. An empty key
// disables them entirely.
func New(apiKey string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !strings.Contains(ctx.Path(), "pprof") {
			return ctx.Next()
		}

		if apiKey == "" || ctx.Get(ApiKeyHeaderName) != apiKey {
			return ctx.SendStatus(fiber.StatusUnauthorized)
		}

		return ctx.Next()
	}
}

// Gate describes where a rejected caller is sent and what they are told.
type Gate struct {
	Redirect string
	Message  string
}

// RequireAdmin lets only sessions with the admin flag through.
func RequireAdmin(sessions *session.Manager, gate Gate) fiber.Handler {
	return requireClaims(sessions, gate, func(c session.Claims) bool { return c.Admin })
}

// RequireProvider lets only sessions logged in as a provider through.
func RequireProvider(sessions *session.Manager, gate Gate) fiber.Handler {
	return requireClaims(sessions, gate, session.Claims.IsProvider)
}

func requireClaims(sessions *session.Manager, gate Gate, allowed func(session.Claims) bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, err := sessions.Claims(ctx)
		if err != nil {
			return err
		}

		if !allowed(claims) {
			if err := sessions.Flash(ctx, session.Danger, gate.Message); err != nil {
				return err
			}
			return ctx.Redirect(gate.Redirect)
		}

		ctx.Locals(claimsLocal, claims)
		return ctx.Next()
	}
}

// Claims returns the claims stored by a gate earlier in the chain.
func Claims(ctx *fiber.Ctx) session.Claims {
	claims, _ := ctx.Locals(claimsLocal).(session.Claims)
	return claims
}
