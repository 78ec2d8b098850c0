package app

import (
	"errors"
	"fmt"

	"github.com/acikkaynak/needs-board-go/board"
	"github.com/acikkaynak/needs-board-go/handler"
	"github.com/acikkaynak/needs-board-go/middleware/auth"
	"github.com/acikkaynak/needs-board-go/session"
	"github.com/acikkaynak/needs-board-go/views"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	Board         *board.Board
	Sessions      *session.Manager
	Gatherer      prometheus.Gatherer
	Logger        *zap.Logger
	SessionSecret string
	APIKey        string
}

type Application struct {
	app      *fiber.App
	board    *board.Board
	sessions *session.Manager
	gatherer prometheus.Gatherer
	log      *zap.Logger
}

func New(opts Options) *Application {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	app := fiber.New(fiber.Config{
		Views:                 views.New(),
		ViewsLayout:           views.Layout,
		ErrorHandler:          errorHandler(log),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New())
	app.Use(session.EncryptCookies(opts.SessionSecret))
	app.Use(auth.New(opts.APIKey))
	app.Use(pprof.New())

	a := &Application{
		app:      app,
		board:    opts.Board,
		sessions: opts.Sessions,
		gatherer: gatherer,
		log:      log,
	}
	a.Register()
	return a
}

func (a *Application) Register() {
	needsHandler := handler.NewNeedsHandler(a.board, a.sessions, a.log)
	adminHandler := handler.NewAdminHandler(a.board, a.sessions, a.log)
	providerHandler := handler.NewProviderHandler(a.board, a.sessions, a.log)

	a.app.Get("/healthcheck", handler.HealthCheck)
	a.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})))
	a.app.Get("/monitor", monitor.New())

	a.app.Get("/", handler.Welcome(a.sessions))
	a.app.Get("/index", needsHandler.HandleList)
	a.app.Post("/add", needsHandler.HandleCreate)
	a.app.Post("/complete/:id", needsHandler.HandleComplete)
	a.app.Post("/delete/:id", needsHandler.HandleDelete)

	admin := a.app.Group("/admin")
	admin.Get("/login", adminHandler.HandleLoginPage)
	admin.Post("/login", adminHandler.HandleLogin)
	admin.Get("/logout", adminHandler.HandleLogout)
	admin.Get("/dashboard",
		auth.RequireAdmin(a.sessions, auth.Gate{Redirect: "/admin/login", Message: handler.MsgAdminRequired}),
		adminHandler.HandleDashboard)

	provider := a.app.Group("/provider")
	provider.Get("/login", providerHandler.HandleLoginPage)
	provider.Post("/login", providerHandler.HandleLogin)
	provider.Get("/logout", providerHandler.HandleLogout)
	provider.Get("/dashboard",
		auth.RequireProvider(a.sessions, auth.Gate{Redirect: "/provider/login", Message: handler.MsgProviderRequired}),
		providerHandler.HandleDashboard)
}

// Fiber exposes the underlying app, mostly for tests.
func (a *Application) Fiber() *fiber.App {
	return a.app
}

func (a *Application) Listen(port int) error {
	return a.app.Listen(fmt.Sprintf(":%d", port))
}

func (a *Application) Shutdown() error {
	return a.app.Shutdown()
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := fiber.ErrInternalServerError.Message

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", ctx.Method()),
				zap.String("path", ctx.Path()),
				zap.Error(err),
			)
		}

		ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return ctx.Status(code).SendString(message)
	}
}
