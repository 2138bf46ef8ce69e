package sessions

import (
	"consolebridge/internal/models"

	"github.com/gofiber/fiber/v3"
)

func Routes(app fiber.Router) {
	sessions := app.Group("/sessions")

	// browsers cannot set headers on WebSocket upgrades, so the live
	// endpoint takes its token from a query parameter
	sessions.Get("/:id/live", liveHandler, models.OperatorWebSocketMiddleware)

	sessions.Post("/", openHandler, models.AccountMiddleware)
	sessions.Delete("/:id", closeHandler, models.AccountMiddleware)
	sessions.Get("/:id/events", eventsHandler, models.AccountMiddleware)
	sessions.Get("/:id/status", statusHandler, models.AccountMiddleware)
	sessions.Post("/:id/select", selectHandler, models.AccountMiddleware)
	sessions.Get("/:id/profile", profileHandler, models.AccountMiddleware)
}
