package credentials

import (
	"consolebridge/internal/models"

	"github.com/gofiber/fiber/v3"
)

func Routes(app fiber.Router) {
	credentials := app.Group("/credentials")

	credentials.Put("/:tenantID", submitHandler, models.AccountMiddleware)
	credentials.Get("/:tenantID", probeHandler, models.AccountMiddleware)
}
