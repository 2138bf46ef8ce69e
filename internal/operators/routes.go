package operators

import "github.com/gofiber/fiber/v3"

func Routes(app fiber.Router) {
	operators := app.Group("/operators")

	operators.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	operators.Post("/login", loginHandler)
}
