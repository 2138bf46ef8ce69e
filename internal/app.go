package internal

import (
	"log"
	"strings"

	"consolebridge/internal/credentials"
	"consolebridge/internal/db"
	"consolebridge/internal/env"
	"consolebridge/internal/events"
	"consolebridge/internal/operators"
	"consolebridge/internal/session"
	"consolebridge/internal/sessions"

	"github.com/gofiber/fiber/v3"
)

func SetupApp(deployment string, envRoot string, appVersion string) *fiber.App {
	app := fiber.New()

	env.Init(envRoot, appVersion)

	deploy := strings.TrimSpace(deployment)

	if err := db.InitDB(deploy); err != nil {
		log.Fatal("Could not connect to MongoDB")
		return nil
	}

	if err := db.InitCache(); err != nil {
		log.Fatal("Could not connect to Redis")
		return nil
	}

	if db.Events != nil {
		events.Em = events.NewEmitter(db.Events, deploy)
	} else {
		events.Em = nil
	}

	sessions.Reg = session.NewRegistry()

	console := app.Group("/console")

	console.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	console.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + env.VERSION)
	})

	operators.Routes(console)
	credentials.Routes(console)
	sessions.Routes(console)

	return app
}
