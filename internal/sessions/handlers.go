package sessions

import (
	"context"
	"encoding/json"
	"strings"

	"consolebridge/internal/errmsg"
	"consolebridge/internal/models"
	"consolebridge/internal/session"
	"consolebridge/internal/utils"
	"consolebridge/internal/ws"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
)

// Reg holds every open viewing session. Set once in SetupApp.
var Reg *session.Registry

func openHandler(c fiber.Ctx) error {
	var body struct {
		TenantID  string `json:"tenantID"`
		ChannelID string `json:"channelID"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.SessionInvalidPayload)
	}

	body.TenantID = strings.TrimSpace(body.TenantID)
	body.ChannelID = strings.TrimSpace(body.ChannelID)
	if body.TenantID == "" || body.ChannelID == "" {
		return utils.StatusError(c, errmsg.SessionInvalidPayload)
	}

	var operator models.Operator
	utils.GetLocals(c, "operator", &operator)

	s, serr := Reg.Open(operator.Username, body.TenantID, body.ChannelID)
	if serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	return c.JSON(map[string]string{
		"sessionID": s.ID,
		"tenantID":  s.TenantID,
		"channelID": s.ChannelID,
	})
}

func closeHandler(c fiber.Ctx) error {
	Reg.Close(c.Params("id"))

	// closing twice, or closing an unknown id, is a no-op
	return c.JSON(map[string]string{"status": "closed"})
}

func eventsHandler(c fiber.Ctx) error {
	s, ok := Reg.Get(c.Params("id"))
	if !ok {
		return utils.StatusError(c, errmsg.SessionNotExists)
	}

	return c.JSON(map[string]any{
		"events":   s.Events(),
		"selected": s.Status().Selected,
	})
}

func statusHandler(c fiber.Ctx) error {
	s, ok := Reg.Get(c.Params("id"))
	if !ok {
		return utils.StatusError(c, errmsg.SessionNotExists)
	}

	return c.JSON(s.Status())
}

func selectHandler(c fiber.Ctx) error {
	s, ok := Reg.Get(c.Params("id"))
	if !ok {
		return utils.StatusError(c, errmsg.SessionNotExists)
	}

	var body struct {
		MessageID string `json:"messageID"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.StatusError(c, errmsg.SessionEventNotExists)
	}

	if serr := s.Select(body.MessageID); serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	return c.JSON(map[string]string{"selected": body.MessageID})
}

func profileHandler(c fiber.Ctx) error {
	s, ok := Reg.Get(c.Params("id"))
	if !ok {
		return utils.StatusError(c, errmsg.SessionNotExists)
	}

	record, serr := s.Profile()
	if serr != errmsg.EmptyStatusError {
		return utils.StatusError(c, serr)
	}

	c.Type("json", "utf-8")
	return c.Send(record)
}

// liveHandler streams the session's canonical events and connectivity
// flips to the console UI over a WebSocket.
func liveHandler(c fiber.Ctx) error {
	s, ok := Reg.Get(c.Params("id"))
	if !ok {
		return utils.StatusError(c, errmsg.SessionNotExists)
	}

	return ws.StreamWebSocket(c, func(ctx context.Context, conn *websocket.Conn) error {
		updates, unsubscribe := s.Subscribe()
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case u, ok := <-updates:
				if !ok {
					// session torn down
					return nil
				}
				if err := ws.WriteJSON(conn, u); err != nil {
					return err
				}
			}
		}
	})
}
