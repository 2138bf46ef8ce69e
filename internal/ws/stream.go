package ws

import (
	"context"
	"errors"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"
)

// StreamWebSocket upgrades to WebSocket and runs the provided streamer
// with a context that cancels when the client disconnects.
func StreamWebSocket(c fiber.Ctx, streamer func(ctx context.Context, conn *websocket.Conn) error) error {
	type requestCtxProvider interface {
		RequestCtx() *fasthttp.RequestCtx
	}

	provider, ok := any(c).(requestCtxProvider)
	if !ok {
		return fiber.ErrInternalServerError
	}

	return Upgrader.Upgrade(provider.RequestCtx(), func(conn *websocket.Conn) {
		defer conn.Close()

		closed := make(chan struct{})
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					close(closed)
					return
				}
			}
		}()

		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-closed
			cancel()
		}()

		// writes to an already-gone client fail silently below
		err := streamer(streamCtx, conn)
		if err != nil && !errors.Is(err, context.Canceled) {
			_ = WriteStatus(conn, "error", "live stream failed")
		}

		_ = WriteStatus(conn, "info", "live stream ended")
	})
}
