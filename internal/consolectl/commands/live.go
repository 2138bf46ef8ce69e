package commands

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fasthttp/websocket"
)

// RunLive attaches to a session's live WebSocket and prints every frame
// until interrupted.
func RunLive(args []string) error {
	fs := flag.NewFlagSet("live", flag.ContinueOnError)
	base := baseFlag(fs)
	sessionID := fs.String("session", "", "session id to attach to")
	token := fs.String("token", "", "operator token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *sessionID == "" || *token == "" {
		return fmt.Errorf("live: --session and --token are required")
	}

	wsBase := strings.Replace(*base, "http", "ws", 1)
	endpoint := fmt.Sprintf(
		"%s/console/sessions/%s/live?authorization=%s",
		wsBase,
		*sessionID,
		url.QueryEscape(*token),
	)

	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return fmt.Errorf("could not attach to session: %w", err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	frames := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			frames <- data
		}
	}()

	for {
		select {
		case data := <-frames:
			fmt.Println(string(data))
		case err := <-readErr:
			return err
		case <-interrupt:
			return nil
		}
	}
}
