// Package devreload serves the hot reload event stream used in development.
//
// Every process gets a random boot id. Pages subscribe to the stream on the
// reload port and receive the id first; when the server restarts the browser
// reconnects, sees a different id and reloads itself.
package devreload

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
)

// Path is the route of the event stream.
const Path = "/live_reload"

const keepAliveInterval = 15 * time.Second

// Server is the reload listener.
type Server struct {
	bootID    string
	app       *fiber.App
	log       *slog.Logger
	keepAlive time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a reload server with a fresh boot id.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		bootID:    uuid.NewString(),
		log:       logger,
		keepAlive: keepAliveInterval,
		done:      make(chan struct{}),
	}

	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.app.Use(cors.New())
	s.app.Get(Path, s.Handler())
	return s
}

// BootID identifies this process.
func (s *Server) BootID() string {
	return s.bootID
}

// Handler streams the boot event followed by keep-alive comments until the
// client goes away or the server shuts down.
func (s *Server) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			if err := writeEvent(w, "boot", s.bootID); err != nil {
				return
			}
			ticker := time.NewTicker(s.keepAlive)
			defer ticker.Stop()
			for {
				select {
				case <-s.done:
					return
				case <-ticker.C:
					if _, err := io.WriteString(w, ": ping\n\n"); err != nil {
						return
					}
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		})
		return nil
	}
}

func writeEvent(w *bufio.Writer, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

// Listen serves the stream on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("dev reload listening", slog.String("addr", addr), slog.String("boot_id", s.bootID))
	return s.app.Listen(addr)
}

// Shutdown ends open streams and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.app.ShutdownWithContext(ctx)
}
