package main

import (
	"log/slog"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dafoerum/docs"
	"dafoerum/internal/config"
	"dafoerum/internal/http/handler"
	"dafoerum/internal/http/middleware"
	"dafoerum/internal/metrics"
	"dafoerum/internal/service"
	"dafoerum/internal/web"
)

// attachmentBodyLimit bounds multipart uploads.
const attachmentBodyLimit = 32 << 20

type appDeps struct {
	cfg         *config.AppConfig
	log         *slog.Logger
	registry    *prometheus.Registry
	metrics     *metrics.Forum
	limiter     middleware.WriteLimiter
	forums      service.ForumService
	attachments service.AttachmentService
	ping        handler.PingFunc
	reloadPort  int
}

// newApp builds the fiber application with middleware, API, pages and assets.
func newApp(d appDeps) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "dafoerum",
		ErrorHandler:          handler.ErrorHandler(),
		Views:                 web.New(d.cfg.Location()),
		BodyLimit:             attachmentBodyLimit,
		DisableStartupMessage: !d.cfg.IsDevelopment(),
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(d.registry)
	if err != nil {
		return nil, err
	}

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(d.log))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	app.Use(middleware.TrimTrailingSlash())
	app.Use(middleware.RateLimitWrites(middleware.RateLimitConfig{
		Limiter: d.limiter,
		RPS:     d.cfg.Redis.WriteRate,
		Burst:   d.cfg.Redis.WriteBurst,
		Logger:  d.log,
		Metrics: d.metrics,
	}))

	pages := handler.NewPages(d.forums, d.log, d.reloadPort)
	handler.RegisterRoutes(app, handler.Services{
		Forums:      d.forums,
		Attachments: d.attachments,
		Ping:        d.ping,
		Pages:       pages,
	})

	app.Get("/pkg/dafoerum.css", func(c *fiber.Ctx) error {
		return c.SendFile(d.cfg.Site.StyleFile)
	})
	app.Static("/", d.cfg.Site.Root)
	app.Use(pages.NotFound())

	return app, nil
}
