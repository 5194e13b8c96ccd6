package handler

import (
	"github.com/gofiber/fiber/v2"

	"dafoerum/internal/service"
)

// Services bundles what the routes need.
type Services struct {
	Forums      service.ForumService
	Attachments service.AttachmentService
	Ping        PingFunc
	Pages       *Pages
}

// RegisterRoutes attaches the operational endpoints, the JSON API under /api
// and the HTML pages to app. Register static files and the not-found
// fallback after calling it.
func RegisterRoutes(app *fiber.App, s Services) {
	app.Get("/health", HealthCheck(s.Ping))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	api.Get("/categories", ListCategories(s.Forums))
	api.Post("/categories", CreateCategory(s.Forums))
	api.Post("/categories/:id/forums", CreateForum(s.Forums))

	api.Get("/forums/:id", GetForum(s.Forums))
	api.Get("/forums/:id/stats", GetForumStats(s.Forums))
	api.Get("/forums/:id/threads", ListThreads(s.Forums))
	api.Post("/forums/:id/threads", CreateThread(s.Forums))

	api.Get("/threads/:id", GetThread(s.Forums))
	api.Get("/threads/:id/posts", ListPosts(s.Forums))
	api.Get("/threads/:id/latest", LatestActivity(s.Forums))
	api.Post("/threads/:id/posts", CreatePost(s.Forums))

	// /posts/latest before /posts/:id so "latest" is not parsed as an id.
	api.Get("/posts/latest", LatestPosts(s.Forums))
	api.Get("/posts/:id", GetPost(s.Forums))
	api.Get("/posts/:id/attachments", ListAttachments(s.Attachments))
	api.Post("/posts/:id/attachments", UploadAttachment(s.Attachments))

	api.Get("/attachments/:id", DownloadAttachment(s.Attachments))
	api.Delete("/attachments/:id", DeleteAttachment(s.Attachments))

	if s.Pages != nil {
		app.Get("/", s.Pages.Home())
		app.Get("/latest", s.Pages.Latest())
		app.Get("/forum", s.Pages.Forums())
		app.Get("/forum/:id", s.Pages.Forum())
		app.Post("/forum/:id", s.Pages.CreateThread())
		app.Get("/thread/:id", s.Pages.Thread())
		app.Post("/thread/:id", s.Pages.CreatePost())
	}
}
