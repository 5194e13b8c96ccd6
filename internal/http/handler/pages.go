package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"dafoerum/internal/http/middleware"
	"dafoerum/internal/service"
	"dafoerum/internal/web"
)

// Messages shown above a rejected form.
const (
	msgEmptySubject   = "Subject cannot be empty!"
	msgEmptyContent   = "Post content cannot be empty!"
	msgSubjectTooLong = "Subject is too long!"
	msgContentTooLong = "Post content is too long!"
)

const (
	latestPostsOnPage = service.DefaultLatestPosts
	// A rejected form is rendered again with this status.
	formUnprocessable = fiber.StatusUnprocessableEntity
)

// Pages renders the server-side HTML pages.
type Pages struct {
	forums     service.ForumService
	log        *slog.Logger
	reloadPort int
}

// NewPages creates the page handlers. A non-zero reloadPort adds the hot
// reload script to every page.
func NewPages(forums service.ForumService, logger *slog.Logger, reloadPort int) *Pages {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pages{forums: forums, log: logger, reloadPort: reloadPort}
}

func (p *Pages) render(c *fiber.Ctx, status int, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Page"] = web.Page{Title: title, Path: c.Path(), ReloadPort: p.reloadPort}
	return c.Status(status).Render(name, data, web.LayoutName)
}

func (p *Pages) message(c *fiber.Ctx, status int, heading, detail string) error {
	return p.render(c, status, web.PageMessage, heading, fiber.Map{"Heading": heading, "Detail": detail})
}

// failure renders the error page for a service error.
func (p *Pages) failure(c *fiber.Ctx, err error) error {
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		return p.message(c, fiber.StatusNotFound, "Not found!", nf.Error())
	}
	p.log.Error("page failed",
		slog.String("path", c.Path()),
		slog.String("request_id", middleware.RequestIDFromCtx(c)),
		slog.String("error", err.Error()),
	)
	return p.message(c, fiber.StatusInternalServerError, "Error occured!", "Please try again later.")
}

// Home renders the front page.
func (p *Pages) Home() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return p.render(c, fiber.StatusOK, web.PageHome, "", nil)
	}
}

// Latest renders the newest posts.
func (p *Pages) Latest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		posts, err := p.forums.LatestPosts(c.UserContext(), latestPostsOnPage)
		if err != nil {
			p.log.Error("latest posts failed", slog.String("request_id", middleware.RequestIDFromCtx(c)), slog.String("error", err.Error()))
			return p.render(c, fiber.StatusOK, web.PageLatest, "Latest Posts", fiber.Map{"LoadError": true})
		}
		return p.render(c, fiber.StatusOK, web.PageLatest, "Latest Posts", fiber.Map{"Posts": posts})
	}
}

// Forums renders every category with its forums, their counts and latest activity.
func (p *Pages) Forums() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		categories, err := p.forums.ListCategories(ctx)
		if err != nil {
			return p.failure(c, err)
		}

		views := make([]web.CategoryView, 0, len(categories))
		for _, cat := range categories {
			view := web.CategoryView{Category: cat, Rows: make([]web.ForumRow, 0, len(cat.Forums))}
			for _, f := range cat.Forums {
				row := web.ForumRow{Forum: f}
				stats, err := p.forums.ForumStats(ctx, f.ID)
				if err != nil {
					return p.failure(c, err)
				}
				row.Stats = *stats
				if f.LatestThreadID != 0 {
					latest, err := p.forums.LatestActivity(ctx, f.LatestThreadID)
					if err != nil {
						return p.failure(c, err)
					}
					row.Latest = latest
				}
				view.Rows = append(view.Rows, row)
			}
			views = append(views, view)
		}

		return p.render(c, fiber.StatusOK, web.PageForums, "Forums", fiber.Map{"Categories": views})
	}
}

// Forum renders a forum's thread list with the create-thread form.
func (p *Pages) Forum() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return p.message(c, fiber.StatusBadRequest, "Invalid id!", "")
		}
		return p.forumPage(c, fiber.StatusOK, id, web.Form{})
	}
}

func (p *Pages) forumPage(c *fiber.Ctx, status int, id uint32, form web.Form) error {
	ctx := c.UserContext()
	forum, err := p.forums.GetForum(ctx, id)
	if err != nil {
		return p.failure(c, err)
	}
	threads, err := p.forums.ListThreads(ctx, id)
	if err != nil {
		return p.failure(c, err)
	}
	return p.render(c, status, web.PageForum, forum.Forum.Name, fiber.Map{
		"Forum":   forum,
		"Threads": threads,
		"Form":    form,
	})
}

// CreateThread handles the create-thread form and redirects to the new thread.
func (p *Pages) CreateThread() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return p.message(c, fiber.StatusBadRequest, "Invalid id!", "")
		}

		form := web.Form{Subject: c.FormValue("subject"), Content: c.FormValue("post_content")}
		thread, err := p.forums.CreateThread(c.UserContext(), id, form.Subject, form.Content)
		if err != nil {
			if msg, ok := formMessage(err); ok {
				form.Error = msg
				return p.forumPage(c, formUnprocessable, id, form)
			}
			return p.failure(c, err)
		}
		return c.Redirect(fmt.Sprintf("/thread/%d", thread.ID), fiber.StatusSeeOther)
	}
}

// Thread renders a thread's posts with the reply form.
func (p *Pages) Thread() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return p.message(c, fiber.StatusBadRequest, "Invalid id!", "")
		}
		return p.threadPage(c, fiber.StatusOK, id, web.Form{})
	}
}

func (p *Pages) threadPage(c *fiber.Ctx, status int, id uint32, form web.Form) error {
	ctx := c.UserContext()
	thread, err := p.forums.GetThread(ctx, id)
	if err != nil {
		return p.failure(c, err)
	}
	forum, err := p.forums.GetForum(ctx, thread.ForumID)
	if err != nil {
		return p.failure(c, err)
	}
	posts, err := p.forums.ListPosts(ctx, id)
	if err != nil {
		return p.failure(c, err)
	}
	return p.render(c, status, web.PageThread, thread.Subject, fiber.Map{
		"Thread": thread,
		"Forum":  forum,
		"Posts":  posts,
		"Form":   form,
	})
}

// CreatePost handles the reply form and redirects to the new post.
func (p *Pages) CreatePost() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return p.message(c, fiber.StatusBadRequest, "Invalid id!", "")
		}

		form := web.Form{Content: c.FormValue("content")}
		post, err := p.forums.CreatePost(c.UserContext(), id, form.Content)
		if err != nil {
			if msg, ok := formMessage(err); ok {
				form.Error = msg
				return p.threadPage(c, formUnprocessable, id, form)
			}
			return p.failure(c, err)
		}
		return c.Redirect(fmt.Sprintf("/thread/%d#post-%d", id, post.ID), fiber.StatusSeeOther)
	}
}

// NotFound is the fallback for unknown pages. Unknown API paths keep the
// JSON error envelope.
func (p *Pages) NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return fiber.ErrNotFound
		}
		return p.message(c, fiber.StatusNotFound, "Page not found.", "")
	}
}

// formMessage returns the message shown for a validation error.
func formMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrEmptySubject):
		return msgEmptySubject, true
	case errors.Is(err, service.ErrEmptyContent):
		return msgEmptyContent, true
	case errors.Is(err, service.ErrSubjectTooLong):
		return msgSubjectTooLong, true
	case errors.Is(err, service.ErrContentTooLong):
		return msgContentTooLong, true
	}
	return "", false
}

