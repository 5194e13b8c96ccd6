package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dafoerum/internal/service"
)

var errInvalidID = errors.New("invalid id")

// parseID reads a positive 32-bit id from the route parameter name.
func parseID(c *fiber.Ctx, name string) (uint32, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || n == 0 {
		return 0, errInvalidID
	}
	return uint32(n), nil
}

type nameRequest struct {
	Name string `json:"name" form:"name"`
}

type threadRequest struct {
	Subject string `json:"subject" form:"subject"`
	Content string `json:"content" form:"content"`
}

type postRequest struct {
	Content string `json:"content" form:"content"`
}

// ListCategories godoc
// @Summary List categories with their forums
// @Tags forum
// @Produce json
// @Success 200 {array} model.Category
// @Router /api/categories [get]
func ListCategories(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ListCategories(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Tags forum
// @Accept json
// @Produce json
// @Param body body nameRequest true "Category"
// @Success 201 {object} model.Category
// @Failure 400 {object} errorPayload
// @Router /api/categories [post]
func CreateCategory(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req nameRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		res, err := svc.CreateCategory(c.UserContext(), req.Name)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// CreateForum godoc
// @Summary Create a forum in a category
// @Tags forum
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body nameRequest true "Forum"
// @Success 201 {object} model.Forum
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/categories/{id}/forums [post]
func CreateForum(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req nameRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		res, err := svc.CreateForum(c.UserContext(), id, req.Name)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetForum godoc
// @Summary Get a forum with its category name
// @Tags forum
// @Produce json
// @Param id path int true "Forum ID"
// @Success 200 {object} model.ForumWithCategory
// @Failure 404 {object} errorPayload
// @Router /api/forums/{id} [get]
func GetForum(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.GetForum(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetForumStats godoc
// @Summary Count a forum's threads and posts
// @Tags forum
// @Produce json
// @Param id path int true "Forum ID"
// @Success 200 {object} model.ForumStats
// @Router /api/forums/{id}/stats [get]
func GetForumStats(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.ForumStats(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListThreads godoc
// @Summary List a forum's threads, most recently active first
// @Tags forum
// @Produce json
// @Param id path int true "Forum ID"
// @Success 200 {array} model.ThreadSummary
// @Failure 404 {object} errorPayload
// @Router /api/forums/{id}/threads [get]
func ListThreads(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.ListThreads(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateThread godoc
// @Summary Open a thread with its first post
// @Tags forum
// @Accept json
// @Produce json
// @Param id path int true "Forum ID"
// @Param body body threadRequest true "Thread"
// @Success 201 {object} model.Thread
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Router /api/forums/{id}/threads [post]
func CreateThread(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req threadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		res, err := svc.CreateThread(c.UserContext(), id, req.Subject, req.Content)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetThread godoc
// @Summary Get a thread
// @Tags forum
// @Produce json
// @Param id path int true "Thread ID"
// @Success 200 {object} model.Thread
// @Failure 404 {object} errorPayload
// @Router /api/threads/{id} [get]
func GetThread(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.GetThread(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListPosts godoc
// @Summary List a thread's posts, oldest first
// @Tags forum
// @Produce json
// @Param id path int true "Thread ID"
// @Success 200 {array} model.Post
// @Failure 404 {object} errorPayload
// @Router /api/threads/{id}/posts [get]
func ListPosts(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.ListPosts(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// LatestActivity godoc
// @Summary Latest post of a thread together with the thread
// @Tags forum
// @Produce json
// @Param id path int true "Thread ID"
// @Success 200 {object} model.LatestActivity
// @Failure 404 {object} errorPayload
// @Router /api/threads/{id}/latest [get]
func LatestActivity(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.LatestActivity(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreatePost godoc
// @Summary Reply to a thread
// @Tags forum
// @Accept json
// @Produce json
// @Param id path int true "Thread ID"
// @Param body body postRequest true "Post"
// @Success 201 {object} model.Post
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 429 {object} errorPayload
// @Router /api/threads/{id}/posts [post]
func CreatePost(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req postRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		}
		res, err := svc.CreatePost(c.UserContext(), id, req.Content)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetPost godoc
// @Summary Get a post
// @Tags forum
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errorPayload
// @Router /api/posts/{id} [get]
func GetPost(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.GetPost(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// LatestPosts godoc
// @Summary Newest posts across all threads
// @Tags forum
// @Produce json
// @Param limit query int false "Number of posts (default 10, max 100)"
// @Success 200 {array} model.Post
// @Failure 400 {object} errorPayload
// @Router /api/posts/latest [get]
func LatestPosts(svc service.ForumService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(service.DefaultLatestPosts)))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		res, err := svc.LatestPosts(c.UserContext(), limit)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListAttachments godoc
// @Summary List a post's attachments
// @Tags attachments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} model.Attachment
// @Failure 404 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/posts/{id}/attachments [get]
func ListAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.List(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadAttachment godoc
// @Summary Attach a file to a post
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Post ID"
// @Param file formData file true "File"
// @Success 201 {object} model.Attachment
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /api/posts/{id}/attachments [post]
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := svc.Upload(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// DownloadAttachment godoc
// @Summary Redirect to a short-lived download link
// @Tags attachments
// @Param id path string true "Attachment ID"
// @Success 302
// @Failure 404 {object} errorPayload
// @Router /api/attachments/{id} [get]
func DownloadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.DownloadURL(c.UserContext(), id, service.DefaultDownloadExpiry)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}

// DeleteAttachment godoc
// @Summary Delete an attachment
// @Tags attachments
// @Param id path string true "Attachment ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/attachments/{id} [delete]
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
