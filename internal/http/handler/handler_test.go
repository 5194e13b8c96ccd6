package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dafoerum/internal/model"
	repoMocks "dafoerum/internal/repository/mocks"
	"dafoerum/internal/service"
	serviceMocks "dafoerum/internal/service/mocks"
	"dafoerum/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	var pingErr error
	app := fiber.New()
	app.Get("/health", HealthCheck(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return pingErr
	}))

	t.Run("healthy", func(t *testing.T) {
		pingErr = nil

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		pingErr = errors.New("db error")

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/limited", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTooManyRequests, "slow down")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("secret internals")
	})

	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/limited", fiber.StatusTooManyRequests, "RATE_LIMITED"},
		{"/boom", fiber.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/missing", fiber.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "secret")
		})
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", &service.NotFoundError{Kind: "thread", ID: "7"}, 404, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("load: %w", service.ErrNotFound), 404, "NOT_FOUND"},
		{"empty content", service.ErrEmptyContent, 400, "EMPTY_CONTENT"},
		{"empty subject", service.ErrEmptySubject, 400, "EMPTY_SUBJECT"},
		{"empty name", service.ErrEmptyName, 400, "EMPTY_NAME"},
		{"content too long", service.ErrContentTooLong, 400, "CONTENT_TOO_LONG"},
		{"subject too long", service.ErrSubjectTooLong, 400, "SUBJECT_TOO_LONG"},
		{"attachments disabled", fmt.Errorf("put: %w", service.ErrAttachmentsDisabled), 503, "ATTACHMENTS_DISABLED"},
		{"unknown", errors.New("pq: connection refused"), 500, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return serviceError(c, tt.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Error.Code)
		})
	}
}

func TestGetForum(t *testing.T) {
	mockSvc := new(serviceMocks.MockForumService)
	app := fiber.New()
	app.Get("/api/forums/:id", GetForum(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.ForumWithCategory{Forum: model.Forum{ID: 3, Name: "Help"}, CategoryName: "General"}
		mockSvc.On("GetForum", mock.Anything, uint32(3)).Return(expected, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/forums/3", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.ForumWithCategory
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "General", result.CategoryName)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid ids", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-1", "4294967296"} {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/forums/"+id, nil))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, id)
			assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code, id)
		}
	})

	t.Run("ids above int32 are valid", func(t *testing.T) {
		for _, id := range []uint32{3000000000, 4294967295} {
			mockSvc.On("GetForum", mock.Anything, id).
				Return(nil, &service.NotFoundError{Kind: "forum", ID: fmt.Sprint(id)}).Once()

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/forums/%d", id), nil))

			assert.Equal(t, http.StatusNotFound, resp.StatusCode, id)
			assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code, id)
		}
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("GetForum", mock.Anything, uint32(9)).
			Return(nil, &service.NotFoundError{Kind: "forum", ID: "9"}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/forums/9", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		assert.Equal(t, "forum with id 9 doesn't exist in the database", body.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateCategoryAndForum(t *testing.T) {
	mockSvc := new(serviceMocks.MockForumService)
	app := fiber.New()
	app.Post("/api/categories", CreateCategory(mockSvc))
	app.Post("/api/categories/:id/forums", CreateForum(mockSvc))

	t.Run("category created", func(t *testing.T) {
		mockSvc.On("CreateCategory", mock.Anything, "General").
			Return(&model.Category{ID: 1, Name: "General", Forums: []model.Forum{}}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/categories", `{"name":"General"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/categories", `{"name":`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, resp).Error.Code)
	})

	t.Run("forum in missing category", func(t *testing.T) {
		mockSvc.On("CreateForum", mock.Anything, uint32(5), "Help").
			Return(nil, &service.NotFoundError{Kind: "category", ID: "5"}).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/categories/5/forums", `{"name":"Help"}`))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreateThread(t *testing.T) {
	mockSvc := new(serviceMocks.MockForumService)
	app := fiber.New()
	app.Post("/api/forums/:id/threads", CreateThread(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.Thread{ID: 4, OriginPostID: 10, Subject: "Hi", ForumID: 1}
		mockSvc.On("CreateThread", mock.Anything, uint32(1), "Hi", "first post").Return(expected, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/forums/1/threads", `{"subject":"Hi","content":"first post"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Thread
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, uint32(10), result.OriginPostID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty subject", func(t *testing.T) {
		mockSvc.On("CreateThread", mock.Anything, uint32(1), "", "body").Return(nil, service.ErrEmptySubject).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/forums/1/threads", `{"subject":"","content":"body"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "EMPTY_SUBJECT", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestCreatePost(t *testing.T) {
	mockSvc := new(serviceMocks.MockForumService)
	app := fiber.New()
	app.Post("/api/threads/:id/posts", CreatePost(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &model.Post{ID: 11, Content: "reply", ThreadID: 4, CreatedAt: time.Date(2025, 3, 7, 1, 12, 38, 0, time.UTC)}
		mockSvc.On("CreatePost", mock.Anything, uint32(4), "reply").Return(expected, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/threads/4/posts", `{"content":"reply"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Post
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, uint32(11), result.ID)
		assert.True(t, expected.CreatedAt.Equal(result.CreatedAt))
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty content", func(t *testing.T) {
		mockSvc.On("CreatePost", mock.Anything, uint32(4), "  ").Return(nil, service.ErrEmptyContent).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/threads/4/posts", `{"content":"  "}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "EMPTY_CONTENT", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestLatestPosts(t *testing.T) {
	mockSvc := new(serviceMocks.MockForumService)
	app := fiber.New()
	app.Get("/api/posts/latest", LatestPosts(mockSvc))

	t.Run("default limit", func(t *testing.T) {
		mockSvc.On("LatestPosts", mock.Anything, 10).Return([]model.Post{{ID: 2}, {ID: 1}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/latest", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result []model.Post
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result, 2)
		mockSvc.AssertExpectations(t)
	})

	t.Run("explicit limit", func(t *testing.T) {
		mockSvc.On("LatestPosts", mock.Anything, 3).Return([]model.Post{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/latest?limit=3", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/latest?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("LatestPosts", mock.Anything, 10).Return(nil, errors.New("store down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/latest", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Post("/api/posts/:id/attachments", UploadAttachment(mockSvc))

	newUpload := func() (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "test.txt")
		part.Write([]byte("hello world"))
		writer.Close()
		return body, writer.FormDataContentType()
	}

	t.Run("success", func(t *testing.T) {
		body, ct := newUpload()
		expected := &model.Attachment{ID: uuid.New().String(), PostID: 3, Filename: "test.txt"}
		mockSvc.On("Upload", mock.Anything, uint32(3), mock.Anything, "test.txt", mock.Anything, int64(11)).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/posts/3/attachments", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result model.Attachment
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/posts/3/attachments", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("storage disabled", func(t *testing.T) {
		body, ct := newUpload()
		mockSvc.On("Upload", mock.Anything, uint32(3), mock.Anything, "test.txt", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("storage upload failed: %w", service.ErrAttachmentsDisabled)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/posts/3/attachments", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "ATTACHMENTS_DISABLED", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestAttachments_StorageDisabled(t *testing.T) {
	svc := service.NewAttachmentService(storage.Disabled{}, new(repoMocks.MockStore), nil)
	app := fiber.New()
	app.Get("/api/posts/:id/attachments", ListAttachments(svc))
	app.Post("/api/posts/:id/attachments", UploadAttachment(svc))

	t.Run("list", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/99/attachments", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "ATTACHMENTS_DISABLED", decodeError(t, resp).Error.Code)
	})

	t.Run("upload to missing post", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "test.txt")
		part.Write([]byte("hello world"))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/posts/99/attachments", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "ATTACHMENTS_DISABLED", decodeError(t, resp).Error.Code)
	})
}

func TestDownloadAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Get("/api/attachments/:id", DownloadAttachment(mockSvc))

	t.Run("redirects to presigned url", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DownloadURL", mock.Anything, id, service.DefaultDownloadExpiry).
			Return("http://minio:9000/bucket/attachments/3/x.txt?sig=1", nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/attachments/"+id, nil))

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "http://minio:9000/bucket/attachments/3/x.txt?sig=1", resp.Header.Get("Location"))
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/attachments/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestDeleteAttachment(t *testing.T) {
	mockSvc := new(serviceMocks.MockAttachmentService)
	app := fiber.New()
	app.Delete("/api/attachments/:id", DeleteAttachment(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/attachments/"+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(&service.NotFoundError{Kind: "attachment", ID: id}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/api/attachments/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRegisterRoutes_LatestBeforeID(t *testing.T) {
	forums := new(serviceMocks.MockForumService)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Services{
		Forums:      forums,
		Attachments: new(serviceMocks.MockAttachmentService),
		Ping:        func(context.Context) error { return nil },
	})

	forums.On("LatestPosts", mock.Anything, 10).Return([]model.Post{}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/latest", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	forums.AssertExpectations(t)
}
