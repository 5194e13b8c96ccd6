package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"dafoerum/internal/model"
	"dafoerum/internal/service"
	serviceMocks "dafoerum/internal/service/mocks"
	"dafoerum/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPagesApp(svc service.ForumService) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        web.New(time.UTC),
		ErrorHandler: ErrorHandler(),
	})
	RegisterRoutes(app, Services{
		Forums:      svc,
		Attachments: new(serviceMocks.MockAttachmentService),
		Pages:       NewPages(svc, nil, 0),
	})
	app.Use(NewPages(svc, nil, 0).NotFound())
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

var (
	testForum  = &model.ForumWithCategory{Forum: model.Forum{ID: 1, Name: "Announcements", LatestThreadID: 4}, CategoryName: "General Talk"}
	testThread = &model.Thread{ID: 4, OriginPostID: 10, Subject: "Greatest thread ever", ForumID: 1}
	testPosts  = []model.Post{
		{ID: 10, Content: "first", ThreadID: 4, CreatedAt: time.Date(2025, 3, 7, 1, 12, 38, 0, time.UTC)},
		{ID: 11, Content: "second", ThreadID: 4, CreatedAt: time.Date(2025, 3, 7, 1, 20, 0, 0, time.UTC)},
	}
)

func TestPages_Home(t *testing.T) {
	app := newPagesApp(new(serviceMocks.MockForumService))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, readBody(t, resp), "Welcome to Dafoerum!")
}

func TestPages_Latest(t *testing.T) {
	t.Run("lists posts", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("LatestPosts", mock.Anything, 10).Return([]model.Post{testPosts[1], testPosts[0]}, nil).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/latest", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Post #11")
		assert.Contains(t, body, "Post #10")
		svc.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("LatestPosts", mock.Anything, 10).Return(nil, errors.New("down")).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/latest", nil))

		assert.Contains(t, readBody(t, resp), "Posts couldn't be loaded!")
	})
}

func TestPages_Forums(t *testing.T) {
	svc := new(serviceMocks.MockForumService)
	svc.On("ListCategories", mock.Anything).Return([]model.Category{{
		ID:   1,
		Name: "General Talk",
		Forums: []model.Forum{
			{ID: 1, Name: "Announcements", LatestThreadID: 4},
			{ID: 2, Name: "Quiet"},
		},
	}}, nil).Once()
	svc.On("ForumStats", mock.Anything, uint32(1)).Return(&model.ForumStats{Threads: 1, Posts: 2}, nil).Once()
	svc.On("ForumStats", mock.Anything, uint32(2)).Return(&model.ForumStats{}, nil).Once()
	svc.On("LatestActivity", mock.Anything, uint32(4)).Return(&model.LatestActivity{Post: testPosts[1], Thread: *testThread}, nil).Once()
	app := newPagesApp(svc)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/forum", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `id="GeneralTalk"`)
	assert.Contains(t, body, "Greatest thread ever")
	assert.Contains(t, body, "No threads yet")
	svc.AssertExpectations(t)
}

func TestPages_Forum(t *testing.T) {
	t.Run("renders threads", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("GetForum", mock.Anything, uint32(1)).Return(testForum, nil).Once()
		svc.On("ListThreads", mock.Anything, uint32(1)).Return([]model.ThreadSummary{
			{Thread: *testThread, PostCount: 2, LatestPost: testPosts[1]},
		}, nil).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/forum/1", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, `href="/thread/4"`)
		assert.Contains(t, body, "Create Thread")
		svc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		app := newPagesApp(new(serviceMocks.MockForumService))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/forum/abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Invalid id!")
	})

	t.Run("unknown forum", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("GetForum", mock.Anything, uint32(9)).Return(nil, &service.NotFoundError{Kind: "forum", ID: "9"}).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/forum/9", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "forum with id 9 doesn&#39;t exist in the database")
	})
}

func TestPages_CreateThread(t *testing.T) {
	t.Run("redirects to new thread", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("CreateThread", mock.Anything, uint32(1), "Hello", "World").Return(&model.Thread{ID: 5}, nil).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(formRequest("/forum/1", url.Values{"subject": {"Hello"}, "post_content": {"World"}}))

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/thread/5", resp.Header.Get("Location"))
		svc.AssertExpectations(t)
	})

	t.Run("empty subject re-renders form", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("CreateThread", mock.Anything, uint32(1), "", "keep me").Return(nil, service.ErrEmptySubject).Once()
		svc.On("GetForum", mock.Anything, uint32(1)).Return(testForum, nil).Once()
		svc.On("ListThreads", mock.Anything, uint32(1)).Return([]model.ThreadSummary{}, nil).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(formRequest("/forum/1", url.Values{"subject": {""}, "post_content": {"keep me"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Subject cannot be empty!")
		assert.Contains(t, body, "keep me")
		svc.AssertExpectations(t)
	})
}

func TestPages_Thread(t *testing.T) {
	t.Run("renders posts", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("GetThread", mock.Anything, uint32(4)).Return(testThread, nil).Once()
		svc.On("GetForum", mock.Anything, uint32(1)).Return(testForum, nil).Once()
		svc.On("ListPosts", mock.Anything, uint32(4)).Return(testPosts, nil).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/thread/4", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Origin post id: 10")
		assert.Contains(t, body, `id="post-11"`)
		assert.Contains(t, body, `aria-current="page">Forums`)
		svc.AssertExpectations(t)
	})

	t.Run("reply redirects to post", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("CreatePost", mock.Anything, uint32(4), "nice").Return(&model.Post{ID: 12, ThreadID: 4}, nil).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(formRequest("/thread/4", url.Values{"content": {"nice"}}))

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/thread/4#post-12", resp.Header.Get("Location"))
		svc.AssertExpectations(t)
	})

	t.Run("empty reply re-renders thread", func(t *testing.T) {
		svc := new(serviceMocks.MockForumService)
		svc.On("CreatePost", mock.Anything, uint32(4), "").Return(nil, service.ErrEmptyContent).Once()
		svc.On("GetThread", mock.Anything, uint32(4)).Return(testThread, nil).Once()
		svc.On("GetForum", mock.Anything, uint32(1)).Return(testForum, nil).Once()
		svc.On("ListPosts", mock.Anything, uint32(4)).Return(testPosts, nil).Once()
		app := newPagesApp(svc)

		resp, _ := app.Test(formRequest("/thread/4", url.Values{"content": {""}}))

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Post content cannot be empty!")
		svc.AssertExpectations(t)
	})
}

func TestPages_NotFound(t *testing.T) {
	app := newPagesApp(new(serviceMocks.MockForumService))

	t.Run("html page", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/wiki", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Page not found.")
	})

	t.Run("api keeps json", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/wiki", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})
}

func TestFormMessage(t *testing.T) {
	msg, ok := formMessage(service.ErrEmptyContent)
	assert.True(t, ok)
	assert.Equal(t, "Post content cannot be empty!", msg)

	_, ok = formMessage(errors.New("other"))
	assert.False(t, ok)
}
