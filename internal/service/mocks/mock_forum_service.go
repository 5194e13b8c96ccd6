package mocks

import (
	"context"

	"dafoerum/internal/model"
	"dafoerum/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockForumService struct {
	mock.Mock
}

var _ service.ForumService = (*MockForumService)(nil)

func (m *MockForumService) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockForumService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockForumService) CreateForum(ctx context.Context, categoryID uint32, name string) (*model.Forum, error) {
	args := m.Called(ctx, categoryID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Forum), args.Error(1)
}

func (m *MockForumService) GetForum(ctx context.Context, id uint32) (*model.ForumWithCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumWithCategory), args.Error(1)
}

func (m *MockForumService) ForumStats(ctx context.Context, id uint32) (*model.ForumStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ForumStats), args.Error(1)
}

func (m *MockForumService) ListThreads(ctx context.Context, forumID uint32) ([]model.ThreadSummary, error) {
	args := m.Called(ctx, forumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ThreadSummary), args.Error(1)
}

func (m *MockForumService) GetThread(ctx context.Context, id uint32) (*model.Thread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Thread), args.Error(1)
}

func (m *MockForumService) CreateThread(ctx context.Context, forumID uint32, subject, content string) (*model.Thread, error) {
	args := m.Called(ctx, forumID, subject, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Thread), args.Error(1)
}

func (m *MockForumService) LatestActivity(ctx context.Context, threadID uint32) (*model.LatestActivity, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LatestActivity), args.Error(1)
}

func (m *MockForumService) ListPosts(ctx context.Context, threadID uint32) ([]model.Post, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockForumService) CreatePost(ctx context.Context, threadID uint32, content string) (*model.Post, error) {
	args := m.Called(ctx, threadID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockForumService) GetPost(ctx context.Context, id uint32) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockForumService) LatestPosts(ctx context.Context, n int) ([]model.Post, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}
