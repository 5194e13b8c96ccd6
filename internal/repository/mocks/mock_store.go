package mocks

import (
	"context"

	"dafoerum/internal/model"
	"dafoerum/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

var _ repository.Store = (*MockStore)(nil)

func (m *MockStore) NextID(ctx context.Context, kind string) (uint32, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *MockStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockStore) InsertCategory(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStore) CategoryExists(ctx context.Context, id uint32) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) InsertForum(ctx context.Context, categoryID uint32, f *model.Forum) error {
	args := m.Called(ctx, categoryID, f)
	return args.Error(0)
}

func (m *MockStore) FindForum(ctx context.Context, id uint32) (*model.Forum, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.Forum), args.String(1), args.Error(2)
}

func (m *MockStore) CreateThread(ctx context.Context, t *model.Thread, origin *model.Post) error {
	args := m.Called(ctx, t, origin)
	return args.Error(0)
}

func (m *MockStore) FindThread(ctx context.Context, id uint32) (*model.Thread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Thread), args.Error(1)
}

func (m *MockStore) ListThreads(ctx context.Context, forumID uint32) ([]model.Thread, error) {
	args := m.Called(ctx, forumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Thread), args.Error(1)
}

func (m *MockStore) CountThreads(ctx context.Context, forumID uint32) (int64, error) {
	args := m.Called(ctx, forumID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CreatePost(ctx context.Context, p *model.Post, forumID uint32) error {
	args := m.Called(ctx, p, forumID)
	return args.Error(0)
}

func (m *MockStore) FindPost(ctx context.Context, id uint32) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockStore) ListPosts(ctx context.Context, threadID uint32) ([]model.Post, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockStore) LatestPosts(ctx context.Context, limit int) ([]model.Post, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockStore) LatestPostOf(ctx context.Context, threadID uint32) (*model.Post, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockStore) CountPosts(ctx context.Context, threadID uint32) (int64, error) {
	args := m.Called(ctx, threadID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CountForumPosts(ctx context.Context, forumID uint32) (int64, error) {
	args := m.Called(ctx, forumID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockStore) FindAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockStore) ListAttachments(ctx context.Context, postID uint32) ([]model.Attachment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockStore) DeleteAttachment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
