package mocks

import (
	"context"
	"io"

	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
	"socialgram-backend/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a testify mock for ports.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id valueobjects.AccountID) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetMany(ctx context.Context, ids []string) (map[string]*entities.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, id valueobjects.AccountID, bio, profilePic string) (*entities.Account, error) {
	args := m.Called(ctx, id, bio, profilePic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Search(ctx context.Context, query string, limit int) ([]*entities.Account, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAll(ctx context.Context, limit int) ([]*entities.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Follow(ctx context.Context, actorID, targetID valueobjects.AccountID) error {
	args := m.Called(ctx, actorID, targetID)
	return args.Error(0)
}

func (m *MockAccountRepository) Unfollow(ctx context.Context, actorID, targetID valueobjects.AccountID) error {
	args := m.Called(ctx, actorID, targetID)
	return args.Error(0)
}

// MockPostRepository is a testify mock for ports.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *entities.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

func (m *MockPostRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Post, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Post), args.Error(1)
}

func (m *MockPostRepository) GetByOwner(ctx context.Context, ownerID valueobjects.AccountID, offset, limit int) ([]*entities.Post, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Post), args.Error(1)
}

func (m *MockPostRepository) GetByOwners(ctx context.Context, ownerIDs []string, offset, limit int) ([]*entities.Post, error) {
	args := m.Called(ctx, ownerIDs, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Post), args.Error(1)
}

func (m *MockPostRepository) GetTimeline(ctx context.Context, offset, limit int) ([]*entities.Post, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Post), args.Error(1)
}

func (m *MockPostRepository) UpdateCaption(ctx context.Context, id valueobjects.PostID, caption string) (*entities.Post, error) {
	args := m.Called(ctx, id, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id valueobjects.PostID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) AddLike(ctx context.Context, postID valueobjects.PostID, accountID string) (*entities.Post, bool, error) {
	args := m.Called(ctx, postID, accountID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.Post), args.Bool(1), args.Error(2)
}

func (m *MockPostRepository) RemoveLike(ctx context.Context, postID valueobjects.PostID, accountID string) (*entities.Post, bool, error) {
	args := m.Called(ctx, postID, accountID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entities.Post), args.Bool(1), args.Error(2)
}

func (m *MockPostRepository) AppendComment(ctx context.Context, postID valueobjects.PostID, comment entities.Comment) (*entities.Post, error) {
	args := m.Called(ctx, postID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Post), args.Error(1)
}

// MockPopularityIndex is a testify mock for ports.PopularityIndex
type MockPopularityIndex struct {
	mock.Mock
}

func (m *MockPopularityIndex) Seed(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPopularityIndex) Increment(ctx context.Context, postID string, delta int) error {
	args := m.Called(ctx, postID, delta)
	return args.Error(0)
}

func (m *MockPopularityIndex) Remove(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPopularityIndex) Top(ctx context.Context, offset, count int) ([]string, error) {
	args := m.Called(ctx, offset, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockMediaStore is a testify mock for ports.MediaStore
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Store(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, body)
	return args.String(0), args.Error(1)
}

// MockEventBus is a testify mock for ports.EventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventBus) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}
