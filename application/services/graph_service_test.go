package services

import (
	"context"
	"testing"

	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
	pkgerrors "socialgram-backend/pkg/errors"
	"socialgram-backend/tests/fixtures"
	"socialgram-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGraphService_Follow_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockEventBus := new(mocks.MockEventBus)

	actor := fixtures.NewAccountBuilder().WithUsername("actor").MustBuild()
	target := fixtures.NewAccountBuilder().WithUsername("target").MustBuild()

	mockAccountRepo.On("GetByID", ctx, actor.ID()).Return(actor, nil)
	mockAccountRepo.On("GetByID", ctx, target.ID()).Return(target, nil)
	mockAccountRepo.On("Follow", ctx, actor.ID(), target.ID()).Return(nil)
	mockEventBus.On("Publish", ctx, mock.AnythingOfType("events.AccountFollowed")).Return(nil)

	service := NewGraphService(mockAccountRepo, mockEventBus, zap.NewNop())

	// Act
	err := service.Follow(ctx, actor.ID().String(), target.ID().String())

	// Assert
	require.NoError(t, err)
	mockAccountRepo.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestGraphService_Follow_Self(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	actor := fixtures.NewAccountBuilder().MustBuild()
	mockAccountRepo.On("GetByID", ctx, actor.ID()).Return(actor, nil)

	service := NewGraphService(mockAccountRepo, nil, zap.NewNop())

	err := service.Follow(ctx, actor.ID().String(), actor.ID().String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsInvalidOperation(err))
	assert.Contains(t, err.Error(), "you cannot follow yourself")
	mockAccountRepo.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
}

func TestGraphService_Follow_AlreadyFollowing(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	target := fixtures.NewAccountBuilder().MustBuild()
	actor := fixtures.NewAccountBuilder().
		WithFollowing(target.ID().String()).
		MustBuild()

	mockAccountRepo.On("GetByID", ctx, actor.ID()).Return(actor, nil)
	mockAccountRepo.On("GetByID", ctx, target.ID()).Return(target, nil)

	service := NewGraphService(mockAccountRepo, nil, zap.NewNop())

	err := service.Follow(ctx, actor.ID().String(), target.ID().String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Contains(t, err.Error(), "already following this user")
	mockAccountRepo.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
}

func TestGraphService_Follow_TargetMissing(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	actor := fixtures.NewAccountBuilder().MustBuild()
	missing := valueobjects.NewAccountID()

	mockAccountRepo.On("GetByID", ctx, actor.ID()).Return(actor, nil)
	mockAccountRepo.On("GetByID", ctx, missing).Return(nil, pkgerrors.NewNotFoundError("account"))

	service := NewGraphService(mockAccountRepo, nil, zap.NewNop())

	err := service.Follow(ctx, actor.ID().String(), missing.String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	mockAccountRepo.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
}

func TestGraphService_Unfollow_Success(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockEventBus := new(mocks.MockEventBus)

	target := fixtures.NewAccountBuilder().MustBuild()
	actor := fixtures.NewAccountBuilder().
		WithFollowing(target.ID().String()).
		MustBuild()

	mockAccountRepo.On("GetByID", ctx, actor.ID()).Return(actor, nil)
	mockAccountRepo.On("GetByID", ctx, target.ID()).Return(target, nil)
	mockAccountRepo.On("Unfollow", ctx, actor.ID(), target.ID()).Return(nil)
	mockEventBus.On("Publish", ctx, mock.AnythingOfType("events.AccountUnfollowed")).Return(nil)

	service := NewGraphService(mockAccountRepo, mockEventBus, zap.NewNop())

	err := service.Unfollow(ctx, actor.ID().String(), target.ID().String())

	require.NoError(t, err)
	mockAccountRepo.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestGraphService_Unfollow_NotFollowing(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	actor := fixtures.NewAccountBuilder().MustBuild()
	target := fixtures.NewAccountBuilder().MustBuild()

	mockAccountRepo.On("GetByID", ctx, actor.ID()).Return(actor, nil)
	mockAccountRepo.On("GetByID", ctx, target.ID()).Return(target, nil)

	service := NewGraphService(mockAccountRepo, nil, zap.NewNop())

	err := service.Unfollow(ctx, actor.ID().String(), target.ID().String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsInvalidOperation(err))
	assert.Contains(t, err.Error(), "you are not following this user")
	mockAccountRepo.AssertNotCalled(t, "Unfollow", mock.Anything, mock.Anything, mock.Anything)
}

func TestGraphService_Followers_JoinsSummaries(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	known := fixtures.NewAccountBuilder().WithUsername("known").MustBuild()
	ghostID := valueobjects.NewAccountID().String()
	account := fixtures.NewAccountBuilder().
		WithFollowers(known.ID().String(), ghostID).
		MustBuild()

	mockAccountRepo.On("GetByID", ctx, account.ID()).Return(account, nil)
	mockAccountRepo.On("GetMany", ctx, []string{known.ID().String(), ghostID}).
		Return(map[string]*entities.Account{known.ID().String(): known}, nil)

	service := NewGraphService(mockAccountRepo, nil, zap.NewNop())

	followers, err := service.Followers(ctx, account.ID().String())

	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "known", followers[0].Username)
	// A deleted follower degrades to a bare ID entry
	assert.Equal(t, ghostID, followers[1].ID)
	assert.Empty(t, followers[1].Username)
}

func TestGraphService_Following_JoinsSummaries(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	followed := fixtures.NewAccountBuilder().WithUsername("followed").MustBuild()
	account := fixtures.NewAccountBuilder().
		WithFollowing(followed.ID().String()).
		MustBuild()

	mockAccountRepo.On("GetByID", ctx, account.ID()).Return(account, nil)
	mockAccountRepo.On("GetMany", ctx, []string{followed.ID().String()}).
		Return(map[string]*entities.Account{followed.ID().String(): followed}, nil)

	service := NewGraphService(mockAccountRepo, nil, zap.NewNop())

	following, err := service.Following(ctx, account.ID().String())

	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "followed", following[0].Username)
}

func TestGraphService_Follow_InvalidID(t *testing.T) {
	ctx := context.Background()
	service := NewGraphService(new(mocks.MockAccountRepository), nil, zap.NewNop())

	err := service.Follow(ctx, "bad-id", valueobjects.NewAccountID().String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
