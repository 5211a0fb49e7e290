package services

import (
	"context"
	"testing"

	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
	"socialgram-backend/pkg/auth"
	pkgerrors "socialgram-backend/pkg/errors"
	"socialgram-backend/tests/fixtures"
	"socialgram-backend/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "test-secret"})
	require.NoError(t, err)
	return tokens
}

func TestAccountService_Register_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockEventBus := new(mocks.MockEventBus)
	tokens := newTestTokenService(t)

	mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*entities.Account")).Return(nil)
	mockEventBus.On("Publish", ctx, mock.AnythingOfType("events.AccountRegistered")).Return(nil)

	service := NewAccountService(mockAccountRepo, tokens, mockEventBus, zap.NewNop())

	// Act
	token, err := service.Register(ctx, "newuser", "NewUser@Example.com", "password123")

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "newuser", claims.Username)
	assert.NotEmpty(t, claims.UserID)
	mockAccountRepo.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	_, err := service.Register(ctx, "newuser", "", "password123")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "please provide username, email, and password")
	mockAccountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_Register_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*entities.Account")).
		Return(pkgerrors.NewConflictError("username or email already exists"))

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	_, err := service.Register(ctx, "taken", "taken@example.com", "password123")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestAccountService_Login_Success(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	account := fixtures.NewAccountBuilder().
		WithUsername("returning").
		WithPasswordHash(string(hash)).
		MustBuild()

	mockAccountRepo.On("GetByUsername", ctx, "returning").Return(account, nil)

	tokens := newTestTokenService(t)
	service := NewAccountService(mockAccountRepo, tokens, nil, zap.NewNop())

	token, view, err := service.Login(ctx, "returning", "password123")

	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, account.ID().String(), view.ID)
	assert.Equal(t, "returning", view.Username)
	assert.Equal(t, account.Email(), view.Email)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID().String(), claims.UserID)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	account := fixtures.NewAccountBuilder().
		WithUsername("returning").
		WithPasswordHash(string(hash)).
		MustBuild()

	mockAccountRepo.On("GetByUsername", ctx, "returning").Return(account, nil)

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	_, _, err = service.Login(ctx, "returning", "wrongpassword")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestAccountService_Login_UnknownUsername(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	mockAccountRepo.On("GetByUsername", ctx, "ghost").
		Return(nil, pkgerrors.NewNotFoundError("account"))

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	_, _, err := service.Login(ctx, "ghost", "password123")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestAccountService_Get_HidesEmail(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	account := fixtures.NewAccountBuilder().WithEmail("private@example.com").MustBuild()
	mockAccountRepo.On("GetByID", ctx, account.ID()).Return(account, nil)

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	view, err := service.Get(ctx, account.ID().String())

	require.NoError(t, err)
	assert.Equal(t, account.ID().String(), view.ID)
	assert.Empty(t, view.Email)
}

func TestAccountService_GetProfile_AnnotatesConnections(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	follower := fixtures.NewAccountBuilder().WithUsername("fan").MustBuild()
	followed := fixtures.NewAccountBuilder().WithUsername("idol").MustBuild()
	profile := fixtures.NewAccountBuilder().
		WithFollowers(follower.ID().String()).
		WithFollowing(followed.ID().String()).
		MustBuild()

	mockAccountRepo.On("GetByID", ctx, profile.ID()).Return(profile, nil)
	mockAccountRepo.On("GetMany", ctx, []string{follower.ID().String(), followed.ID().String()}).
		Return(map[string]*entities.Account{
			follower.ID().String(): follower,
			followed.ID().String(): followed,
		}, nil)

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	view, err := service.GetProfile(ctx, profile.ID().String(), profile.ID().String())

	require.NoError(t, err)
	require.Len(t, view.Followers, 1)
	require.Len(t, view.Following, 1)
	assert.Equal(t, "fan", view.Followers[0].Username)
	// The viewer does not follow their follower back
	assert.False(t, view.Followers[0].Following)
	assert.Equal(t, "idol", view.Following[0].Username)
	assert.True(t, view.Following[0].Following)
}

func TestAccountService_GetProfile_DifferentViewer(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	followed := fixtures.NewAccountBuilder().WithUsername("idol").MustBuild()
	profile := fixtures.NewAccountBuilder().
		WithFollowing(followed.ID().String()).
		MustBuild()
	viewer := fixtures.NewAccountBuilder().
		WithFollowing(followed.ID().String()).
		MustBuild()

	mockAccountRepo.On("GetByID", ctx, profile.ID()).Return(profile, nil)
	mockAccountRepo.On("GetByID", ctx, viewer.ID()).Return(viewer, nil)
	mockAccountRepo.On("GetMany", ctx, []string{followed.ID().String()}).
		Return(map[string]*entities.Account{followed.ID().String(): followed}, nil)

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	view, err := service.GetProfile(ctx, viewer.ID().String(), profile.ID().String())

	require.NoError(t, err)
	require.Len(t, view.Following, 1)
	// Annotated against the viewer's own edges, not the profile's
	assert.True(t, view.Following[0].Following)
}

func TestAccountService_UpdateProfile_Success(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	updated := fixtures.NewAccountBuilder().WithBio("updated bio").MustBuild()
	mockAccountRepo.On("UpdateProfile", ctx, updated.ID(), "updated bio", "").
		Return(updated, nil)

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	view, err := service.UpdateProfile(ctx, updated.ID().String(), "updated bio", "")

	require.NoError(t, err)
	assert.Equal(t, "updated bio", view.Bio)
	mockAccountRepo.AssertExpectations(t)
}

func TestAccountService_Search_Success(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	match := fixtures.NewAccountBuilder().WithUsername("alice").MustBuild()
	mockAccountRepo.On("Search", ctx, "ali", searchLimit).
		Return([]*entities.Account{match}, nil)

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	results, err := service.Search(ctx, "  ali  ")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice", results[0].Username)
	mockAccountRepo.AssertExpectations(t)
}

func TestAccountService_Search_EmptyQuery(t *testing.T) {
	ctx := context.Background()
	mockAccountRepo := new(mocks.MockAccountRepository)

	service := NewAccountService(mockAccountRepo, newTestTokenService(t), nil, zap.NewNop())

	_, err := service.Search(ctx, "   ")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "search query is required")
	mockAccountRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountService_Get_InvalidID(t *testing.T) {
	ctx := context.Background()
	service := NewAccountService(new(mocks.MockAccountRepository), newTestTokenService(t), nil, zap.NewNop())

	_, err := service.Get(ctx, "not-a-uuid")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = service.Get(ctx, valueobjects.NewAccountID().String()+"x")
	require.Error(t, err)
}
