package services

import (
	"context"
	"strings"
	"testing"
	"time"

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

func newPostService(
	posts *mocks.MockPostRepository,
	accounts *mocks.MockAccountRepository,
	popularity *mocks.MockPopularityIndex,
	media *mocks.MockMediaStore,
	eventBus *mocks.MockEventBus,
) *PostService {
	return NewPostService(posts, accounts, popularity, media, eventBus, zap.NewNop())
}

func TestPostService_CreateFromUpload_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockPopularity := new(mocks.MockPopularityIndex)
	mockMedia := new(mocks.MockMediaStore)
	mockEventBus := new(mocks.MockEventBus)

	owner := fixtures.NewAccountBuilder().WithUsername("poster").MustBuild()
	body := strings.NewReader("fake image bytes")
	mediaURL := "https://media.example.com/posts/abc.jpg"

	mockMedia.On("Store", ctx, "photo.jpg", "image/jpeg", body).Return(mediaURL, nil)
	mockPostRepo.On("Create", ctx, mock.AnythingOfType("*entities.Post")).Return(nil)
	mockPopularity.On("Seed", ctx, mock.AnythingOfType("string")).Return(nil)
	mockEventBus.On("Publish", ctx, mock.AnythingOfType("events.PostCreated")).Return(nil)
	mockAccountRepo.On("GetMany", ctx, []string{owner.ID().String()}).
		Return(map[string]*entities.Account{owner.ID().String(): owner}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, mockPopularity, mockMedia, mockEventBus)

	// Act
	view, err := service.CreateFromUpload(ctx, owner.ID().String(), "sunset", "photo.jpg", "image/jpeg", body)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "sunset", view.Caption)
	assert.Equal(t, mediaURL, view.MediaURL)
	assert.Equal(t, "poster", view.User.Username)
	assert.Empty(t, view.Likes)
	mockMedia.AssertExpectations(t)
	mockPostRepo.AssertExpectations(t)
	mockPopularity.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestPostService_CreateFromUpload_MissingCaption(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockMedia := new(mocks.MockMediaStore)

	service := newPostService(mockPostRepo, mockAccountRepo, nil, mockMedia, nil)

	_, err := service.CreateFromUpload(ctx, valueobjects.NewAccountID().String(), "   ", "photo.jpg", "image/jpeg", strings.NewReader("x"))

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "caption and file are required")
	mockMedia.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_CreateFromUpload_MissingFile(t *testing.T) {
	ctx := context.Background()
	service := newPostService(new(mocks.MockPostRepository), new(mocks.MockAccountRepository), nil, new(mocks.MockMediaStore), nil)

	_, err := service.CreateFromUpload(ctx, valueobjects.NewAccountID().String(), "caption", "", "", nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPostService_UpdateCaption_NotOwner(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)

	post := fixtures.NewPostBuilder().MustBuild()
	stranger := valueobjects.NewAccountID().String()

	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, nil, nil, nil)

	_, err := service.UpdateCaption(ctx, stranger, post.ID().String(), "new caption")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsForbidden(err))
	assert.Contains(t, err.Error(), "you can only edit your own posts")
	mockPostRepo.AssertNotCalled(t, "UpdateCaption", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_UpdateCaption_Success(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)

	owner := fixtures.NewAccountBuilder().MustBuild()
	post := fixtures.NewPostBuilder().WithOwnerID(owner.ID().String()).MustBuild()
	updated := fixtures.NewPostBuilder().
		WithID(post.ID().String()).
		WithOwnerID(owner.ID().String()).
		WithCaption("edited").
		MustBuild()

	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)
	mockPostRepo.On("UpdateCaption", ctx, post.ID(), "edited").Return(updated, nil)
	mockAccountRepo.On("GetMany", ctx, []string{owner.ID().String()}).
		Return(map[string]*entities.Account{owner.ID().String(): owner}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, nil, nil, nil)

	view, err := service.UpdateCaption(ctx, owner.ID().String(), post.ID().String(), "  edited  ")

	require.NoError(t, err)
	assert.Equal(t, "edited", view.Caption)
	mockPostRepo.AssertExpectations(t)
}

func TestPostService_Delete_Success(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockPopularity := new(mocks.MockPopularityIndex)
	mockEventBus := new(mocks.MockEventBus)

	ownerID := valueobjects.NewAccountID().String()
	post := fixtures.NewPostBuilder().WithOwnerID(ownerID).MustBuild()

	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)
	mockPostRepo.On("Delete", ctx, post.ID()).Return(nil)
	mockPopularity.On("Remove", ctx, post.ID().String()).Return(nil)
	mockEventBus.On("Publish", ctx, mock.AnythingOfType("events.PostDeleted")).Return(nil)

	service := newPostService(mockPostRepo, new(mocks.MockAccountRepository), mockPopularity, nil, mockEventBus)

	err := service.Delete(ctx, ownerID, post.ID().String())

	require.NoError(t, err)
	mockPostRepo.AssertExpectations(t)
	mockPopularity.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestPostService_Delete_NotOwner(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)

	post := fixtures.NewPostBuilder().MustBuild()

	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)

	service := newPostService(mockPostRepo, new(mocks.MockAccountRepository), nil, nil, nil)

	err := service.Delete(ctx, valueobjects.NewAccountID().String(), post.ID().String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsForbidden(err))
	mockPostRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPostService_Like_NewLike(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockPopularity := new(mocks.MockPopularityIndex)
	mockEventBus := new(mocks.MockEventBus)

	owner := fixtures.NewAccountBuilder().MustBuild()
	actorID := valueobjects.NewAccountID().String()
	liked := fixtures.NewPostBuilder().
		WithOwnerID(owner.ID().String()).
		WithLikes(actorID).
		MustBuild()

	mockPostRepo.On("AddLike", ctx, liked.ID(), actorID).Return(liked, true, nil)
	mockPopularity.On("Increment", ctx, liked.ID().String(), 1).Return(nil)
	mockEventBus.On("Publish", ctx, mock.AnythingOfType("events.PostLiked")).Return(nil)
	mockAccountRepo.On("GetMany", ctx, []string{owner.ID().String()}).
		Return(map[string]*entities.Account{owner.ID().String(): owner}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, mockPopularity, nil, mockEventBus)

	view, err := service.Like(ctx, actorID, liked.ID().String())

	require.NoError(t, err)
	assert.Equal(t, 1, view.LikesCount)
	assert.Contains(t, view.Likes, actorID)
	mockPopularity.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestPostService_Like_Repeated(t *testing.T) {
	// A second like of the same post succeeds but moves nothing
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockPopularity := new(mocks.MockPopularityIndex)
	mockEventBus := new(mocks.MockEventBus)

	owner := fixtures.NewAccountBuilder().MustBuild()
	actorID := valueobjects.NewAccountID().String()
	liked := fixtures.NewPostBuilder().
		WithOwnerID(owner.ID().String()).
		WithLikes(actorID).
		MustBuild()

	mockPostRepo.On("AddLike", ctx, liked.ID(), actorID).Return(liked, false, nil)
	mockAccountRepo.On("GetMany", ctx, []string{owner.ID().String()}).
		Return(map[string]*entities.Account{owner.ID().String(): owner}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, mockPopularity, nil, mockEventBus)

	view, err := service.Like(ctx, actorID, liked.ID().String())

	require.NoError(t, err)
	assert.Equal(t, 1, view.LikesCount)
	mockPopularity.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything)
	mockEventBus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPostService_Unlike_Removed(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockPopularity := new(mocks.MockPopularityIndex)

	owner := fixtures.NewAccountBuilder().MustBuild()
	actorID := valueobjects.NewAccountID().String()
	post := fixtures.NewPostBuilder().WithOwnerID(owner.ID().String()).MustBuild()

	mockPostRepo.On("RemoveLike", ctx, post.ID(), actorID).Return(post, true, nil)
	mockPopularity.On("Increment", ctx, post.ID().String(), -1).Return(nil)
	mockAccountRepo.On("GetMany", ctx, []string{owner.ID().String()}).
		Return(map[string]*entities.Account{owner.ID().String(): owner}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, mockPopularity, nil, nil)

	view, err := service.Unlike(ctx, actorID, post.ID().String())

	require.NoError(t, err)
	assert.Equal(t, 0, view.LikesCount)
	mockPopularity.AssertExpectations(t)
}

func TestPostService_AddComment_Success(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)
	mockEventBus := new(mocks.MockEventBus)

	owner := fixtures.NewAccountBuilder().MustBuild()
	author := fixtures.NewAccountBuilder().WithUsername("commenter").MustBuild()
	commented := fixtures.NewPostBuilder().
		WithOwnerID(owner.ID().String()).
		WithComments(entities.Comment{
			AuthorID:  author.ID().String(),
			Text:      "nice shot",
			CreatedAt: time.Now(),
		}).
		MustBuild()

	mockPostRepo.On("AppendComment", ctx, commented.ID(), mock.MatchedBy(func(c entities.Comment) bool {
		return c.AuthorID == author.ID().String() && c.Text == "nice shot"
	})).Return(commented, nil)
	mockEventBus.On("Publish", ctx, mock.AnythingOfType("events.CommentAdded")).Return(nil)
	mockAccountRepo.On("GetMany", ctx, []string{owner.ID().String(), author.ID().String()}).
		Return(map[string]*entities.Account{
			owner.ID().String():  owner,
			author.ID().String(): author,
		}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, nil, nil, mockEventBus)

	view, err := service.AddComment(ctx, author.ID().String(), commented.ID().String(), "  nice shot  ")

	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "nice shot", view.Comments[0].Text)
	assert.Equal(t, "commenter", view.Comments[0].User.Username)
	mockPostRepo.AssertExpectations(t)
	mockEventBus.AssertExpectations(t)
}

func TestPostService_AddComment_EmptyText(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)

	service := newPostService(mockPostRepo, new(mocks.MockAccountRepository), nil, nil, nil)

	_, err := service.AddComment(ctx, valueobjects.NewAccountID().String(), valueobjects.NewPostID().String(), "   ")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "comment text is required")
	mockPostRepo.AssertNotCalled(t, "AppendComment", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_ListComments_NewestFirst(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)

	first := fixtures.NewAccountBuilder().WithUsername("first").MustBuild()
	second := fixtures.NewAccountBuilder().WithUsername("second").MustBuild()
	base := time.Now().Add(-time.Hour)
	post := fixtures.NewPostBuilder().
		WithComments(
			entities.Comment{AuthorID: first.ID().String(), Text: "older", CreatedAt: base},
			entities.Comment{AuthorID: second.ID().String(), Text: "newer", CreatedAt: base.Add(time.Minute)},
		).
		MustBuild()

	mockPostRepo.On("GetByID", ctx, post.ID()).Return(post, nil)
	mockAccountRepo.On("GetMany", ctx, []string{second.ID().String(), first.ID().String()}).
		Return(map[string]*entities.Account{
			first.ID().String():  first,
			second.ID().String(): second,
		}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, nil, nil, nil)

	comments, err := service.ListComments(ctx, post.ID().String())

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "newer", comments[0].Text)
	assert.Equal(t, "second", comments[0].User.Username)
	assert.Equal(t, "older", comments[1].Text)
}

func TestPostService_ListByOwner_SecondPage(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)

	owner := fixtures.NewAccountBuilder().MustBuild()
	post := fixtures.NewPostBuilder().WithOwnerID(owner.ID().String()).MustBuild()

	// Page 2 with limit 10 translates to store offset 10
	mockPostRepo.On("GetByOwner", ctx, owner.ID(), 10, 10).
		Return([]*entities.Post{post}, nil)
	mockAccountRepo.On("GetMany", ctx, []string{owner.ID().String()}).
		Return(map[string]*entities.Account{owner.ID().String(): owner}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, nil, nil, nil)

	views, err := service.ListByOwner(ctx, owner.ID().String(), 2, 10)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, post.ID().String(), views[0].ID)
	mockPostRepo.AssertExpectations(t)
}

func TestPostService_ListByOwner_ClampsPage(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)
	mockAccountRepo := new(mocks.MockAccountRepository)

	owner := fixtures.NewAccountBuilder().MustBuild()

	mockPostRepo.On("GetByOwner", ctx, owner.ID(), 0, 10).
		Return([]*entities.Post{}, nil)
	mockAccountRepo.On("GetMany", ctx, []string{}).
		Return(map[string]*entities.Account{}, nil)

	service := newPostService(mockPostRepo, mockAccountRepo, nil, nil, nil)

	views, err := service.ListByOwner(ctx, owner.ID().String(), -3, 10)

	require.NoError(t, err)
	assert.Empty(t, views)
	mockPostRepo.AssertExpectations(t)
}

func TestPostService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	mockPostRepo := new(mocks.MockPostRepository)

	pid := valueobjects.NewPostID()
	mockPostRepo.On("GetByID", ctx, pid).Return(nil, pkgerrors.NewNotFoundError("post"))

	service := newPostService(mockPostRepo, new(mocks.MockAccountRepository), nil, nil, nil)

	_, err := service.Get(ctx, pid.String())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}
