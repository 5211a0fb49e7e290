package services

import (
	"context"
	"io"
	"strings"
	"time"

	"socialgram-backend/application/ports"
	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
	"socialgram-backend/domain/events"
	pkgerrors "socialgram-backend/pkg/errors"

	"go.uber.org/zap"
)

// PostService handles post lifecycle and engagement. All set mutations
// (likes) and the comment append go through atomic store operations, never
// through whole-document read-modify-write.
type PostService struct {
	posts      ports.PostRepository
	accounts   ports.AccountRepository
	popularity ports.PopularityIndex
	media      ports.MediaStore
	eventBus   ports.EventBus
	logger     *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(
	posts ports.PostRepository,
	accounts ports.AccountRepository,
	popularity ports.PopularityIndex,
	media ports.MediaStore,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		accounts:   accounts,
		popularity: popularity,
		media:      media,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// CreateFromUpload stores the media file, then persists the post.
// Caption and file are both required.
func (s *PostService) CreateFromUpload(ctx context.Context, ownerID, caption, filename, contentType string, file io.Reader) (PostView, error) {
	oid, err := valueobjects.NewAccountIDFromString(ownerID)
	if err != nil {
		return PostView{}, pkgerrors.NewValidationError("invalid account ID")
	}
	if strings.TrimSpace(caption) == "" || file == nil {
		return PostView{}, pkgerrors.NewValidationError("caption and file are required")
	}

	mediaURL, err := s.media.Store(ctx, filename, contentType, file)
	if err != nil {
		return PostView{}, err
	}

	post, err := entities.NewPost(oid, caption, mediaURL)
	if err != nil {
		return PostView{}, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return PostView{}, err
	}

	s.seedPopularity(ctx, post.ID().String())
	s.publish(ctx, events.NewPostCreated(post.ID().String(), ownerID, time.Now()))

	s.logger.Info("Post created",
		zap.String("postID", post.ID().String()),
		zap.String("ownerID", ownerID),
	)

	return s.hydrateOne(ctx, post)
}

// Get returns a single post with its joins populated
func (s *PostService) Get(ctx context.Context, postID string) (PostView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return PostView{}, err
	}
	return s.hydrateOne(ctx, post)
}

// ListByOwner returns an account's posts newest-first, offset-paginated
func (s *PostService) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]PostView, error) {
	oid, err := valueobjects.NewAccountIDFromString(ownerID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid account ID")
	}

	offset, limit := normalizePage(page, limit)
	posts, err := s.posts.GetByOwner(ctx, oid, offset, limit)
	if err != nil {
		return nil, err
	}

	return hydratePosts(ctx, s.accounts, posts)
}

// UpdateCaption edits a post's caption; only the owner may edit
func (s *PostService) UpdateCaption(ctx context.Context, actorID, postID, caption string) (PostView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return PostView{}, err
	}
	if !post.IsOwnedBy(actorID) {
		return PostView{}, pkgerrors.NewForbiddenError("you can only edit your own posts")
	}
	if strings.TrimSpace(caption) == "" {
		return PostView{}, pkgerrors.NewValidationError("caption cannot be empty")
	}

	updated, err := s.posts.UpdateCaption(ctx, post.ID(), strings.TrimSpace(caption))
	if err != nil {
		return PostView{}, err
	}
	return s.hydrateOne(ctx, updated)
}

// Delete removes a post; only the owner may delete. Comments and likes
// vanish with the document.
func (s *PostService) Delete(ctx context.Context, actorID, postID string) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(actorID) {
		return pkgerrors.NewForbiddenError("you can only delete your own posts")
	}

	if err := s.posts.Delete(ctx, post.ID()); err != nil {
		return err
	}

	if s.popularity != nil {
		if err := s.popularity.Remove(ctx, postID); err != nil {
			s.logger.Warn("Failed to drop post from popularity index",
				zap.String("postID", postID),
				zap.Error(err),
			)
		}
	}
	s.publish(ctx, events.NewPostDeleted(postID, actorID, time.Now()))

	s.logger.Info("Post deleted",
		zap.String("postID", postID),
		zap.String("ownerID", actorID),
	)
	return nil
}

// Like adds the actor to the post's like set. Idempotent: a repeated like
// succeeds with the post unchanged.
func (s *PostService) Like(ctx context.Context, actorID, postID string) (PostView, error) {
	pid, err := valueobjects.NewPostIDFromString(postID)
	if err != nil {
		return PostView{}, pkgerrors.NewValidationError("invalid post ID")
	}

	post, changed, err := s.posts.AddLike(ctx, pid, actorID)
	if err != nil {
		return PostView{}, err
	}

	if changed {
		s.bumpPopularity(ctx, postID, 1)
		s.publish(ctx, events.NewPostLiked(postID, actorID, time.Now()))
	}

	return s.hydrateOne(ctx, post)
}

// Unlike removes the actor from the like set; no-op when absent
func (s *PostService) Unlike(ctx context.Context, actorID, postID string) (PostView, error) {
	pid, err := valueobjects.NewPostIDFromString(postID)
	if err != nil {
		return PostView{}, pkgerrors.NewValidationError("invalid post ID")
	}

	post, changed, err := s.posts.RemoveLike(ctx, pid, actorID)
	if err != nil {
		return PostView{}, err
	}

	if changed {
		s.bumpPopularity(ctx, postID, -1)
	}

	return s.hydrateOne(ctx, post)
}

// AddComment appends a comment to the post's comment log.
// Empty or whitespace-only text fails with ValidationError.
func (s *PostService) AddComment(ctx context.Context, actorID, postID, text string) (PostView, error) {
	pid, err := valueobjects.NewPostIDFromString(postID)
	if err != nil {
		return PostView{}, pkgerrors.NewValidationError("invalid post ID")
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return PostView{}, pkgerrors.NewValidationError("comment text is required")
	}

	comment := entities.Comment{
		AuthorID:  actorID,
		Text:      trimmed,
		CreatedAt: time.Now(),
	}

	post, err := s.posts.AppendComment(ctx, pid, comment)
	if err != nil {
		return PostView{}, err
	}

	s.publish(ctx, events.NewCommentAdded(postID, actorID, comment.CreatedAt))

	return s.hydrateOne(ctx, post)
}

// ListComments returns a post's comments newest-first with authors joined.
// The display projection leaves storage (append) order untouched.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]CommentView, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments := post.CommentsNewestFirst()
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	joined, err := s.accounts.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			User:      summaryFor(c.AuthorID, joined),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return views, nil
}

func (s *PostService) getPost(ctx context.Context, postID string) (*entities.Post, error) {
	pid, err := valueobjects.NewPostIDFromString(postID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid post ID")
	}
	return s.posts.GetByID(ctx, pid)
}

func (s *PostService) hydrateOne(ctx context.Context, post *entities.Post) (PostView, error) {
	views, err := hydratePosts(ctx, s.accounts, []*entities.Post{post})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

func (s *PostService) seedPopularity(ctx context.Context, postID string) {
	if s.popularity == nil {
		return
	}
	if err := s.popularity.Seed(ctx, postID); err != nil {
		s.logger.Warn("Failed to seed popularity index",
			zap.String("postID", postID),
			zap.Error(err),
		)
	}
}

func (s *PostService) bumpPopularity(ctx context.Context, postID string, delta int) {
	if s.popularity == nil {
		return
	}
	if err := s.popularity.Increment(ctx, postID, delta); err != nil {
		s.logger.Warn("Failed to update popularity index",
			zap.String("postID", postID),
			zap.Int("delta", delta),
			zap.Error(err),
		)
	}
}

func (s *PostService) publish(ctx context.Context, event events.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}

// normalizePage converts 1-based page/limit into a store offset, clamping
// page<1 to 1
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return (page - 1) * limit, limit
}
