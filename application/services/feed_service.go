package services

import (
	"context"
	"sort"

	"socialgram-backend/application/ports"
	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
	pkgerrors "socialgram-backend/pkg/errors"

	"go.uber.org/zap"
)

const (
	// exploreLimit caps the suggestion list returned by Explore
	exploreLimit = 50

	// exploreScanLimit bounds the candidate account scan behind Explore
	exploreScanLimit = 500

	// popularFallbackScan bounds the timeline fetch used when the
	// popularity index is unavailable
	popularFallbackScan = 500
)

// FeedService builds the three read views: the chronological feed of
// followed accounts, the popularity-ranked feed, and follow suggestions.
// All joins are resolved at read time, never denormalized into storage.
type FeedService struct {
	posts      ports.PostRepository
	accounts   ports.AccountRepository
	popularity ports.PopularityIndex
	logger     *zap.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(
	posts ports.PostRepository,
	accounts ports.AccountRepository,
	popularity ports.PopularityIndex,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		posts:      posts,
		accounts:   accounts,
		popularity: popularity,
		logger:     logger,
	}
}

// Feed returns posts by accounts the viewer follows, newest-first.
// A viewer following nobody gets an empty feed, not the global timeline.
func (s *FeedService) Feed(ctx context.Context, viewerID string, page, limit int) ([]PostView, error) {
	vid, err := valueobjects.NewAccountIDFromString(viewerID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid account ID")
	}

	viewer, err := s.accounts.GetByID(ctx, vid)
	if err != nil {
		return nil, err
	}

	following := viewer.Following()
	if len(following) == 0 {
		return []PostView{}, nil
	}

	offset, limit := normalizePage(page, limit)
	posts, err := s.posts.GetByOwners(ctx, following, offset, limit)
	if err != nil {
		return nil, err
	}

	return hydratePosts(ctx, s.accounts, posts)
}

// Popular returns posts ordered by descending like count, newest-first
// within equal counts. The maintained index serves the ranking; the
// timeline sort is only a fallback when the index cannot.
func (s *FeedService) Popular(ctx context.Context, page, limit int) ([]PostView, error) {
	offset, limit := normalizePage(page, limit)

	posts, err := s.popularPage(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	return hydratePosts(ctx, s.accounts, posts)
}

func (s *FeedService) popularPage(ctx context.Context, offset, limit int) ([]*entities.Post, error) {
	if s.popularity != nil {
		ids, err := s.popularity.Top(ctx, offset, limit)
		if err == nil {
			if len(ids) == 0 {
				return []*entities.Post{}, nil
			}
			posts, err := s.posts.GetByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			sortByPopularity(posts)
			return posts, nil
		}
		s.logger.Warn("Popularity index unavailable, falling back to timeline sort", zap.Error(err))
	}

	// Fallback: bounded timeline fetch plus in-memory ranking
	posts, err := s.posts.GetTimeline(ctx, 0, popularFallbackScan)
	if err != nil {
		return nil, err
	}
	sortByPopularity(posts)

	if offset >= len(posts) {
		return []*entities.Post{}, nil
	}
	end := offset + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end], nil
}

// Explore suggests accounts to follow: everyone except the viewer, minus
// accounts already connected to the viewer in either direction
func (s *FeedService) Explore(ctx context.Context, viewerID string) ([]ConnectionView, error) {
	vid, err := valueobjects.NewAccountIDFromString(viewerID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid account ID")
	}

	viewer, err := s.accounts.GetByID(ctx, vid)
	if err != nil {
		return nil, err
	}

	candidates, err := s.accounts.ListAll(ctx, exploreScanLimit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]ConnectionView, 0, exploreLimit)
	for _, candidate := range candidates {
		id := candidate.ID().String()
		if id == viewerID || viewer.IsFollowing(id) || viewer.IsFollowedBy(id) {
			continue
		}
		suggestions = append(suggestions, ConnectionView{
			ID:         id,
			Username:   candidate.Username(),
			ProfilePic: candidate.ProfilePic(),
			Following:  false,
		})
		if len(suggestions) == exploreLimit {
			break
		}
	}
	return suggestions, nil
}

// sortByPopularity orders posts by like count descending, then newest-first.
// The sort is stable so equal posts keep their store order.
func sortByPopularity(posts []*entities.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].LikeCount() != posts[j].LikeCount() {
			return posts[i].LikeCount() > posts[j].LikeCount()
		}
		return posts[i].CreatedAt().After(posts[j].CreatedAt())
	})
}
