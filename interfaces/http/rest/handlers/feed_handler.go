package handlers

import (
	"net/http"
	"strings"

	"socialgram-backend/application/services"
	"socialgram-backend/pkg/auth"
	"socialgram-backend/pkg/common"
	pkgerrors "socialgram-backend/pkg/errors"

	"go.uber.org/zap"
)

// FeedHandler handles the feed, popular, explore, and search endpoints
type FeedHandler struct {
	feed     *services.FeedService
	accounts *services.AccountService
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(
	feed *services.FeedService,
	accounts *services.AccountService,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *FeedHandler {
	return &FeedHandler{
		feed:     feed,
		accounts: accounts,
		errors:   errors,
		logger:   logger,
	}
}

// Feed handles GET /api/feed. Only posts by followed accounts appear; a
// viewer following nobody gets an empty page.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	params := common.ExtractPaginationParams(r)

	posts, err := h.feed.Feed(r.Context(), userCtx.UserID, params.Page, params.Limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Feed fetched successfully", common.Envelope{
		"posts": posts,
	})
}

// Popular handles GET /api/feed/popular, ordered by like count
func (h *FeedHandler) Popular(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)

	posts, err := h.feed.Popular(r.Context(), params.Page, params.Limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Popular posts fetched successfully", common.Envelope{
		"posts": posts,
	})
}

// Explore handles GET /api/feed/explore: accounts the viewer is not yet
// connected to
func (h *FeedHandler) Explore(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	suggestions, err := h.feed.Explore(r.Context(), userCtx.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Suggestions fetched successfully", common.Envelope{
		"users": suggestions,
	})
}

// Search handles GET /api/feed/search?q=
func (h *FeedHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		common.RespondError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	users, err := h.accounts.Search(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Users fetched successfully", common.Envelope{
		"users": users,
	})
}
