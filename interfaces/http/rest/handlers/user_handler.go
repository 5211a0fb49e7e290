package handlers

import (
	"net/http"

	"socialgram-backend/application/ports"
	"socialgram-backend/application/services"
	"socialgram-backend/pkg/auth"
	"socialgram-backend/pkg/common"
	pkgerrors "socialgram-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadBytes bounds multipart uploads (profile pictures, post media)
const maxUploadBytes = 10 << 20 // 10 MB

// UserHandler handles account profile and follow-graph requests
type UserHandler struct {
	accounts *services.AccountService
	graph    *services.GraphService
	media    ports.MediaStore
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	accounts *services.AccountService,
	graph *services.GraphService,
	media ports.MediaStore,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		graph:    graph,
		media:    media,
		errors:   errors,
		logger:   logger,
	}
}

// GetProfile handles GET /api/user/profile/{accountID}. The response joins
// the follower and following edges with viewer-relative following flags.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), userCtx.UserID, chi.URLParam(r, "accountID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Profile fetched successfully", common.Envelope{
		"user": profile,
	})
}

// GetUser handles GET /api/user/{accountID}; the email is blanked for
// public consumption
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Get(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "User fetched successfully", common.Envelope{
		"user": user,
	})
}

// UpdateProfile handles PUT /api/user/update. The body is multipart: an
// optional bio field and an optional profilePic file. Omitted fields keep
// their current values.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	var profilePicURL string
	if file, header, err := r.FormFile("profilePic"); err == nil {
		defer file.Close()
		profilePicURL, err = h.media.Store(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.errors.Handle(w, r, err)
			return
		}
	}

	user, err := h.accounts.UpdateProfile(r.Context(), userCtx.UserID, r.FormValue("bio"), profilePicURL)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Profile updated successfully", common.Envelope{
		"user": user,
	})
}

// Follow handles POST /api/user/follows/{accountID}
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.graph.Follow(r.Context(), userCtx.UserID, chi.URLParam(r, "accountID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Followed successfully", nil)
}

// Unfollow handles POST /api/user/unfollows/{accountID}
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.graph.Unfollow(r.Context(), userCtx.UserID, chi.URLParam(r, "accountID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Unfollowed successfully", nil)
}

// Followers handles GET /api/user/followers
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	followers, err := h.graph.Followers(r.Context(), userCtx.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Followers fetched successfully", common.Envelope{
		"followers": followers,
	})
}

// Following handles GET /api/user/following
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	following, err := h.graph.Following(r.Context(), userCtx.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Following fetched successfully", common.Envelope{
		"following": following,
	})
}
