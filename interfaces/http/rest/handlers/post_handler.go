package handlers

import (
	"net/http"

	"socialgram-backend/application/services"
	"socialgram-backend/pkg/auth"
	"socialgram-backend/pkg/common"
	pkgerrors "socialgram-backend/pkg/errors"
	"socialgram-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostHandler handles post lifecycle, like, and comment requests
type PostHandler struct {
	posts  *services.PostService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts *services.PostService, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		errors: errors,
		logger: logger,
	}
}

// UpdatePostRequest represents the request body for editing a caption
type UpdatePostRequest struct {
	Caption string `json:"caption" validate:"required,max=2200"`
}

// CommentRequest represents the request body for adding a comment
type CommentRequest struct {
	Text string `json:"text"`
}

// Create handles POST /api/post/add. The body is multipart: a caption
// field plus the media file.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "caption and file are required")
		return
	}
	defer file.Close()

	post, err := h.posts.CreateFromUpload(
		r.Context(),
		userCtx.UserID,
		r.FormValue("caption"),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusCreated, "Post created successfully", common.Envelope{
		"post": post,
	})
}

// Get handles GET /api/post/get/{postID}; readable without authentication
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Post fetched successfully", common.Envelope{
		"post": post,
	})
}

// ListByOwner handles GET /api/post/user/{accountID}
func (h *PostHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)

	posts, err := h.posts.ListByOwner(r.Context(), chi.URLParam(r, "accountID"), params.Page, params.Limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Posts fetched successfully", common.Envelope{
		"posts": posts,
	})
}

// Update handles PUT /api/post/update/{postID}; only the owner may edit
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdatePostRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.posts.UpdateCaption(r.Context(), userCtx.UserID, chi.URLParam(r, "postID"), req.Caption)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Post updated successfully", common.Envelope{
		"post": post,
	})
}

// Delete handles DELETE /api/post/delete/{postID}; only the owner may delete
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.posts.Delete(r.Context(), userCtx.UserID, chi.URLParam(r, "postID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Post deleted successfully", nil)
}

// Like handles PUT /api/post/likes/{postID}. Liking twice is a no-op that
// still returns the post.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	post, err := h.posts.Like(r.Context(), userCtx.UserID, chi.URLParam(r, "postID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Post liked successfully", common.Envelope{
		"post": post,
	})
}

// Unlike handles PUT /api/post/dislikes/{postID}
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	post, err := h.posts.Unlike(r.Context(), userCtx.UserID, chi.URLParam(r, "postID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Post unliked successfully", common.Envelope{
		"post": post,
	})
}

// AddComment handles POST /api/post/{postID}/comment
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CommentRequest
	if err := common.ParseJSONBody(r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.posts.AddComment(r.Context(), userCtx.UserID, chi.URLParam(r, "postID"), req.Text)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusCreated, "Comment added successfully", common.Envelope{
		"post": post,
	})
}

// ListComments handles GET /api/post/{postID}/comments, newest-first with
// author summaries joined in
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.posts.ListComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.Respond(w, http.StatusOK, "Comments fetched successfully", common.Envelope{
		"comments": comments,
	})
}
