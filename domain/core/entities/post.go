package entities

import (
	"sort"
	"strings"
	"time"

	"socialgram-backend/domain/core/valueobjects"
	pkgerrors "socialgram-backend/pkg/errors"
)

// Post is a captioned media item owned by one account, carrying its
// engagement: a like set and an append-only comment log.
type Post struct {
	id        valueobjects.PostID
	ownerID   valueobjects.AccountID
	caption   string
	mediaURL  string
	likes     []string
	comments  []Comment
	createdAt time.Time
	updatedAt time.Time
}

// Comment is embedded in its post; it has no independent identity and is
// immutable once created.
type Comment struct {
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

// NewPost creates a post with required caption and media reference
func NewPost(ownerID valueobjects.AccountID, caption, mediaURL string) (*Post, error) {
	caption = strings.TrimSpace(caption)

	if ownerID.IsZero() {
		return nil, pkgerrors.NewValidationError("owner ID cannot be empty")
	}
	if caption == "" {
		return nil, pkgerrors.NewValidationError("caption and file are required")
	}
	if mediaURL == "" {
		return nil, pkgerrors.NewValidationError("caption and file are required")
	}

	now := time.Now()
	return &Post{
		id:        valueobjects.NewPostID(),
		ownerID:   ownerID,
		caption:   caption,
		mediaURL:  mediaURL,
		likes:     []string{},
		comments:  []Comment{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPost rebuilds a post from repository data
func ReconstructPost(
	id valueobjects.PostID,
	ownerID valueobjects.AccountID,
	caption, mediaURL string,
	likes []string,
	comments []Comment,
	createdAt, updatedAt time.Time,
) (*Post, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("post ID cannot be empty")
	}
	if ownerID.IsZero() {
		return nil, pkgerrors.NewValidationError("owner ID cannot be empty")
	}

	return &Post{
		id:        id,
		ownerID:   ownerID,
		caption:   caption,
		mediaURL:  mediaURL,
		likes:     dedupe(likes),
		comments:  comments,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// Accessors

func (p *Post) ID() valueobjects.PostID         { return p.id }
func (p *Post) OwnerID() valueobjects.AccountID { return p.ownerID }
func (p *Post) Caption() string                 { return p.caption }
func (p *Post) MediaURL() string                { return p.mediaURL }
func (p *Post) CreatedAt() time.Time            { return p.createdAt }
func (p *Post) UpdatedAt() time.Time            { return p.updatedAt }

// Likes returns a copy of the liker ID set; its cardinality is the count
func (p *Post) Likes() []string {
	out := make([]string, len(p.likes))
	copy(out, p.likes)
	return out
}

// LikeCount returns the number of distinct likers
func (p *Post) LikeCount() int {
	return len(p.likes)
}

// IsLikedBy reports whether the given account has a like in effect
func (p *Post) IsLikedBy(accountID string) bool {
	return contains(p.likes, accountID)
}

// AddLike records a like; returns false when the account already liked the
// post, so callers can keep the operation idempotent
func (p *Post) AddLike(accountID string) bool {
	if contains(p.likes, accountID) {
		return false
	}
	p.likes = append(p.likes, accountID)
	p.updatedAt = time.Now()
	return true
}

// RemoveLike removes a like; no-op when absent
func (p *Post) RemoveLike(accountID string) bool {
	for i, id := range p.likes {
		if id == accountID {
			p.likes = append(p.likes[:i], p.likes[i+1:]...)
			p.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// Comments returns the comment log in storage (insertion) order
func (p *Post) Comments() []Comment {
	out := make([]Comment, len(p.comments))
	copy(out, p.comments)
	return out
}

// CommentsNewestFirst is the display projection; storage order is untouched
func (p *Post) CommentsNewestFirst() []Comment {
	out := p.Comments()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// AddComment validates and appends a comment, returning the stored copy
func (p *Post) AddComment(authorID, text string) (Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Comment{}, pkgerrors.NewValidationError("comment text is required")
	}
	if authorID == "" {
		return Comment{}, pkgerrors.NewValidationError("comment author is required")
	}

	comment := Comment{
		AuthorID:  authorID,
		Text:      trimmed,
		CreatedAt: time.Now(),
	}
	p.comments = append(p.comments, comment)
	p.updatedAt = comment.CreatedAt
	return comment, nil
}

// UpdateCaption applies a caption edit
func (p *Post) UpdateCaption(caption string) error {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return pkgerrors.NewValidationError("caption cannot be empty")
	}
	p.caption = caption
	p.updatedAt = time.Now()
	return nil
}

// IsOwnedBy reports whether the given account created the post
func (p *Post) IsOwnedBy(accountID string) bool {
	return p.ownerID.String() == accountID
}
