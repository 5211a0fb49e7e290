package ports

import (
	"context"
	"io"

	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
	"socialgram-backend/domain/events"
)

// AccountRepository defines the interface for account persistence.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type AccountRepository interface {
	// Create persists a new account; fails with Conflict when the username
	// or email is already taken
	Create(ctx context.Context, account *entities.Account) error

	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id valueobjects.AccountID) (*entities.Account, error)

	// GetByUsername retrieves an account by its unique handle
	GetByUsername(ctx context.Context, username string) (*entities.Account, error)

	// GetMany retrieves account summaries for read-time joins, keyed by ID.
	// Missing IDs are absent from the map, not an error.
	GetMany(ctx context.Context, ids []string) (map[string]*entities.Account, error)

	// UpdateProfile applies partial profile edits and returns the updated
	// account
	UpdateProfile(ctx context.Context, id valueobjects.AccountID, bio, profilePic string) (*entities.Account, error)

	// Search finds accounts whose username contains the query
	// (case-insensitive), bounded by limit
	Search(ctx context.Context, query string, limit int) ([]*entities.Account, error)

	// ListAll returns up to limit accounts in store order (explore candidates)
	ListAll(ctx context.Context, limit int) ([]*entities.Account, error)

	// Follow atomically adds target to actor.following and actor to
	// target.followers; both writes apply or neither does
	Follow(ctx context.Context, actorID, targetID valueobjects.AccountID) error

	// Unfollow atomically removes both halves of the edge
	Unfollow(ctx context.Context, actorID, targetID valueobjects.AccountID) error
}

// PostRepository defines the interface for post persistence
type PostRepository interface {
	// Create persists a new post
	Create(ctx context.Context, post *entities.Post) error

	// GetByID retrieves a post by its ID
	GetByID(ctx context.Context, id valueobjects.PostID) (*entities.Post, error)

	// GetByIDs retrieves the posts for the given IDs; missing IDs are skipped
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Post, error)

	// GetByOwner retrieves an owner's posts newest-first with offset
	// pagination
	GetByOwner(ctx context.Context, ownerID valueobjects.AccountID, offset, limit int) ([]*entities.Post, error)

	// GetByOwners retrieves the merged newest-first timeline of several
	// owners (the follow-restricted feed)
	GetByOwners(ctx context.Context, ownerIDs []string, offset, limit int) ([]*entities.Post, error)

	// GetTimeline retrieves the global newest-first timeline
	GetTimeline(ctx context.Context, offset, limit int) ([]*entities.Post, error)

	// UpdateCaption edits a post's caption and returns the updated post
	UpdateCaption(ctx context.Context, id valueobjects.PostID, caption string) (*entities.Post, error)

	// Delete removes a post; comments and likes vanish with the document
	Delete(ctx context.Context, id valueobjects.PostID) error

	// AddLike atomically adds the account to the post's like set
	// (add-if-absent, never read-modify-write). Returns the updated post and
	// whether the membership actually changed.
	AddLike(ctx context.Context, postID valueobjects.PostID, accountID string) (*entities.Post, bool, error)

	// RemoveLike atomically removes the account from the like set
	RemoveLike(ctx context.Context, postID valueobjects.PostID, accountID string) (*entities.Post, bool, error)

	// AppendComment atomically appends a comment to the post's comment log
	// and returns the updated post
	AppendComment(ctx context.Context, postID valueobjects.PostID, comment entities.Comment) (*entities.Post, error)
}

// PopularityIndex maintains the like-count ranking so the popular feed never
// scans the whole post corpus
type PopularityIndex interface {
	// Seed registers a new post with a zero score
	Seed(ctx context.Context, postID string) error

	// Increment adjusts a post's like count by delta (negative on unlike)
	Increment(ctx context.Context, postID string, delta int) error

	// Remove drops a deleted post from the ranking
	Remove(ctx context.Context, postID string) error

	// Top returns post IDs ordered by descending like count
	Top(ctx context.Context, offset, count int) ([]string, error)
}

// MediaStore is the external media host; the backend only keeps the
// returned reference
type MediaStore interface {
	// Store uploads the file and returns a publicly addressable URL
	Store(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// EventBus publishes domain events for downstream consumers
type EventBus interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
