package events

import (
	"time"
)

// SourceBackend identifies this service on the event bus
const SourceBackend = "socialgram.backend"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Account events

// AccountRegistered is raised when a new account is created
type AccountRegistered struct {
	BaseEvent
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

// NewAccountRegistered creates an AccountRegistered event
func NewAccountRegistered(accountID, username string, timestamp time.Time) AccountRegistered {
	return AccountRegistered{
		BaseEvent: BaseEvent{
			AggregateID: accountID,
			EventType:   "account.registered",
			Timestamp:   timestamp,
			Version:     1,
		},
		AccountID: accountID,
		Username:  username,
	}
}

// AccountFollowed is raised after both halves of a follow edge commit
type AccountFollowed struct {
	BaseEvent
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id"`
}

// NewAccountFollowed creates an AccountFollowed event
func NewAccountFollowed(actorID, targetID string, timestamp time.Time) AccountFollowed {
	return AccountFollowed{
		BaseEvent: BaseEvent{
			AggregateID: actorID,
			EventType:   "account.followed",
			Timestamp:   timestamp,
			Version:     1,
		},
		ActorID:  actorID,
		TargetID: targetID,
	}
}

// AccountUnfollowed is raised after a follow edge is removed
type AccountUnfollowed struct {
	BaseEvent
	ActorID  string `json:"actor_id"`
	TargetID string `json:"target_id"`
}

// NewAccountUnfollowed creates an AccountUnfollowed event
func NewAccountUnfollowed(actorID, targetID string, timestamp time.Time) AccountUnfollowed {
	return AccountUnfollowed{
		BaseEvent: BaseEvent{
			AggregateID: actorID,
			EventType:   "account.unfollowed",
			Timestamp:   timestamp,
			Version:     1,
		},
		ActorID:  actorID,
		TargetID: targetID,
	}
}

// Post events

// PostCreated is raised when a post is uploaded
type PostCreated struct {
	BaseEvent
	PostID  string `json:"post_id"`
	OwnerID string `json:"owner_id"`
}

// NewPostCreated creates a PostCreated event
func NewPostCreated(postID, ownerID string, timestamp time.Time) PostCreated {
	return PostCreated{
		BaseEvent: BaseEvent{
			AggregateID: postID,
			EventType:   "post.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:  postID,
		OwnerID: ownerID,
	}
}

// PostDeleted is raised when a post is removed by its owner
type PostDeleted struct {
	BaseEvent
	PostID  string `json:"post_id"`
	OwnerID string `json:"owner_id"`
}

// NewPostDeleted creates a PostDeleted event
func NewPostDeleted(postID, ownerID string, timestamp time.Time) PostDeleted {
	return PostDeleted{
		BaseEvent: BaseEvent{
			AggregateID: postID,
			EventType:   "post.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:  postID,
		OwnerID: ownerID,
	}
}

// Engagement events

// PostLiked is raised when a like takes effect (not on idempotent repeats)
type PostLiked struct {
	BaseEvent
	PostID  string `json:"post_id"`
	ActorID string `json:"actor_id"`
}

// NewPostLiked creates a PostLiked event
func NewPostLiked(postID, actorID string, timestamp time.Time) PostLiked {
	return PostLiked{
		BaseEvent: BaseEvent{
			AggregateID: postID,
			EventType:   "post.liked",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:  postID,
		ActorID: actorID,
	}
}

// CommentAdded is raised when a comment is appended to a post
type CommentAdded struct {
	BaseEvent
	PostID   string `json:"post_id"`
	AuthorID string `json:"author_id"`
}

// NewCommentAdded creates a CommentAdded event
func NewCommentAdded(postID, authorID string, timestamp time.Time) CommentAdded {
	return CommentAdded{
		BaseEvent: BaseEvent{
			AggregateID: postID,
			EventType:   "post.comment_added",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:   postID,
		AuthorID: authorID,
	}
}
