package fixtures

import (
	"fmt"
	"time"

	"socialgram-backend/domain/core/entities"
	"socialgram-backend/domain/core/valueobjects"
)

// AccountBuilder helps create test accounts with default values
type AccountBuilder struct {
	id         valueobjects.AccountID
	username   string
	email      string
	hash       string
	bio        string
	profilePic string
	followers  []string
	following  []string
	createdAt  time.Time
}

func NewAccountBuilder() *AccountBuilder {
	return &AccountBuilder{
		id:        valueobjects.NewAccountID(),
		username:  "testuser",
		email:     "test@example.com",
		hash:      "$2a$10$fakehashfakehashfakehashfakehashfakehashfakehashfake",
		createdAt: time.Now(),
	}
}

func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.id, _ = valueobjects.NewAccountIDFromString(id)
	return b
}

func (b *AccountBuilder) WithUsername(username string) *AccountBuilder {
	b.username = username
	return b
}

func (b *AccountBuilder) WithEmail(email string) *AccountBuilder {
	b.email = email
	return b
}

func (b *AccountBuilder) WithPasswordHash(hash string) *AccountBuilder {
	b.hash = hash
	return b
}

func (b *AccountBuilder) WithBio(bio string) *AccountBuilder {
	b.bio = bio
	return b
}

func (b *AccountBuilder) WithFollowers(ids ...string) *AccountBuilder {
	b.followers = ids
	return b
}

func (b *AccountBuilder) WithFollowing(ids ...string) *AccountBuilder {
	b.following = ids
	return b
}

func (b *AccountBuilder) Build() (*entities.Account, error) {
	return entities.ReconstructAccount(
		b.id,
		b.username,
		b.email,
		b.hash,
		b.bio,
		b.profilePic,
		b.followers,
		b.following,
		b.createdAt,
		b.createdAt,
	)
}

func (b *AccountBuilder) MustBuild() *entities.Account {
	account, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build account: %v", err))
	}
	return account
}

// PostBuilder helps create test posts with default values
type PostBuilder struct {
	id        valueobjects.PostID
	ownerID   valueobjects.AccountID
	caption   string
	mediaURL  string
	likes     []string
	comments  []entities.Comment
	createdAt time.Time
}

func NewPostBuilder() *PostBuilder {
	return &PostBuilder{
		id:        valueobjects.NewPostID(),
		ownerID:   valueobjects.NewAccountID(),
		caption:   "Test caption",
		mediaURL:  "https://media.example.com/posts/test.jpg",
		createdAt: time.Now(),
	}
}

func (b *PostBuilder) WithID(id string) *PostBuilder {
	b.id, _ = valueobjects.NewPostIDFromString(id)
	return b
}

func (b *PostBuilder) WithOwnerID(id string) *PostBuilder {
	b.ownerID, _ = valueobjects.NewAccountIDFromString(id)
	return b
}

func (b *PostBuilder) WithCaption(caption string) *PostBuilder {
	b.caption = caption
	return b
}

func (b *PostBuilder) WithLikes(ids ...string) *PostBuilder {
	b.likes = ids
	return b
}

func (b *PostBuilder) WithComments(comments ...entities.Comment) *PostBuilder {
	b.comments = comments
	return b
}

func (b *PostBuilder) WithCreatedAt(t time.Time) *PostBuilder {
	b.createdAt = t
	return b
}

func (b *PostBuilder) Build() (*entities.Post, error) {
	return entities.ReconstructPost(
		b.id,
		b.ownerID,
		b.caption,
		b.mediaURL,
		b.likes,
		b.comments,
		b.createdAt,
		b.createdAt,
	)
}

func (b *PostBuilder) MustBuild() *entities.Post {
	post, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build post: %v", err))
	}
	return post
}
