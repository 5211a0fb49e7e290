package services

import (
	"context"
	"time"

	"socialgram-backend/application/ports"
	"socialgram-backend/domain/core/entities"
)

// AccountSummary is the owner/author projection joined into post views
type AccountSummary struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// AccountView is the full public projection of an account (no credential)
type AccountView struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	ProfilePic string    `json:"profilePic,omitempty"`
	Followers  []string  `json:"followers"`
	Following  []string  `json:"following"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ConnectionView is a follower/following entry annotated with whether the
// viewer already follows it
type ConnectionView struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic,omitempty"`
	Following  bool   `json:"following"`
}

// ProfileView is the profile page projection with joined connection lists
type ProfileView struct {
	ID         string           `json:"id"`
	Username   string           `json:"username"`
	Bio        string           `json:"bio,omitempty"`
	ProfilePic string           `json:"profilePic,omitempty"`
	Followers  []ConnectionView `json:"followers"`
	Following  []ConnectionView `json:"following"`
}

// CommentView is a comment with its author summary joined in
type CommentView struct {
	User      AccountSummary `json:"user"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PostView is a post with owner and comment authors joined in at read time
type PostView struct {
	ID         string         `json:"id"`
	User       AccountSummary `json:"user"`
	Caption    string         `json:"caption"`
	MediaURL   string         `json:"imageUrl"`
	Likes      []string       `json:"likes"`
	LikesCount int            `json:"likesCount"`
	Comments   []CommentView  `json:"comments"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// NewAccountSummary builds the summary projection of an account
func NewAccountSummary(a *entities.Account) AccountSummary {
	return AccountSummary{
		ID:         a.ID().String(),
		Username:   a.Username(),
		ProfilePic: a.ProfilePic(),
	}
}

// NewAccountView builds the full projection of an account
func NewAccountView(a *entities.Account) AccountView {
	return AccountView{
		ID:         a.ID().String(),
		Username:   a.Username(),
		Email:      a.Email(),
		Bio:        a.Bio(),
		ProfilePic: a.ProfilePic(),
		Followers:  a.Followers(),
		Following:  a.Following(),
		CreatedAt:  a.CreatedAt(),
	}
}

// collectAccountIDs gathers every account referenced by the posts: owners
// plus comment authors, deduplicated
func collectAccountIDs(posts []*entities.Post) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(posts))
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, p := range posts {
		add(p.OwnerID().String())
		for _, c := range p.Comments() {
			add(c.AuthorID)
		}
	}
	return ids
}

// summaryFor resolves an account summary from the join map; an unknown
// account (deleted, inconsistent) degrades to a bare ID rather than failing
// the whole view
func summaryFor(id string, accounts map[string]*entities.Account) AccountSummary {
	if a, ok := accounts[id]; ok {
		return NewAccountSummary(a)
	}
	return AccountSummary{ID: id}
}

// buildPostView projects one post with its joins resolved
func buildPostView(p *entities.Post, accounts map[string]*entities.Account) PostView {
	comments := p.Comments()
	commentViews := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		commentViews = append(commentViews, CommentView{
			User:      summaryFor(c.AuthorID, accounts),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	return PostView{
		ID:         p.ID().String(),
		User:       summaryFor(p.OwnerID().String(), accounts),
		Caption:    p.Caption(),
		MediaURL:   p.MediaURL(),
		Likes:      p.Likes(),
		LikesCount: p.LikeCount(),
		Comments:   commentViews,
		CreatedAt:  p.CreatedAt(),
	}
}

// hydratePosts performs the read-time join for a batch of posts
func hydratePosts(ctx context.Context, accountRepo ports.AccountRepository, posts []*entities.Post) ([]PostView, error) {
	accounts, err := accountRepo.GetMany(ctx, collectAccountIDs(posts))
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, buildPostView(p, accounts))
	}
	return views, nil
}
