package entities

import (
	"testing"
	"time"

	"socialgram-backend/domain/core/valueobjects"
	pkgerrors "socialgram-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost_RequiresCaptionAndMedia(t *testing.T) {
	owner := valueobjects.NewAccountID()

	_, err := NewPost(owner, "", "https://media.example.com/a.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "caption and file are required")

	_, err = NewPost(owner, "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "caption and file are required")

	_, err = NewPost(owner, "   ", "https://media.example.com/a.jpg")
	require.Error(t, err)
}

func TestPost_AddLike_Idempotent(t *testing.T) {
	post, err := NewPost(valueobjects.NewAccountID(), "hello", "https://media.example.com/a.jpg")
	require.NoError(t, err)

	liker := valueobjects.NewAccountID().String()

	assert.True(t, post.AddLike(liker))
	assert.False(t, post.AddLike(liker), "second like must not change the set")
	assert.Equal(t, 1, post.LikeCount())
	assert.True(t, post.IsLikedBy(liker))
}

func TestPost_RemoveLike(t *testing.T) {
	post, err := NewPost(valueobjects.NewAccountID(), "hello", "https://media.example.com/a.jpg")
	require.NoError(t, err)

	liker := valueobjects.NewAccountID().String()
	post.AddLike(liker)

	assert.True(t, post.RemoveLike(liker))
	assert.False(t, post.RemoveLike(liker), "removing an absent like is a no-op")
	assert.Equal(t, 0, post.LikeCount())
}

func TestPost_AddComment(t *testing.T) {
	post, err := NewPost(valueobjects.NewAccountID(), "hello", "https://media.example.com/a.jpg")
	require.NoError(t, err)

	author := valueobjects.NewAccountID().String()

	comment, err := post.AddComment(author, "  nice shot  ")
	require.NoError(t, err)
	assert.Equal(t, "nice shot", comment.Text, "text should be trimmed")
	assert.Equal(t, author, comment.AuthorID)
	assert.Len(t, post.Comments(), 1)
}

func TestPost_AddComment_EmptyText(t *testing.T) {
	post, err := NewPost(valueobjects.NewAccountID(), "hello", "https://media.example.com/a.jpg")
	require.NoError(t, err)

	_, err = post.AddComment(valueobjects.NewAccountID().String(), "   ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), "comment text is required")
}

func TestPost_CommentsNewestFirst(t *testing.T) {
	now := time.Now()
	comments := []Comment{
		{AuthorID: "a", Text: "first", CreatedAt: now.Add(-2 * time.Hour)},
		{AuthorID: "b", Text: "second", CreatedAt: now.Add(-1 * time.Hour)},
		{AuthorID: "c", Text: "third", CreatedAt: now},
	}

	post, err := ReconstructPost(
		valueobjects.NewPostID(),
		valueobjects.NewAccountID(),
		"hello", "https://media.example.com/a.jpg",
		nil, comments,
		now.Add(-3*time.Hour), now,
	)
	require.NoError(t, err)

	ordered := post.CommentsNewestFirst()
	require.Len(t, ordered, 3)
	assert.Equal(t, "third", ordered[0].Text)
	assert.Equal(t, "second", ordered[1].Text)
	assert.Equal(t, "first", ordered[2].Text)

	// Storage order is untouched
	assert.Equal(t, "first", post.Comments()[0].Text)
}

func TestPost_UpdateCaption(t *testing.T) {
	post, err := NewPost(valueobjects.NewAccountID(), "hello", "https://media.example.com/a.jpg")
	require.NoError(t, err)

	require.NoError(t, post.UpdateCaption("new caption"))
	assert.Equal(t, "new caption", post.Caption())

	err = post.UpdateCaption("  ")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPost_IsOwnedBy(t *testing.T) {
	owner := valueobjects.NewAccountID()
	post, err := NewPost(owner, "hello", "https://media.example.com/a.jpg")
	require.NoError(t, err)

	assert.True(t, post.IsOwnedBy(owner.String()))
	assert.False(t, post.IsOwnedBy(valueobjects.NewAccountID().String()))
}
