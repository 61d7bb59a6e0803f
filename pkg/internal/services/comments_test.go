package services

import (
	"testing"

	"github.com/quillnet/quill/pkg/internal/authz"
	"github.com/quillnet/quill/pkg/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComment(t *testing.T) {
	setupTestDatabase(t)

	author := seedUser(t, "author", "member")
	commenter := seedUser(t, "commenter", "member")
	category := seedCategory(t, "general")
	post := seedPost(t, author, category)

	comment, err := NewComment(commenter, post, "nice")
	require.NoError(t, err)
	require.NotZero(t, comment.ID)

	assert.Contains(t, []uint(reloadPost(t, post.ID).CommentIDs), comment.ID)
	assert.Contains(t, []uint(reloadUser(t, commenter.ID).CommentIDs), comment.ID)

	fetched, err := GetComment(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, fetched.PostID)
	assert.Equal(t, commenter.ID, fetched.UserID)
}

func TestNewCommentRejectsBlankText(t *testing.T) {
	setupTestDatabase(t)

	author := seedUser(t, "author", "member")
	category := seedCategory(t, "general")
	post := seedPost(t, author, category)

	_, err := NewComment(author, post, "   ")
	require.Error(t, err)
	assert.Equal(t, status.KindValidation, status.KindOf(err))
}

func TestCommentOrderIsPreserved(t *testing.T) {
	setupTestDatabase(t)

	author := seedUser(t, "author", "member")
	commenter := seedUser(t, "commenter", "member")
	category := seedCategory(t, "general")
	post := seedPost(t, author, category)

	first, err := NewComment(commenter, post, "first")
	require.NoError(t, err)
	second, err := NewComment(commenter, post, "second")
	require.NoError(t, err)

	assert.Equal(t, []uint{first.ID, second.ID}, []uint(reloadPost(t, post.ID).CommentIDs))

	comments, err := ListCommentsOfPost(reloadPost(t, post.ID))
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
}

func TestDeleteComment(t *testing.T) {
	setupTestDatabase(t)

	author := seedUser(t, "author", "member")
	commenter := seedUser(t, "commenter", "member")
	category := seedCategory(t, "general")
	post := seedPost(t, author, category)

	comment, err := NewComment(commenter, post, "delete me")
	require.NoError(t, err)

	require.NoError(t, DeleteComment(commenter.ToActor(), comment.ID))

	assert.NotContains(t, []uint(reloadPost(t, post.ID).CommentIDs), comment.ID)
	assert.NotContains(t, []uint(reloadUser(t, commenter.ID).CommentIDs), comment.ID)

	_, err = GetComment(comment.ID)
	require.Error(t, err)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
}

func TestDeleteCommentAuthorization(t *testing.T) {
	setupTestDatabase(t)

	author := seedUser(t, "author", "member")
	commenter := seedUser(t, "commenter", "member")
	bystander := seedUser(t, "bystander", "member")
	admin := seedUser(t, "admin", "admin")
	category := seedCategory(t, "general")
	post := seedPost(t, author, category)

	comment, err := NewComment(commenter, post, "hands off")
	require.NoError(t, err)

	err = DeleteComment(bystander.ToActor(), comment.ID)
	require.Error(t, err)
	assert.Equal(t, status.KindForbidden, status.KindOf(err))
	var cast *status.Error
	require.ErrorAs(t, err, &cast)
	assert.Equal(t, string(authz.ReasonNotOwner), cast.Reason)

	require.NoError(t, DeleteComment(admin.ToActor(), comment.ID))
}

func TestDeleteCommentMissing(t *testing.T) {
	setupTestDatabase(t)

	admin := seedUser(t, "admin", "admin")

	err := DeleteComment(admin.ToActor(), 4242)
	require.Error(t, err)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
}
