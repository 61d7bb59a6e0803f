package services

import (
	"testing"

	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePostCascade(t *testing.T) {
	setupTestDatabase(t)

	author := seedUser(t, "author", "member")
	commenter := seedUser(t, "commenter", "member")
	liker := seedUser(t, "liker", "member")
	category := seedCategory(t, "general")
	post := seedPost(t, author, category)

	comment, err := NewComment(commenter, post, "on a doomed post")
	require.NoError(t, err)
	_, err = ToggleLike(liker, post)
	require.NoError(t, err)

	require.NoError(t, DeletePost(author.ToActor(), post.ID))

	_, err = GetPost(post.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
	_, err = GetComment(comment.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))

	// No orphaned comment rows reference the post.
	var count int64
	require.NoError(t, database.C.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Back references are gone on every prior participant.
	assert.NotContains(t, []uint(reloadUser(t, commenter.ID).CommentIDs), comment.ID)
	assert.NotContains(t, []uint(reloadUser(t, liker.ID).LikedPostIDs), post.ID)
	assert.NotContains(t, []uint(reloadUser(t, author.ID).PostIDs), post.ID)
}

func TestDeletePostAuthorization(t *testing.T) {
	setupTestDatabase(t)

	author := seedUser(t, "author", "member")
	bystander := seedUser(t, "bystander", "member")
	admin := seedUser(t, "admin", "admin")
	category := seedCategory(t, "general")

	post := seedPost(t, author, category)
	err := DeletePost(bystander.ToActor(), post.ID)
	require.Error(t, err)
	assert.Equal(t, status.KindForbidden, status.KindOf(err))

	require.NoError(t, DeletePost(admin.ToActor(), post.ID))

	post = seedPost(t, author, category)
	require.NoError(t, DeletePost(author.ToActor(), post.ID))
}

func TestDeleteEditorUserCascadesPosts(t *testing.T) {
	setupTestDatabase(t)

	editor := seedUser(t, "editor", "editor")
	commenter := seedUser(t, "commenter", "member")
	liker := seedUser(t, "liker", "member")
	category := seedCategory(t, "general")

	post := seedPost(t, editor, category)
	comment, err := NewComment(commenter, post, "on an editor's post")
	require.NoError(t, err)
	_, err = ToggleLike(liker, post)
	require.NoError(t, err)

	require.NoError(t, DeleteUser(editor.ToActor(), editor.ID))

	_, err = GetUser(editor.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
	_, err = GetPost(post.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
	_, err = GetComment(comment.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))

	assert.NotContains(t, []uint(reloadUser(t, commenter.ID).CommentIDs), comment.ID)
	assert.NotContains(t, []uint(reloadUser(t, liker.ID).LikedPostIDs), post.ID)
}

func TestDeleteMemberUserKeepsOthersPosts(t *testing.T) {
	setupTestDatabase(t)

	author := seedUser(t, "author", "member")
	member := seedUser(t, "member", "member")
	category := seedCategory(t, "general")
	post := seedPost(t, author, category)

	comment, err := NewComment(member, post, "I was here")
	require.NoError(t, err)
	_, err = ToggleLike(member, post)
	require.NoError(t, err)

	require.NoError(t, DeleteUser(member.ToActor(), member.ID))

	// The post survives with the member's traces stripped.
	fresh, err := GetPost(post.ID)
	require.NoError(t, err)
	assert.NotContains(t, []uint(fresh.CommentIDs), comment.ID)
	assert.NotContains(t, []uint(fresh.LikerIDs), member.ID)

	_, err = GetComment(comment.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
}

func TestDeleteUserAuthorization(t *testing.T) {
	setupTestDatabase(t)

	target := seedUser(t, "target", "member")
	bystander := seedUser(t, "bystander", "member")
	admin := seedUser(t, "admin", "admin")

	err := DeleteUser(bystander.ToActor(), target.ID)
	require.Error(t, err)
	assert.Equal(t, status.KindForbidden, status.KindOf(err))

	require.NoError(t, DeleteUser(admin.ToActor(), target.ID))
}

func TestDeleteCategoryInUse(t *testing.T) {
	setupTestDatabase(t)

	admin := seedUser(t, "admin", "admin")
	author := seedUser(t, "author", "member")
	category := seedCategory(t, "occupied")
	post := seedPost(t, author, category)

	err := DeleteCategory(admin.ToActor(), category.ID)
	require.Error(t, err)
	assert.Equal(t, status.KindConflict, status.KindOf(err))
	var cast *status.Error
	require.ErrorAs(t, err, &cast)
	assert.Equal(t, status.ReasonCategoryInUse, cast.Reason)

	// Nothing was mutated.
	_, err = GetCategory(category.ID)
	require.NoError(t, err)

	require.NoError(t, DeletePost(author.ToActor(), post.ID))
	require.NoError(t, DeleteCategory(admin.ToActor(), category.ID))
	_, err = GetCategory(category.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
}

// A member creates a post, another member comments, the author deletes
// the post: the comment disappears from storage and from the
// commenter's reference set, and the post resolves to NotFound.
func TestPostLifecycleEndToEnd(t *testing.T) {
	setupTestDatabase(t)

	userA := seedUser(t, "usera", "member")
	userB := seedUser(t, "userb", "member")
	category := seedCategory(t, "stories")
	post := seedPost(t, userA, category)

	comment, err := NewComment(userB, post, "nice")
	require.NoError(t, err)
	assert.Contains(t, []uint(reloadUser(t, userB.ID).CommentIDs), comment.ID)
	assert.Contains(t, []uint(reloadPost(t, post.ID).CommentIDs), comment.ID)

	require.NoError(t, DeletePost(userA.ToActor(), post.ID))

	_, err = GetComment(comment.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
	assert.NotContains(t, []uint(reloadUser(t, userB.ID).CommentIDs), comment.ID)
	_, err = GetPost(post.ID)
	assert.Equal(t, status.KindNotFound, status.KindOf(err))
}
