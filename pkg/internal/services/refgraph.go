package services

import (
	"errors"
	"fmt"

	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/status"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reference sets live as JSON id-set columns on both sides of a
// relation. Every symmetric edit is two single-document updates in a
// fixed order; the second half gets a bounded retry before the edit is
// surfaced as a partial reference failure. All updates have set
// semantics, so re-applying any half is always safe.

const referenceRetryLimit = 3

// Unlinking against a document that no longer exists counts as done;
// the id cannot dangle on a side that is gone.
func ignoreMissing(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func setInsert(ids []uint, id uint) ([]uint, bool) {
	if lo.Contains(ids, id) {
		return ids, false
	}
	return append(ids, id), true
}

func setRemove(ids []uint, id uint) ([]uint, bool) {
	if !lo.Contains(ids, id) {
		return ids, false
	}
	return lo.Filter(ids, func(item uint, index int) bool {
		return item != id
	}), true
}

func retryBackReference(op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= referenceRetryLimit; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("Back reference update failed, retrying...")
	}
	return status.PartialReference(fmt.Sprintf("unable to complete %s, reconciliation required", op), err)
}

func mutatePostCommentIDs(postID, commentID uint, mutate func([]uint, uint) ([]uint, bool)) error {
	var post models.Post
	if err := database.C.Select("id", "comment_ids").First(&post, "id = ?", postID).Error; err != nil {
		return err
	}
	ids, changed := mutate(post.CommentIDs, commentID)
	if !changed {
		return nil
	}
	return database.C.Model(&models.Post{}).Where("id = ?", postID).
		Update("comment_ids", datatypes.NewJSONSlice(ids)).Error
}

func mutateUserCommentIDs(userID, commentID uint, mutate func([]uint, uint) ([]uint, bool)) error {
	var user models.User
	if err := database.C.Select("id", "comment_ids").First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	ids, changed := mutate(user.CommentIDs, commentID)
	if !changed {
		return nil
	}
	if err := database.C.Model(&models.User{}).Where("id = ?", userID).
		Update("comment_ids", datatypes.NewJSONSlice(ids)).Error; err != nil {
		return err
	}
	invalidateUser(userID)
	return nil
}

func mutatePostLikerIDs(postID, userID uint, mutate func([]uint, uint) ([]uint, bool)) error {
	var post models.Post
	if err := database.C.Select("id", "liker_ids").First(&post, "id = ?", postID).Error; err != nil {
		return err
	}
	ids, changed := mutate(post.LikerIDs, userID)
	if !changed {
		return nil
	}
	return database.C.Model(&models.Post{}).Where("id = ?", postID).
		Update("liker_ids", datatypes.NewJSONSlice(ids)).Error
}

func mutateUserLikedPostIDs(userID, postID uint, mutate func([]uint, uint) ([]uint, bool)) error {
	var user models.User
	if err := database.C.Select("id", "liked_post_ids").First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	ids, changed := mutate(user.LikedPostIDs, postID)
	if !changed {
		return nil
	}
	if err := database.C.Model(&models.User{}).Where("id = ?", userID).
		Update("liked_post_ids", datatypes.NewJSONSlice(ids)).Error; err != nil {
		return err
	}
	invalidateUser(userID)
	return nil
}

func mutateUserPostIDs(userID, postID uint, mutate func([]uint, uint) ([]uint, bool)) error {
	var user models.User
	if err := database.C.Select("id", "post_ids").First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	ids, changed := mutate(user.PostIDs, postID)
	if !changed {
		return nil
	}
	if err := database.C.Model(&models.User{}).Where("id = ?", userID).
		Update("post_ids", datatypes.NewJSONSlice(ids)).Error; err != nil {
		return err
	}
	invalidateUser(userID)
	return nil
}

// LinkComment inserts the comment id on the forward side
// (Post.CommentIDs) first, then on the back side (User.CommentIDs).
func LinkComment(comment models.Comment) error {
	if err := mutatePostCommentIDs(comment.PostID, comment.ID, setInsert); err != nil {
		return err
	}
	return retryBackReference("link comment", func() error {
		return mutateUserCommentIDs(comment.UserID, comment.ID, setInsert)
	})
}

// UnlinkComment removes the back side (User.CommentIDs) first so a
// crash mid-sequence never leaves a list entry pointing at a comment
// that is already gone. Removing an id that is already absent is a
// no-op.
func UnlinkComment(comment models.Comment) error {
	if err := ignoreMissing(mutateUserCommentIDs(comment.UserID, comment.ID, setRemove)); err != nil {
		return err
	}
	return retryBackReference("unlink comment", func() error {
		return ignoreMissing(mutatePostCommentIDs(comment.PostID, comment.ID, setRemove))
	})
}

// LinkLike inserts the user id on the forward side (Post.LikerIDs)
// first, then mirrors it into User.LikedPostIDs.
func LinkLike(userID, postID uint) error {
	if err := mutatePostLikerIDs(postID, userID, setInsert); err != nil {
		return err
	}
	return retryBackReference("link like", func() error {
		return mutateUserLikedPostIDs(userID, postID, setInsert)
	})
}

func UnlinkLike(userID, postID uint) error {
	if err := ignoreMissing(mutateUserLikedPostIDs(userID, postID, setRemove)); err != nil {
		return err
	}
	return retryBackReference("unlink like", func() error {
		return ignoreMissing(mutatePostLikerIDs(postID, userID, setRemove))
	})
}

// LinkAuthoredPost maintains the author's back reference; the forward
// side is the post's own author column, written when the post row is
// created.
func LinkAuthoredPost(authorID, postID uint) error {
	return retryBackReference("link authored post", func() error {
		return mutateUserPostIDs(authorID, postID, setInsert)
	})
}

func UnlinkAuthoredPost(authorID, postID uint) error {
	return retryBackReference("unlink authored post", func() error {
		return ignoreMissing(mutateUserPostIDs(authorID, postID, setRemove))
	})
}
