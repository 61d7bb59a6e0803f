package services

import (
	"github.com/quillnet/quill/pkg/internal/authz"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/status"
	"github.com/rs/zerolog/log"
)

// Cascading deletion is an explicit plan/execute sequence; nothing
// fires implicitly on a raw row delete. Dependents are enumerated up
// front, removed leaves first, and the root entity row goes last so no
// surviving reference ever points at a missing entity.

type postDeletionPlan struct {
	Post     models.Post
	Comments []models.Comment
	LikerIDs []uint
}

type userDeletionPlan struct {
	User         models.User
	Posts        []postDeletionPlan
	Comments     []models.Comment
	LikedPostIDs []uint
}

func planPostDeletion(post models.Post) (postDeletionPlan, error) {
	plan := postDeletionPlan{
		Post:     post,
		LikerIDs: post.LikerIDs,
	}
	if err := database.C.Where("post_id = ?", post.ID).Find(&plan.Comments).Error; err != nil {
		return plan, err
	}
	return plan, nil
}

func planUserDeletion(user models.User) (userDeletionPlan, error) {
	plan := userDeletionPlan{
		User:         user,
		LikedPostIDs: user.LikedPostIDs,
	}

	// Editors take their authored posts with them; each authored post
	// is recursively planned so its own dependents go first.
	if user.Role == models.RoleEditor {
		var posts []models.Post
		if err := database.C.Where("author_id = ?", user.ID).Find(&posts).Error; err != nil {
			return plan, err
		}
		for _, post := range posts {
			sub, err := planPostDeletion(post)
			if err != nil {
				return plan, err
			}
			plan.Posts = append(plan.Posts, sub)
		}
	}

	if err := database.C.Where("user_id = ?", user.ID).Find(&plan.Comments).Error; err != nil {
		return plan, err
	}

	return plan, nil
}

func executePostDeletion(plan postDeletionPlan) error {
	// Comments go before the post that owns them. The post side of each
	// comment reference disappears with the post row, so only the
	// commenter's back reference needs an explicit removal.
	for _, comment := range plan.Comments {
		if err := UnlinkComment(comment); err != nil {
			return err
		}
		if err := database.C.Delete(&comment).Error; err != nil {
			return err
		}
	}

	for _, likerID := range plan.LikerIDs {
		if err := UnlinkLike(likerID, plan.Post.ID); err != nil {
			return err
		}
	}

	if err := UnlinkAuthoredPost(plan.Post.AuthorID, plan.Post.ID); err != nil {
		return err
	}

	return database.C.Delete(&plan.Post).Error
}

func executeUserDeletion(plan userDeletionPlan) error {
	for _, sub := range plan.Posts {
		if err := executePostDeletion(sub); err != nil {
			return err
		}
	}

	// Authored comments on posts that survive the cascade. Comments on
	// the user's own deleted posts are already gone, and UnlinkComment
	// treats their absence as done.
	for _, comment := range plan.Comments {
		if err := UnlinkComment(comment); err != nil {
			return err
		}
		if err := database.C.Delete(&comment).Error; err != nil {
			return err
		}
	}

	for _, postID := range plan.LikedPostIDs {
		if err := UnlinkLike(plan.User.ID, postID); err != nil {
			return err
		}
	}

	if err := database.C.Delete(&plan.User).Error; err != nil {
		return err
	}

	invalidateUser(plan.User.ID)
	return nil
}

// verifyPostDeletion is best effort: it reports leftovers instead of
// failing the request, since every step is idempotent and the sweep
// will repair drift.
func verifyPostDeletion(postID uint) {
	var count int64
	if err := database.C.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err == nil && count > 0 {
		log.Warn().Uint("post", postID).Int64("count", count).Msg("Comments still reference a deleted post.")
	}
}

func verifyUserDeletion(userID uint) {
	var count int64
	if err := database.C.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&count).Error; err == nil && count > 0 {
		log.Warn().Uint("user", userID).Int64("count", count).Msg("Comments still reference a deleted user.")
	}
}

// DeletePost resolves the target, consults the gate, then drives the
// plan to completion.
func DeletePost(actor models.Actor, postID uint) error {
	post, err := GetPost(postID)
	if err != nil {
		return err
	}

	if decision := authz.Decide(actor, authz.OpDeletePost, authz.Target{OwnerID: post.AuthorID}); !decision.Allowed {
		return status.Forbidden(string(decision.Reason), "you do not have permission to delete this post")
	}

	plan, err := planPostDeletion(post)
	if err != nil {
		return err
	}
	if err := executePostDeletion(plan); err != nil {
		return err
	}

	verifyPostDeletion(post.ID)
	log.Info().Uint("post", post.ID).Uint("actor", actor.ID).Msg("Post deleted.")
	return nil
}

// DeleteUser cascades into authored posts for editors, authored
// comments for every role, and strips the user's like memberships
// before the user row itself is removed.
func DeleteUser(actor models.Actor, userID uint) error {
	user, err := GetUser(userID)
	if err != nil {
		return err
	}

	if decision := authz.Decide(actor, authz.OpDeleteUser, authz.Target{OwnerID: user.ID}); !decision.Allowed {
		return status.Forbidden(string(decision.Reason), "you do not have permission to delete this user")
	}

	plan, err := planUserDeletion(user)
	if err != nil {
		return err
	}
	if err := executeUserDeletion(plan); err != nil {
		return err
	}

	verifyUserDeletion(user.ID)
	log.Info().Uint("user", user.ID).Uint("actor", actor.ID).Msg("User deleted.")
	return nil
}
