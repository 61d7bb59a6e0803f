package services

import (
	"errors"
	"strings"

	"github.com/quillnet/quill/pkg/internal/authz"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/status"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func GetComment(id uint) (models.Comment, error) {
	var comment models.Comment
	if err := database.C.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return comment, status.NotFound("comment")
		}
		return comment, err
	}
	return comment, nil
}

// ListCommentsOfPost resolves the post's comment references by explicit
// id fetch, preserving the order of the reference list.
func ListCommentsOfPost(post models.Post) ([]models.Comment, error) {
	if len(post.CommentIDs) == 0 {
		return []models.Comment{}, nil
	}

	var comments []models.Comment
	if err := database.C.Where("id IN ?", []uint(post.CommentIDs)).
		Find(&comments).Error; err != nil {
		return comments, err
	}

	byID := lo.SliceToMap(comments, func(item models.Comment) (uint, models.Comment) {
		return item.ID, item
	})
	ordered := make([]models.Comment, 0, len(comments))
	for _, id := range post.CommentIDs {
		if comment, ok := byID[id]; ok {
			ordered = append(ordered, comment)
		}
	}
	return ordered, nil
}

// NewComment creates the comment row first so the entity is always
// reachable by direct lookup, then links it into the post's ordered
// comment list and the author's comment set.
func NewComment(user models.User, post models.Post, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return models.Comment{}, status.Validation("a comment cannot be empty")
	}

	comment := models.Comment{
		Text:   text,
		PostID: post.ID,
		UserID: user.ID,
	}
	if err := database.C.Create(&comment).Error; err != nil {
		return comment, err
	}

	if err := LinkComment(comment); err != nil {
		return comment, err
	}

	return comment, nil
}

// DeleteComment requires gate approval, then removes both back
// references before deleting the row itself.
func DeleteComment(actor models.Actor, commentID uint) error {
	comment, err := GetComment(commentID)
	if err != nil {
		return err
	}

	if decision := authz.Decide(actor, authz.OpDeleteComment, authz.Target{OwnerID: comment.UserID}); !decision.Allowed {
		return status.Forbidden(string(decision.Reason), "you do not have permission to delete this comment")
	}

	if err := UnlinkComment(comment); err != nil {
		return err
	}

	return database.C.Delete(&comment).Error
}
