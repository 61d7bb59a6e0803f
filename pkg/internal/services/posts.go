package services

import (
	"errors"
	"strings"

	"github.com/quillnet/quill/pkg/internal/authz"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/status"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func FilterPostWithCategory(tx *gorm.DB, categoryID uint) *gorm.DB {
	return tx.Where("category_id = ?", categoryID)
}

func FilterPostWithAuthor(tx *gorm.DB, authorID uint) *gorm.DB {
	return tx.Where("author_id = ?", authorID)
}

func PreloadPostGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Category")
}

func GetPost(id uint) (models.Post, error) {
	var post models.Post
	if err := PreloadPostGeneral(database.C).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post, status.NotFound("post")
		}
		return post, err
	}
	return post, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func ListPost(tx *gorm.DB, take int, offset int) ([]models.Post, error) {
	if take > 100 {
		take = 100
	}

	var posts []models.Post
	if err := PreloadPostGeneral(tx).
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return posts, err
	}
	return posts, nil
}

// NewPost creates the post row, then maintains the author's back
// reference set through the reference manager.
func NewPost(author models.User, post models.Post) (models.Post, error) {
	post.Title = strings.TrimSpace(post.Title)
	post.Text = strings.TrimSpace(post.Text)
	if len(post.Title) == 0 || len(post.Text) == 0 {
		return post, status.Validation("a post requires a title and text content")
	}

	if _, err := GetCategory(post.CategoryID); err != nil {
		return post, err
	}

	post.AuthorID = author.ID
	post.Author = author
	if err := database.C.Create(&post).Error; err != nil {
		return post, err
	}

	if err := LinkAuthoredPost(author.ID, post.ID); err != nil {
		return post, err
	}

	log.Debug().Uint("post", post.ID).Uint("author", author.ID).Msg("Post created.")
	return post, nil
}

type PostPatch struct {
	Title      *string `json:"title"`
	Text       *string `json:"text"`
	Image      *string `json:"image"`
	CategoryID *uint   `json:"category_id"`
}

// EditPost applies a partial update after gate approval. The author and
// the comment/liker sets are never editable through this path.
func EditPost(actor models.Actor, postID uint, patch PostPatch) (models.Post, error) {
	post, err := GetPost(postID)
	if err != nil {
		return post, err
	}

	if decision := authz.Decide(actor, authz.OpEditPost, authz.Target{OwnerID: post.AuthorID}); !decision.Allowed {
		return post, status.Forbidden(string(decision.Reason), "you do not have permission to edit this post")
	}

	if patch.Title != nil {
		if len(strings.TrimSpace(*patch.Title)) == 0 {
			return post, status.Validation("a post title cannot be blank")
		}
		post.Title = *patch.Title
	}
	if patch.Text != nil {
		if len(strings.TrimSpace(*patch.Text)) == 0 {
			return post, status.Validation("post text content cannot be blank")
		}
		post.Text = *patch.Text
	}
	if patch.Image != nil {
		post.Image = *patch.Image
	}
	if patch.CategoryID != nil {
		category, err := GetCategory(*patch.CategoryID)
		if err != nil {
			return post, err
		}
		post.CategoryID = category.ID
		post.Category = category
	}

	if err := database.C.Save(&post).Error; err != nil {
		return post, err
	}
	return post, nil
}
