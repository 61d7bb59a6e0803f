package services

import (
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DoReconcileReferences re-derives every denormalized reference set
// from its side of record and repairs whatever drift a partial
// reference failure left behind. Comment rows are the record for
// comment references; Post.LikerIDs is the record for likes. The sweep
// runs off the request path on a timer.
func DoReconcileReferences() {
	drift := 0
	drift += reconcilePostReferences()
	drift += reconcileUserReferences()
	if drift > 0 {
		log.Info().Int("repaired", drift).Msg("Reference reconciliation repaired drift.")
	} else {
		log.Debug().Msg("Reference reconciliation found nothing to repair.")
	}
}

func reconcilePostReferences() int {
	drift := 0

	var posts []models.Post
	result := database.C.Select("id", "comment_ids").FindInBatches(&posts, 100, func(tx *gorm.DB, batch int) error {
		for _, post := range posts {
			var comments []models.Comment
			if err := database.C.Select("id").
				Where("post_id = ?", post.ID).
				Order("created_at ASC").
				Find(&comments).Error; err != nil {
				return err
			}
			expected := lo.Map(comments, func(item models.Comment, index int) uint {
				return item.ID
			})
			if sameIDSet(post.CommentIDs, expected) {
				continue
			}
			if err := database.C.Model(&models.Post{}).Where("id = ?", post.ID).
				Update("comment_ids", datatypes.NewJSONSlice(expected)).Error; err != nil {
				return err
			}
			drift++
		}
		return nil
	})
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("An error occurred when reconciling post references...")
	}

	return drift
}

func reconcileUserReferences() int {
	drift := 0

	// Liked-post sets are rebuilt from the posts' liker sets in one
	// pass over the posts table.
	likedByUser := map[uint][]uint{}
	var posts []models.Post
	if err := database.C.Select("id", "liker_ids").Find(&posts).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when loading posts for reconciliation...")
		return drift
	}
	for _, post := range posts {
		for _, likerID := range post.LikerIDs {
			likedByUser[likerID] = append(likedByUser[likerID], post.ID)
		}
	}
	postIDs := lo.Map(posts, func(item models.Post, index int) uint {
		return item.ID
	})

	var users []models.User
	result := database.C.Select("id", "comment_ids", "liked_post_ids", "post_ids").
		FindInBatches(&users, 100, func(tx *gorm.DB, batch int) error {
			for _, user := range users {
				var comments []models.Comment
				if err := database.C.Select("id").
					Where("user_id = ?", user.ID).
					Order("created_at ASC").
					Find(&comments).Error; err != nil {
					return err
				}
				expectedComments := lo.Map(comments, func(item models.Comment, index int) uint {
					return item.ID
				})

				var authored []models.Post
				if err := database.C.Select("id").
					Where("author_id = ?", user.ID).
					Find(&authored).Error; err != nil {
					return err
				}
				expectedPosts := lo.Map(authored, func(item models.Post, index int) uint {
					return item.ID
				})

				expectedLikes := likedByUser[user.ID]

				changes := map[string]any{}
				if !sameIDSet(user.CommentIDs, expectedComments) {
					changes["comment_ids"] = datatypes.NewJSONSlice(expectedComments)
				}
				if !sameIDSet(user.PostIDs, expectedPosts) {
					changes["post_ids"] = datatypes.NewJSONSlice(expectedPosts)
				}
				// Drop dangling liked-post ids as well as missing ones.
				cleaned := lo.Filter(user.LikedPostIDs, func(item uint, index int) bool {
					return lo.Contains(postIDs, item)
				})
				if !sameIDSet(cleaned, expectedLikes) || len(cleaned) != len(user.LikedPostIDs) {
					changes["liked_post_ids"] = datatypes.NewJSONSlice(expectedLikes)
				}

				if len(changes) == 0 {
					continue
				}
				if err := database.C.Model(&models.User{}).Where("id = ?", user.ID).
					Updates(changes).Error; err != nil {
					return err
				}
				invalidateUser(user.ID)
				drift++
			}
			return nil
		})
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("An error occurred when reconciling user references...")
	}

	return drift
}

func sameIDSet(current []uint, expected []uint) bool {
	if len(current) != len(expected) {
		return false
	}
	return lo.Every(current, expected) && lo.Every(expected, current)
}
