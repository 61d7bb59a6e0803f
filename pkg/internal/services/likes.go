package services

import (
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ToggleLike reads the user's current membership in the post's liker
// set and applies the opposite action. Returns whether the like was
// added. Concurrent toggles by the same user resolve last-write-wins
// per document; the end state is always exactly liked or not liked.
func ToggleLike(user models.User, post models.Post) (bool, error) {
	var fresh models.Post
	if err := database.C.Select("id", "liker_ids").First(&fresh, "id = ?", post.ID).Error; err != nil {
		return false, err
	}

	if lo.Contains(fresh.LikerIDs, user.ID) {
		if err := UnlinkLike(user.ID, post.ID); err != nil {
			return false, err
		}
		log.Debug().Uint("user", user.ID).Uint("post", post.ID).Msg("Like removed.")
		return false, nil
	}

	if err := LinkLike(user.ID, post.ID); err != nil {
		return true, err
	}
	log.Debug().Uint("user", user.ID).Uint("post", post.ID).Msg("Like added.")
	return true, nil
}
