package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/quillnet/quill/pkg/internal/authz"
	localCache "github.com/quillnet/quill/pkg/internal/cache"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/status"
	"gorm.io/gorm"
)

func categoryCacheKey(id uint) string {
	return fmt.Sprintf("category#%d", id)
}

func ListCategory(take int, offset int) ([]models.Category, error) {
	var categories []models.Category
	err := database.C.Offset(offset).Limit(take).Find(&categories).Error

	return categories, err
}

func GetCategory(id uint) (models.Category, error) {
	if localCache.S != nil {
		cacheManager := cache.New[any](localCache.S)
		marshal := marshaler.New(cacheManager)
		if hit, err := marshal.Get(context.Background(), categoryCacheKey(id), new(models.Category)); err == nil {
			return *hit.(*models.Category), nil
		}
	}

	var category models.Category
	if err := database.C.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return category, status.NotFound("category")
		}
		return category, err
	}

	cacheCategory(category)
	return category, nil
}

func cacheCategory(category models.Category) {
	if localCache.S == nil {
		return
	}
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Set(
		context.Background(),
		categoryCacheKey(category.ID),
		category,
		store.WithExpiration(30*time.Minute),
		store.WithTags([]string{"category", categoryCacheKey(category.ID)}),
	)
}

func invalidateCategory(id uint) {
	if localCache.S == nil {
		return
	}
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Delete(context.Background(), categoryCacheKey(id))
}

func NewCategory(actor models.Actor, name string) (models.Category, error) {
	if decision := authz.Decide(actor, authz.OpManageCategory, authz.Target{}); !decision.Allowed {
		return models.Category{}, status.Forbidden(string(decision.Reason), "you do not have permission to manage categories")
	}

	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return models.Category{}, status.Validation("a category name is required")
	}

	category := models.Category{Name: name}
	if err := database.C.Create(&category).Error; err != nil {
		return category, err
	}
	return category, nil
}

func EditCategory(actor models.Actor, id uint, name string) (models.Category, error) {
	if decision := authz.Decide(actor, authz.OpManageCategory, authz.Target{}); !decision.Allowed {
		return models.Category{}, status.Forbidden(string(decision.Reason), "you do not have permission to manage categories")
	}

	category, err := GetCategory(id)
	if err != nil {
		return category, err
	}

	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return category, status.Validation("a category name is required")
	}

	category.Name = name
	if err := database.C.Save(&category).Error; err != nil {
		return category, err
	}

	invalidateCategory(category.ID)
	return category, nil
}

// DeleteCategory refuses to remove a category that posts still
// reference; a category deletion never silently destroys content.
func DeleteCategory(actor models.Actor, id uint) error {
	if decision := authz.Decide(actor, authz.OpManageCategory, authz.Target{}); !decision.Allowed {
		return status.Forbidden(string(decision.Reason), "you do not have permission to manage categories")
	}

	category, err := GetCategory(id)
	if err != nil {
		return err
	}

	var count int64
	if err := database.C.Model(&models.Post{}).
		Where("category_id = ?", category.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return status.Conflict(status.ReasonCategoryInUse,
			fmt.Sprintf("category is still referenced by %d posts", count))
	}

	if err := database.C.Delete(&category).Error; err != nil {
		return err
	}

	invalidateCategory(category.ID)
	return nil
}
