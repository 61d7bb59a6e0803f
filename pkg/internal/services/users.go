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
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func userCacheKey(id uint) string {
	return fmt.Sprintf("user#%d", id)
}

func GetUser(id uint) (models.User, error) {
	if localCache.S != nil {
		cacheManager := cache.New[any](localCache.S)
		marshal := marshaler.New(cacheManager)
		if hit, err := marshal.Get(context.Background(), userCacheKey(id), new(models.User)); err == nil {
			return *hit.(*models.User), nil
		}
	}

	var user models.User
	if err := database.C.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, status.NotFound("user")
		}
		return user, err
	}

	cacheUser(user)
	return user, nil
}

func GetUserByEmail(email string) (models.User, error) {
	var user models.User
	if err := database.C.First(&user, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, status.NotFound("user")
		}
		return user, err
	}
	return user, nil
}

func cacheUser(user models.User) {
	if localCache.S == nil {
		return
	}
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Set(
		context.Background(),
		userCacheKey(user.ID),
		user,
		store.WithExpiration(10*time.Minute),
		store.WithTags([]string{"user", userCacheKey(user.ID)}),
	)
}

func invalidateUser(id uint) {
	if localCache.S == nil {
		return
	}
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Delete(context.Background(), userCacheKey(id))
}

func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", status.Validation("password must be at least 6 characters long")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// NewUser registers a user with the member role; uniqueness of
// username and email is enforced before the credential is hashed.
func NewUser(username, name, email, password string) (models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if len(username) == 0 || len(name) == 0 || len(email) == 0 {
		return models.User{}, status.Validation("username, name and email are required")
	}

	var count int64
	if err := database.C.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, status.Conflict("UserExists", "username or email is already taken")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username: username,
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     models.RoleMember,
	}
	if err := database.C.Create(&user).Error; err != nil {
		return user, err
	}

	log.Info().Uint("user", user.ID).Str("username", user.Username).Msg("User registered.")
	return user, nil
}

type UserPatch struct {
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
}

func UpdateProfile(actor models.Actor, userID uint, patch UserPatch) (models.User, error) {
	user, err := GetUser(userID)
	if err != nil {
		return user, err
	}

	if decision := authz.Decide(actor, authz.OpEditUser, authz.Target{OwnerID: user.ID}); !decision.Allowed {
		return user, status.Forbidden(string(decision.Reason), "you do not have permission to edit this user")
	}

	if patch.Username != nil {
		user.Username = strings.ToLower(strings.TrimSpace(*patch.Username))
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}

	if err := database.C.Save(&user).Error; err != nil {
		return user, err
	}

	invalidateUser(user.ID)
	return user, nil
}

// ChangePassword has no admin override; the current password is
// re-verified here before the new credential is stored.
func ChangePassword(actor models.Actor, userID uint, current, updated, confirm string) error {
	user, err := GetUser(userID)
	if err != nil {
		return err
	}

	if decision := authz.Decide(actor, authz.OpChangePassword, authz.Target{OwnerID: user.ID}); !decision.Allowed {
		return status.Forbidden(string(decision.Reason), "you cannot change another user's password")
	}

	if len(current) == 0 || len(updated) == 0 || len(confirm) == 0 {
		return status.Validation("all password fields are required")
	}
	if !VerifyPassword(current, user.Password) {
		return status.Forbidden("", "current password is incorrect")
	}
	if updated != confirm {
		return status.Validation("new passwords do not match")
	}

	hashed, err := HashPassword(updated)
	if err != nil {
		return err
	}

	if err := database.C.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password", hashed).Error; err != nil {
		return err
	}

	invalidateUser(user.ID)
	return nil
}

// ChangeRole is restricted to admins by the gate.
func ChangeRole(actor models.Actor, userID uint, role models.Role) (models.User, error) {
	user, err := GetUser(userID)
	if err != nil {
		return user, err
	}

	if decision := authz.Decide(actor, authz.OpChangeRole, authz.Target{OwnerID: user.ID}); !decision.Allowed {
		return user, status.Forbidden(string(decision.Reason), "you do not have permission to change user roles")
	}

	if !lo.Contains([]models.Role{models.RoleAdmin, models.RoleEditor, models.RoleMember}, role) {
		return user, status.Validation("unknown role")
	}

	user.Role = role
	if err := database.C.Save(&user).Error; err != nil {
		return user, err
	}

	invalidateUser(user.ID)
	return user, nil
}
