package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/spf13/viper"
)

// The identity provider is external: requests carry a bearer token
// whose claims are trusted verbatim once the signature checks out.

type actorClaims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

func authMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) == 0 || !strings.HasPrefix(header, "Bearer ") {
		return c.Next()
	}

	token := strings.TrimPrefix(header, "Bearer ")
	var claims actorClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		return []byte(viper.GetString("security.auth_secret")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return c.Next()
	}

	var uid uint
	if subject, err := claims.GetSubject(); err == nil {
		if parsedID, err := strconv.ParseUint(subject, 10, 64); err == nil {
			uid = uint(parsedID)
		}
	}
	if uid == 0 {
		return c.Next()
	}

	c.Locals("actor", models.Actor{
		ID:    uid,
		Email: claims.Email,
		Role:  claims.Role,
	})

	return c.Next()
}
