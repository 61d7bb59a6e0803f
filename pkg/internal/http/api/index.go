package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/models"
)

func MapAPIs(app *fiber.App) {
	api := app.Group("/api").Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/register", registerUser)
		}

		users := api.Group("/users").Name("Users API")
		{
			users.Get("/:userId", getUser)
			users.Patch("/:userId", updateUserProfile)
			users.Delete("/:userId", deleteUser)
			users.Patch("/:userId/password", changeUserPassword)
			users.Patch("/:userId/role", changeUserRole)
		}

		categories := api.Group("/categories").Name("Categories API")
		{
			categories.Get("/", listCategories)
			categories.Post("/", newCategory)
			categories.Get("/:categoryId", getCategory)
			categories.Patch("/:categoryId", editCategory)
			categories.Delete("/:categoryId", deleteCategory)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/", listPosts)
			posts.Post("/", newPost)
			posts.Get("/:postId", getPost)
			posts.Patch("/:postId", editPost)
			posts.Delete("/:postId", deletePost)
			posts.Post("/:postId/likes", togglePostLike)
			posts.Get("/:postId/comments", listPostComments)
		}

		comments := api.Group("/comments").Name("Comments API")
		{
			comments.Post("/", newComment)
			comments.Delete("/:commentId", deleteComment)
		}
	}
}

func requireActor(c *fiber.Ctx) (models.Actor, error) {
	actor, ok := c.Locals("actor").(models.Actor)
	if !ok {
		return actor, fiber.NewError(fiber.StatusUnauthorized, "you are not authenticated")
	}
	return actor, nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id, must be a number")
	}
	return uint(raw), nil
}
