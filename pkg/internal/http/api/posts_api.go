package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/http/exts"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
)

func getPost(c *fiber.Ctx) error {
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}

	post, err := services.GetPost(id)
	if err != nil {
		return err
	}

	return c.JSON(post)
}

func listPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 10)
	offset := c.QueryInt("offset", 0)

	tx := database.C
	if author := c.QueryInt("author", 0); author > 0 {
		tx = services.FilterPostWithAuthor(tx, uint(author))
	}
	if category := c.QueryInt("category", 0); category > 0 {
		tx = services.FilterPostWithCategory(tx, uint(category))
	}

	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	posts, err := services.ListPost(tx, take, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  posts,
	})
}

func newPost(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var data struct {
		Title      string `json:"title" validate:"required"`
		Text       string `json:"text" validate:"required"`
		Image      string `json:"image"`
		CategoryID uint   `json:"category_id" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	author, err := services.GetUser(actor.ID)
	if err != nil {
		return err
	}

	post, err := services.NewPost(author, models.Post{
		Title:      data.Title,
		Text:       data.Text,
		Image:      data.Image,
		CategoryID: data.CategoryID,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func editPost(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}

	var data services.PostPatch
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := services.EditPost(actor, id, data)
	if err != nil {
		return err
	}

	return c.JSON(post)
}

func deletePost(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}

	if err := services.DeletePost(actor, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

func togglePostLike(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}

	user, err := services.GetUser(actor.ID)
	if err != nil {
		return err
	}
	post, err := services.GetPost(id)
	if err != nil {
		return err
	}

	added, err := services.ToggleLike(user, post)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"added": added,
	})
}

func listPostComments(c *fiber.Ctx) error {
	id, err := paramID(c, "postId")
	if err != nil {
		return err
	}

	post, err := services.GetPost(id)
	if err != nil {
		return err
	}

	comments, err := services.ListCommentsOfPost(post)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(comments),
		"data":  comments,
	})
}
