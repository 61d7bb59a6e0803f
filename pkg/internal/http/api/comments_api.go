package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/http/exts"
	"github.com/quillnet/quill/pkg/internal/services"
)

func newComment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var data struct {
		PostID uint   `json:"post_id" validate:"required"`
		Text   string `json:"text" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.GetUser(actor.ID)
	if err != nil {
		return err
	}
	post, err := services.GetPost(data.PostID)
	if err != nil {
		return err
	}

	comment, err := services.NewComment(user, post, data.Text)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func deleteComment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "commentId")
	if err != nil {
		return err
	}

	if err := services.DeleteComment(actor, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}
