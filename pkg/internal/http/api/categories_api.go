package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/http/exts"
	"github.com/quillnet/quill/pkg/internal/services"
)

func listCategories(c *fiber.Ctx) error {
	take := c.QueryInt("take", 100)
	offset := c.QueryInt("offset", 0)

	categories, err := services.ListCategory(take, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(categories),
		"data":  categories,
	})
}

func getCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "categoryId")
	if err != nil {
		return err
	}

	category, err := services.GetCategory(id)
	if err != nil {
		return err
	}

	return c.JSON(category)
}

func newCategory(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var data struct {
		Name string `json:"name" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	category, err := services.NewCategory(actor, data.Name)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

func editCategory(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "categoryId")
	if err != nil {
		return err
	}

	var data struct {
		Name string `json:"name" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	category, err := services.EditCategory(actor, id, data.Name)
	if err != nil {
		return err
	}

	return c.JSON(category)
}

func deleteCategory(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "categoryId")
	if err != nil {
		return err
	}

	if err := services.DeleteCategory(actor, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}
