package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/http/exts"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
)

func registerUser(c *fiber.Ctx) error {
	var data struct {
		Username string `json:"username" validate:"required,lowercase,alphanum"`
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.NewUser(data.Username, data.Name, data.Email, data.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func getUser(c *fiber.Ctx) error {
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	user, err := services.GetUser(id)
	if err != nil {
		return err
	}

	return c.JSON(user)
}

func updateUserProfile(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	var data services.UserPatch
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.UpdateProfile(actor, id, data)
	if err != nil {
		return err
	}

	return c.JSON(user)
}

func deleteUser(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	if err := services.DeleteUser(actor, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

func changeUserPassword(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	var data struct {
		PasswordCurrent string `json:"password_current" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
		PasswordConfirm string `json:"password_confirm" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := services.ChangePassword(actor, id, data.PasswordCurrent, data.NewPassword, data.PasswordConfirm); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

func changeUserRole(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	var data struct {
		Role models.Role `json:"role" validate:"required,oneof=admin editor member"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, err := services.ChangeRole(actor, id, data.Role)
	if err != nil {
		return err
	}

	return c.JSON(user)
}
