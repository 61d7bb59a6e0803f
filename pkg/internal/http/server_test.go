package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{status.NotFound("post"), fiber.StatusNotFound},
		{status.Validation("blank"), fiber.StatusBadRequest},
		{status.Unauthorized("no actor"), fiber.StatusUnauthorized},
		{status.Forbidden("NotOwner", "no"), fiber.StatusForbidden},
		{status.Conflict(status.ReasonCategoryInUse, "referenced"), fiber.StatusConflict},
		{status.PartialReference("half applied", nil), fiber.StatusInternalServerError},
	}

	for _, tt := range cases {
		app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
		app.Get("/boom", func(c *fiber.Ctx) error {
			return tt.err
		})

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, tt.code, resp.StatusCode, tt.err.Error())
	}
}

func TestErrorHandlerPassesFiberErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
