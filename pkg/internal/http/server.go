package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/quillnet/quill/pkg/internal/http/api"
	"github.com/quillnet/quill/pkg/internal/status"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer() *App {
	app := fiber.New(fiber.Config{
		AppName:      "Quill",
		JSONEncoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		ErrorHandler: errorHandler,
	})

	app.Use(func(c *fiber.Ctx) error {
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)
		err := c.Next()
		log.Debug().
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Msg("Request handled.")
		return err
	})
	app.Use(authMiddleware)

	api.MapAPIs(app)

	return &App{app}
}

// errorHandler turns the error taxonomy into transport status codes,
// forwarding the message unmodified.
func errorHandler(c *fiber.Ctx, err error) error {
	if cast, ok := err.(*fiber.Error); ok {
		return c.Status(cast.Code).JSON(fiber.Map{"message": cast.Message})
	}

	code := fiber.StatusInternalServerError
	switch status.KindOf(err) {
	case status.KindNotFound:
		code = fiber.StatusNotFound
	case status.KindValidation:
		code = fiber.StatusBadRequest
	case status.KindUnauthorized:
		code = fiber.StatusUnauthorized
	case status.KindForbidden:
		code = fiber.StatusForbidden
	case status.KindConflict:
		code = fiber.StatusConflict
	case status.KindPartialReference:
		code = fiber.StatusInternalServerError
	}

	return c.Status(code).JSON(fiber.Map{
		"kind":    status.KindOf(err),
		"message": err.Error(),
	})
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting the http server.")
	}
}
