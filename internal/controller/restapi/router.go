package restapi

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/Image-Gallery/config"
	v1 "github.com/andreyxaxa/Image-Gallery/internal/controller/restapi/v1"
	"github.com/andreyxaxa/Image-Gallery/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Image-Gallery/internal/usecase"
	"github.com/andreyxaxa/Image-Gallery/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	recoverer "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// @title Image Gallery
// @version 1.0.0
// @host localhost:8080
// @BasePath /
func NewRouter(app *fiber.App, cfg *config.Config, img usecase.ImageUseCase, l logger.Interface) {
	// Middleware
	app.Use(recoverer.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Window,
	}))

	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	v1.NewImageRoutes(app, cfg, img, l)
}

// ErrorHandler keeps the error envelope for anything that escapes the
// handlers (panics, unknown routes, body-limit rejections).
func ErrorHandler(cfg *config.Config, l logger.Interface) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status := http.StatusInternalServerError

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		if status >= http.StatusInternalServerError {
			l.Error(err, "restapi - ErrorHandler")
		}

		body := response.Error{Success: false, Error: err.Error()}
		if cfg.IsProduction() && status >= http.StatusInternalServerError {
			body.Error = "internal server error"
		}

		return ctx.Status(status).JSON(body)
	}
}
