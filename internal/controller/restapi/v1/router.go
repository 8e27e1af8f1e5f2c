package v1

import (
	"github.com/andreyxaxa/Image-Gallery/config"
	"github.com/andreyxaxa/Image-Gallery/internal/usecase"
	"github.com/andreyxaxa/Image-Gallery/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewImageRoutes(app fiber.Router, cfg *config.Config, img usecase.ImageUseCase, l logger.Interface) {
	r := newV1(cfg, img, l)

	app.Get("/health", r.health)

	imagesGroup := app.Group("/images")
	{
		// API
		imagesGroup.Post("/upload", r.uploadImage)
		imagesGroup.Post("/bulk-delete", r.bulkDeleteImages)
		imagesGroup.Get("/stats/usage", r.usageStats)
		imagesGroup.Get("/search/query", r.searchImages)
		imagesGroup.Get("/", r.listImages)
		// registered last, the wildcard swallows ids with slashes
		imagesGroup.Get("/+", r.getImage)
		imagesGroup.Delete("/+", r.deleteImage)
	}

	// UI
	app.Get("/", r.showUI)
}
