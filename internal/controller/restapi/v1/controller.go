package v1

import (
	"github.com/andreyxaxa/Image-Gallery/config"
	"github.com/andreyxaxa/Image-Gallery/internal/usecase"
	"github.com/andreyxaxa/Image-Gallery/pkg/logger"
)

type V1 struct {
	img usecase.ImageUseCase

	maxFileSize int64
	allowedExts map[string]bool
	production  bool
	provider    string

	logger logger.Interface
}

func newV1(cfg *config.Config, img usecase.ImageUseCase, l logger.Interface) *V1 {
	exts := make(map[string]bool, len(cfg.Upload.AllowedFormats))
	for _, ext := range cfg.Upload.AllowedFormats {
		exts[ext] = true
	}

	return &V1{
		img:         img,
		maxFileSize: cfg.Upload.MaxFileSize,
		allowedExts: exts,
		production:  cfg.IsProduction(),
		provider:    cfg.Storage.Provider,
		logger:      l,
	}
}
