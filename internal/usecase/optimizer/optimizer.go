package optimizer

import (
	"context"

	"github.com/andreyxaxa/Image-Gallery/internal/infrastructure"
	"github.com/andreyxaxa/Image-Gallery/pkg/logger"
)

const svgContentType = "image/svg+xml"

type OptimizerUseCase struct {
	p infrastructure.ImageProcessor

	logger logger.Interface
}

func New(p infrastructure.ImageProcessor, l logger.Interface) *OptimizerUseCase {
	return &OptimizerUseCase{p: p, logger: l}
}

// Optimize returns the re-encoded buffer, or the original bytes untouched
// when the content is SVG or the processor fails. A failed optimization is
// logged and never fails the request.
func (uc *OptimizerUseCase) Optimize(ctx context.Context, contentType string, data []byte) []byte {
	if contentType == svgContentType {
		return data
	}

	out, err := uc.p.Process(ctx, contentType, data)
	if err != nil {
		uc.logger.Warn("optimization failed, keeping original bytes: %v", err)

		return data
	}

	return out
}
