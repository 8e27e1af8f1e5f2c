package image

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Image-Gallery/internal/dto"
	"github.com/andreyxaxa/Image-Gallery/internal/entity"
	"github.com/andreyxaxa/Image-Gallery/internal/repo"
	"github.com/andreyxaxa/Image-Gallery/internal/usecase"
	"github.com/andreyxaxa/Image-Gallery/pkg/logger"
)

type ImageUseCase struct {
	gateway   repo.ImageGateway
	optimizer usecase.OptimizerUseCase

	logger logger.Interface
}

func New(gateway repo.ImageGateway, optimizer usecase.OptimizerUseCase, l logger.Interface) *ImageUseCase {
	return &ImageUseCase{
		gateway:   gateway,
		optimizer: optimizer,
		logger:    l,
	}
}

func (uc *ImageUseCase) Upload(ctx context.Context, data []byte, contentType string, opts dto.UploadOptions) (*entity.Asset, error) {
	if opts.Optimize {
		data = uc.optimizer.Optimize(ctx, contentType, data)
	}

	asset, err := uc.gateway.Upload(ctx, data, contentType, opts)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - Upload - uc.gateway.Upload: %w", err)
	}

	return asset, nil
}

func (uc *ImageUseCase) Get(ctx context.Context, publicID string) (*entity.Asset, error) {
	asset, err := uc.gateway.Fetch(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - Get - uc.gateway.Fetch: %w", err)
	}

	return asset, nil
}

// Delete is idempotent: a missing asset is reported as found=false, not
// as an error.
func (uc *ImageUseCase) Delete(ctx context.Context, publicID string) (bool, error) {
	found, err := uc.gateway.Delete(ctx, publicID)
	if err != nil {
		return false, fmt.Errorf("ImageUseCase - Delete - uc.gateway.Delete: %w", err)
	}

	return found, nil
}

func (uc *ImageUseCase) List(ctx context.Context, params dto.ListParams) (*entity.AssetPage, error) {
	page, err := uc.gateway.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - List - uc.gateway.List: %w", err)
	}

	return page, nil
}

func (uc *ImageUseCase) Search(ctx context.Context, params dto.SearchParams) (*entity.AssetPage, error) {
	page, err := uc.gateway.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - Search - uc.gateway.Search: %w", err)
	}

	return page, nil
}

func (uc *ImageUseCase) BulkDelete(ctx context.Context, publicIDs []string) (*entity.BulkDeleteResult, error) {
	result, err := uc.gateway.BulkDelete(ctx, publicIDs)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - BulkDelete - uc.gateway.BulkDelete: %w", err)
	}

	if result.Partial {
		uc.logger.Warn("bulk delete finished partially, deleted=%d of %d requested", len(result.Deleted), len(publicIDs))
	}

	return result, nil
}

func (uc *ImageUseCase) Usage(ctx context.Context) (*entity.Usage, error) {
	usage, err := uc.gateway.Usage(ctx)
	if err != nil {
		return nil, fmt.Errorf("ImageUseCase - Usage - uc.gateway.Usage: %w", err)
	}

	return usage, nil
}

func (uc *ImageUseCase) Health(ctx context.Context) error {
	if err := uc.gateway.Ping(ctx); err != nil {
		return fmt.Errorf("ImageUseCase - Health - uc.gateway.Ping: %w", err)
	}

	return nil
}
