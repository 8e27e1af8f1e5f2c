package usecase

import (
	"context"

	"github.com/andreyxaxa/Image-Gallery/internal/dto"
	"github.com/andreyxaxa/Image-Gallery/internal/entity"
)

type (
	ImageUseCase interface {
		Upload(ctx context.Context, data []byte, contentType string, opts dto.UploadOptions) (*entity.Asset, error)
		Get(ctx context.Context, publicID string) (*entity.Asset, error)
		Delete(ctx context.Context, publicID string) (bool, error)
		List(ctx context.Context, params dto.ListParams) (*entity.AssetPage, error)
		Search(ctx context.Context, params dto.SearchParams) (*entity.AssetPage, error)
		BulkDelete(ctx context.Context, publicIDs []string) (*entity.BulkDeleteResult, error)
		Usage(ctx context.Context) (*entity.Usage, error)
		Health(ctx context.Context) error
	}

	OptimizerUseCase interface {
		Optimize(ctx context.Context, contentType string, data []byte) []byte
	}
)
