package repo

import (
	"context"

	"github.com/andreyxaxa/Image-Gallery/internal/dto"
	"github.com/andreyxaxa/Image-Gallery/internal/entity"
)

type (
	// ImageGateway is the narrow seam to the external image-storage
	// provider. One concrete adapter per provider; orchestration never
	// sees provider wire details.
	ImageGateway interface {
		Upload(ctx context.Context, data []byte, contentType string, opts dto.UploadOptions) (*entity.Asset, error)
		Fetch(ctx context.Context, publicID string) (*entity.Asset, error)
		// Delete reports whether the asset existed; a missing asset is not an error.
		Delete(ctx context.Context, publicID string) (bool, error)
		List(ctx context.Context, params dto.ListParams) (*entity.AssetPage, error)
		Search(ctx context.Context, params dto.SearchParams) (*entity.AssetPage, error)
		BulkDelete(ctx context.Context, publicIDs []string) (*entity.BulkDeleteResult, error)
		Usage(ctx context.Context) (*entity.Usage, error)
		Ping(ctx context.Context) error
	}
)
