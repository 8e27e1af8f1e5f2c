package persistent

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/andreyxaxa/Image-Gallery/internal/dto"
	"github.com/andreyxaxa/Image-Gallery/internal/entity"
	"github.com/andreyxaxa/Image-Gallery/pkg/cloudinaryclient"
	"github.com/andreyxaxa/Image-Gallery/pkg/types/errs"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/admin/search"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// thumbnailTransformation derives the 200x200 gallery thumbnail from the
// public id. Deterministic, no extra round-trip.
const thumbnailTransformation = "c_fill,h_200,w_200/q_auto/f_auto"

type CloudinaryGateway struct {
	c *cloudinaryclient.Client
}

func NewCloudinaryGateway(c *cloudinaryclient.Client) *CloudinaryGateway {
	return &CloudinaryGateway{c: c}
}

func (g *CloudinaryGateway) Upload(ctx context.Context, data []byte, contentType string, opts dto.UploadOptions) (*entity.Asset, error) {
	params := uploader.UploadParams{
		PublicID: opts.PublicID,
		Folder:   opts.Folder,
		Tags:     api.CldAPIArray(opts.Tags),
	}

	res, err := g.c.Cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return nil, errs.Upstream(err, "CloudinaryGateway - Upload")
	}

	if res.Error.Message != "" {
		return nil, &errs.UpstreamError{Message: res.Error.Message}
	}

	asset := &entity.Asset{
		PublicID:     res.PublicID,
		URL:          res.SecureURL,
		Format:       res.Format,
		Width:        res.Width,
		Height:       res.Height,
		Bytes:        int64(res.Bytes),
		CreatedAt:    res.CreatedAt,
		ThumbnailURL: g.thumbnailURL(res.PublicID),
		Tags:         []string(res.Tags),
	}

	return asset, nil
}

func (g *CloudinaryGateway) Fetch(ctx context.Context, publicID string) (*entity.Asset, error) {
	res, err := g.c.Cld.Admin.Asset(ctx, admin.AssetParams{PublicID: publicID})
	if err != nil {
		return nil, errs.Upstream(err, "CloudinaryGateway - Fetch")
	}

	if res.Error.Message != "" {
		if strings.Contains(strings.ToLower(res.Error.Message), "not found") {
			return nil, errs.ErrNotFound
		}

		return nil, &errs.UpstreamError{Message: res.Error.Message}
	}

	asset := &entity.Asset{
		PublicID:     res.PublicID,
		URL:          res.SecureURL,
		Format:       res.Format,
		Width:        res.Width,
		Height:       res.Height,
		Bytes:        int64(res.Bytes),
		CreatedAt:    res.CreatedAt,
		ThumbnailURL: g.thumbnailURL(res.PublicID),
		Tags:         []string(res.Tags),
	}

	return asset, nil
}

func (g *CloudinaryGateway) Delete(ctx context.Context, publicID string) (bool, error) {
	res, err := g.c.Cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return false, errs.Upstream(err, "CloudinaryGateway - Delete")
	}

	switch res.Result {
	case "ok":
		return true, nil
	case "not found":
		return false, nil
	default:
		return false, &errs.UpstreamError{Message: fmt.Sprintf("CloudinaryGateway - Delete - unexpected result: %s", res.Result)}
	}
}

func (g *CloudinaryGateway) List(ctx context.Context, params dto.ListParams) (*entity.AssetPage, error) {
	res, err := g.c.Cld.Admin.Assets(ctx, admin.AssetsParams{
		AssetType:  api.Image,
		MaxResults: params.MaxResults,
		NextCursor: params.NextCursor,
		Prefix:     params.Prefix,
		Tags:       api.Bool(params.IncludeTags),
	})
	if err != nil {
		return nil, errs.Upstream(err, "CloudinaryGateway - List")
	}

	if res.Error.Message != "" {
		return nil, &errs.UpstreamError{Message: res.Error.Message}
	}

	page := &entity.AssetPage{
		Assets:     make([]entity.Asset, 0, len(res.Assets)),
		TotalCount: res.TotalCount,
		NextCursor: res.NextCursor,
	}

	for _, a := range res.Assets {
		page.Assets = append(page.Assets, entity.Asset{
			PublicID:     a.PublicID,
			URL:          a.SecureURL,
			Format:       a.Format,
			Width:        a.Width,
			Height:       a.Height,
			Bytes:        int64(a.Bytes),
			CreatedAt:    a.CreatedAt,
			ThumbnailURL: g.thumbnailURL(a.PublicID),
			Tags:         []string(a.Tags),
		})
	}

	return page, nil
}

func (g *CloudinaryGateway) Search(ctx context.Context, params dto.SearchParams) (*entity.AssetPage, error) {
	res, err := g.c.Cld.Admin.Search(ctx, search.Query{
		Expression: params.Expression,
		MaxResults: params.MaxResults,
		NextCursor: params.NextCursor,
	})
	if err != nil {
		return nil, errs.Upstream(err, "CloudinaryGateway - Search")
	}

	if res.Error.Message != "" {
		return nil, &errs.UpstreamError{Message: res.Error.Message}
	}

	page := &entity.AssetPage{
		Assets:     make([]entity.Asset, 0, len(res.Assets)),
		TotalCount: res.TotalCount,
		NextCursor: res.NextCursor,
	}

	for _, a := range res.Assets {
		page.Assets = append(page.Assets, entity.Asset{
			PublicID:     a.PublicID,
			URL:          a.SecureURL,
			Format:       a.Format,
			Width:        a.Width,
			Height:       a.Height,
			Bytes:        int64(a.Bytes),
			CreatedAt:    a.CreatedAt,
			ThumbnailURL: g.thumbnailURL(a.PublicID),
			Tags:         []string(a.Tags),
		})
	}

	return page, nil
}

func (g *CloudinaryGateway) BulkDelete(ctx context.Context, publicIDs []string) (*entity.BulkDeleteResult, error) {
	res, err := g.c.Cld.Admin.DeleteAssets(ctx, admin.DeleteAssetsParams{
		PublicIDs: api.CldAPIArray(publicIDs),
	})
	if err != nil {
		return nil, errs.Upstream(err, "CloudinaryGateway - BulkDelete")
	}

	if res.Error.Message != "" {
		return nil, &errs.UpstreamError{Message: res.Error.Message}
	}

	result := &entity.BulkDeleteResult{
		Deleted: make(map[string]string, len(res.Deleted)),
		Partial: res.Partial,
	}

	for id, status := range res.Deleted {
		result.Deleted[id] = status

		if status != "deleted" {
			result.Partial = true
		}
	}

	return result, nil
}

func (g *CloudinaryGateway) Usage(ctx context.Context) (*entity.Usage, error) {
	res, err := g.c.Cld.Admin.Usage(ctx, admin.UsageParams{})
	if err != nil {
		return nil, errs.Upstream(err, "CloudinaryGateway - Usage")
	}

	if res.Error.Message != "" {
		return nil, &errs.UpstreamError{Message: res.Error.Message}
	}

	usage := &entity.Usage{
		Plan:            res.Plan,
		Storage:         resourceUsage(float64(res.Storage.Usage), float64(res.Storage.Limit)),
		Bandwidth:       resourceUsage(float64(res.Bandwidth.Usage), float64(res.Bandwidth.Limit)),
		Transformations: resourceUsage(float64(res.Transformations.Usage), float64(res.Transformations.Limit)),
		Credits:         resourceUsage(res.Credits.Usage, res.Credits.Limit),
	}

	return usage, nil
}

func (g *CloudinaryGateway) Ping(ctx context.Context) error {
	res, err := g.c.Cld.Admin.Ping(ctx)
	if err != nil {
		return errs.Upstream(err, "CloudinaryGateway - Ping")
	}

	if res.Status != "ok" {
		return &errs.UpstreamError{Message: fmt.Sprintf("CloudinaryGateway - Ping - status: %s", res.Status)}
	}

	return nil
}

func (g *CloudinaryGateway) thumbnailURL(publicID string) string {
	img, err := g.c.Cld.Image(publicID)
	if err != nil {
		return ""
	}

	img.Transformation = thumbnailTransformation

	u, err := img.String()
	if err != nil {
		return ""
	}

	return u
}

func resourceUsage(used, limit float64) entity.ResourceUsage {
	r := entity.ResourceUsage{Used: used, Limit: limit}

	if limit > 0 {
		r.PercentUsed = used / limit * 100
	}

	return r
}
