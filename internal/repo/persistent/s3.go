package persistent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/andreyxaxa/Image-Gallery/internal/dto"
	"github.com/andreyxaxa/Image-Gallery/internal/entity"
	"github.com/andreyxaxa/Image-Gallery/pkg/s3client"
	"github.com/andreyxaxa/Image-Gallery/pkg/types/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	imagePrefix     = "images/"
	thumbnailPrefix = "thumbnails/"

	thumbnailSize = 200
)

// s3API is the slice of the S3 client the gateway actually calls.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Gateway serves the gateway contract from any S3-compatible store.
// Width/height/format/tags live in object metadata; the 200x200 thumbnail
// is materialized as a sibling object at upload time.
type S3Gateway struct {
	client s3API

	bucket       string
	publicURL    string
	storageLimit int64
}

func NewS3Gateway(s3c *s3client.S3Client, publicURL string, storageLimit int64) *S3Gateway {
	return &S3Gateway{
		client:       s3c.Client,
		bucket:       s3c.Bucket(),
		publicURL:    strings.TrimRight(publicURL, "/"),
		storageLimit: storageLimit,
	}
}

func (g *S3Gateway) Upload(ctx context.Context, data []byte, contentType string, opts dto.UploadOptions) (*entity.Asset, error) {
	publicID := opts.PublicID
	if publicID == "" {
		publicID = uuid.NewString()
	}
	if opts.Folder != "" {
		publicID = strings.TrimSuffix(opts.Folder, "/") + "/" + publicID
	}

	width, height, format := imageInfo(data, contentType)

	metadata := map[string]string{
		"width":  strconv.Itoa(width),
		"height": strconv.Itoa(height),
		"format": format,
	}
	if len(opts.Tags) > 0 {
		metadata["tags"] = strings.Join(opts.Tags, ",")
	}

	key := imagePrefix + publicID

	_, err := g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      metadata,
	})
	if err != nil {
		return nil, errs.Upstream(err, "S3Gateway - Upload - g.client.PutObject")
	}

	thumbKey := g.putThumbnail(ctx, publicID, data)

	asset := &entity.Asset{
		PublicID:     publicID,
		URL:          g.urlFor(key),
		Format:       format,
		Width:        width,
		Height:       height,
		Bytes:        int64(len(data)),
		CreatedAt:    time.Now().UTC(),
		ThumbnailURL: g.urlFor(thumbKey),
		Tags:         opts.Tags,
	}

	return asset, nil
}

func (g *S3Gateway) Fetch(ctx context.Context, publicID string) (*entity.Asset, error) {
	key := imagePrefix + publicID

	head, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, errs.ErrNotFound
		}

		return nil, errs.Upstream(err, "S3Gateway - Fetch - g.client.HeadObject")
	}

	return g.assetFromHead(publicID, head), nil
}

func (g *S3Gateway) Delete(ctx context.Context, publicID string) (bool, error) {
	key := imagePrefix + publicID

	// existence check makes delete-of-missing observable to the caller
	_, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}

		return false, errs.Upstream(err, "S3Gateway - Delete - g.client.HeadObject")
	}

	for _, k := range []string{key, thumbnailPrefix + publicID} {
		_, err = g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(g.bucket),
			Key:    aws.String(k),
		})
		if err != nil && k == key {
			return false, errs.Upstream(err, "S3Gateway - Delete - g.client.DeleteObject")
		}
	}

	return true, nil
}

func (g *S3Gateway) List(ctx context.Context, params dto.ListParams) (*entity.AssetPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(g.bucket),
		Prefix:  aws.String(imagePrefix + params.Prefix),
		MaxKeys: aws.Int32(int32(params.MaxResults)),
	}
	if params.NextCursor != "" {
		input.ContinuationToken = aws.String(params.NextCursor)
	}

	res, err := g.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, errs.Upstream(err, "S3Gateway - List - g.client.ListObjectsV2")
	}

	page := &entity.AssetPage{
		Assets:     make([]entity.Asset, 0, len(res.Contents)),
		TotalCount: int(aws.ToInt32(res.KeyCount)),
	}
	if aws.ToBool(res.IsTruncated) {
		page.NextCursor = aws.ToString(res.NextContinuationToken)
	}

	for _, obj := range res.Contents {
		publicID := strings.TrimPrefix(aws.ToString(obj.Key), imagePrefix)

		asset, err := g.Fetch(ctx, publicID)
		if err != nil {
			// listed a moment ago, fall back to what the listing carries
			asset = &entity.Asset{
				PublicID:     publicID,
				URL:          g.urlFor(aws.ToString(obj.Key)),
				Bytes:        aws.ToInt64(obj.Size),
				CreatedAt:    aws.ToTime(obj.LastModified),
				ThumbnailURL: g.urlFor(thumbnailPrefix + publicID),
			}
		}

		if !params.IncludeTags {
			asset.Tags = nil
		}

		page.Assets = append(page.Assets, *asset)
	}

	return page, nil
}

// Search matches the expression as a case-insensitive substring of the
// public id; S3-compatible stores have no server-side search index.
// The filter runs over one listing page at a time, so a page can come back
// empty while later pages still match, and TotalCount counts matches on
// the current page only. Callers follow NextCursor to exhaust the bucket.
func (g *S3Gateway) Search(ctx context.Context, params dto.SearchParams) (*entity.AssetPage, error) {
	page, err := g.List(ctx, dto.ListParams{
		MaxResults:  params.MaxResults,
		NextCursor:  params.NextCursor,
		IncludeTags: true,
	})
	if err != nil {
		return nil, fmt.Errorf("S3Gateway - Search - g.List: %w", err)
	}

	expr := strings.ToLower(params.Expression)
	matched := make([]entity.Asset, 0, len(page.Assets))

	for _, asset := range page.Assets {
		if strings.Contains(strings.ToLower(asset.PublicID), expr) {
			matched = append(matched, asset)
		}
	}

	page.Assets = matched
	page.TotalCount = len(matched)

	return page, nil
}

func (g *S3Gateway) BulkDelete(ctx context.Context, publicIDs []string) (*entity.BulkDeleteResult, error) {
	result := &entity.BulkDeleteResult{
		Deleted: make(map[string]string, len(publicIDs)),
	}

	// DeleteObjects reports success for keys that never existed, so the
	// per-id outcome needs an existence check up front.
	objects := make([]types.ObjectIdentifier, 0, len(publicIDs)*2)

	for _, id := range publicIDs {
		_, err := g.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(g.bucket),
			Key:    aws.String(imagePrefix + id),
		})
		if err != nil {
			var nf *types.NotFound
			if errors.As(err, &nf) {
				result.Deleted[id] = "not_found"
				result.Partial = true

				continue
			}

			return nil, errs.Upstream(err, "S3Gateway - BulkDelete - g.client.HeadObject")
		}

		objects = append(objects,
			types.ObjectIdentifier{Key: aws.String(imagePrefix + id)},
			types.ObjectIdentifier{Key: aws.String(thumbnailPrefix + id)},
		)
	}

	if len(objects) == 0 {
		return result, nil
	}

	res, err := g.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(g.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(false),
		},
	})
	if err != nil {
		return nil, errs.Upstream(err, "S3Gateway - BulkDelete - g.client.DeleteObjects")
	}

	for _, deleted := range res.Deleted {
		key := aws.ToString(deleted.Key)
		if !strings.HasPrefix(key, imagePrefix) {
			continue
		}

		result.Deleted[strings.TrimPrefix(key, imagePrefix)] = "deleted"
	}

	for _, failed := range res.Errors {
		key := aws.ToString(failed.Key)
		if !strings.HasPrefix(key, imagePrefix) {
			continue
		}

		result.Deleted[strings.TrimPrefix(key, imagePrefix)] = aws.ToString(failed.Code)
		result.Partial = true
	}

	return result, nil
}

// Usage reports real storage consumption against the configured limit.
// Bandwidth, transformation and credit accounting do not exist on an
// S3-compatible backend and read as zero usage.
func (g *S3Gateway) Usage(ctx context.Context) (*entity.Usage, error) {
	var used int64

	input := &s3.ListObjectsV2Input{Bucket: aws.String(g.bucket)}

	for {
		res, err := g.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, errs.Upstream(err, "S3Gateway - Usage - g.client.ListObjectsV2")
		}

		for _, obj := range res.Contents {
			used += aws.ToInt64(obj.Size)
		}

		if !aws.ToBool(res.IsTruncated) {
			break
		}

		input.ContinuationToken = res.NextContinuationToken
	}

	usage := &entity.Usage{
		Storage:         resourceUsage(float64(used), float64(g.storageLimit)),
		Bandwidth:       entity.ResourceUsage{},
		Transformations: entity.ResourceUsage{},
		Credits:         entity.ResourceUsage{},
	}

	return usage, nil
}

func (g *S3Gateway) Ping(ctx context.Context) error {
	_, err := g.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(g.bucket)})
	if err != nil {
		return errs.Upstream(err, "S3Gateway - Ping - g.client.HeadBucket")
	}

	return nil
}

func (g *S3Gateway) assetFromHead(publicID string, head *s3.HeadObjectOutput) *entity.Asset {
	asset := &entity.Asset{
		PublicID:     publicID,
		URL:          g.urlFor(imagePrefix + publicID),
		Bytes:        aws.ToInt64(head.ContentLength),
		CreatedAt:    aws.ToTime(head.LastModified),
		ThumbnailURL: g.urlFor(thumbnailPrefix + publicID),
	}

	asset.Format = head.Metadata["format"]
	asset.Width, _ = strconv.Atoi(head.Metadata["width"])
	asset.Height, _ = strconv.Atoi(head.Metadata["height"])

	if tags := head.Metadata["tags"]; tags != "" {
		asset.Tags = strings.Split(tags, ",")
	}

	return asset
}

// putThumbnail stores the 200x200 fill-crop next to the original.
// Best effort: vector or undecodable content keeps the original as its
// own thumbnail.
func (g *S3Gateway) putThumbnail(ctx context.Context, publicID string, data []byte) string {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return imagePrefix + publicID
	}

	thumb := imaging.Thumbnail(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return imagePrefix + publicID
	}

	key := thumbnailPrefix + publicID

	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(g.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String("image/jpeg"),
		ContentLength: aws.Int64(int64(buf.Len())),
	})
	if err != nil {
		return imagePrefix + publicID
	}

	return key
}

func (g *S3Gateway) urlFor(key string) string {
	return fmt.Sprintf("%s/%s/%s", g.publicURL, g.bucket, key)
}

func imageInfo(data []byte, contentType string) (width, height int, format string) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// vector or exotic content, fall back to the declared type
		return 0, 0, formatFromContentType(contentType)
	}

	return cfg.Width, cfg.Height, name
}

func formatFromContentType(contentType string) string {
	switch contentType {
	case "image/svg+xml":
		return "svg"
	case "image/jpeg", "image/jpg":
		return "jpg"
	default:
		return strings.TrimPrefix(contentType, "image/")
	}
}
