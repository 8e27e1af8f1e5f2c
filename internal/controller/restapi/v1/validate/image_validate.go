package validate

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/andreyxaxa/Image-Gallery/internal/dto"
	"github.com/andreyxaxa/Image-Gallery/pkg/types/errs"
	"github.com/go-playground/validator/v10"
)

const (
	MaxFolderLen   = 100
	MaxPublicIDLen = 100

	MinBulkDeleteIDs = 1
	MaxBulkDeleteIDs = 100

	MinMaxResults     = 1
	MaxMaxResults     = 500
	DefaultMaxResults = 30
)

var AllowedContentTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

var v = validator.New()

// File rejects the upload before any bytes are read: presence, size
// ceiling, extension allow-list, declared media type.
func File(file *multipart.FileHeader, maxSize int64, allowedExts map[string]bool) error {
	if file == nil {
		return errs.Validation("image file is required")
	}

	if file.Size == 0 {
		return errs.Validation("image file is empty")
	}

	if file.Size > maxSize {
		return errs.Validation("file size cant be more than %d bytes", maxSize)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !allowedExts[ext] {
		return errs.Validation("unsupported file extension %q", ext)
	}

	contentType := file.Header.Get("Content-Type")
	if !AllowedContentTypes[contentType] {
		return errs.Validation("unsupported file type. Allowed: jpeg, png, gif, webp, svg")
	}

	return nil
}

func Options(opts *dto.UploadOptions) error {
	if err := v.Struct(opts); err != nil {
		return errs.Validation("invalid upload options: %v", err)
	}

	return nil
}

func ListParams(params *dto.ListParams) error {
	if params.MaxResults == 0 {
		params.MaxResults = DefaultMaxResults
	}

	if err := v.Struct(params); err != nil {
		return errs.Validation("maxResults must be between %d and %d", MinMaxResults, MaxMaxResults)
	}

	return nil
}

func SearchParams(params *dto.SearchParams) error {
	if strings.TrimSpace(params.Expression) == "" {
		return errs.Validation("search expression is required")
	}

	if params.MaxResults == 0 {
		params.MaxResults = DefaultMaxResults
	}

	if err := v.Struct(params); err != nil {
		return errs.Validation("maxResults must be between %d and %d", MinMaxResults, MaxMaxResults)
	}

	return nil
}

func BulkDeleteIDs(publicIDs []string) error {
	if len(publicIDs) < MinBulkDeleteIDs || len(publicIDs) > MaxBulkDeleteIDs {
		return errs.Validation("publicIds must contain between %d and %d identifiers", MinBulkDeleteIDs, MaxBulkDeleteIDs)
	}

	seen := make(map[string]bool, len(publicIDs))
	for _, id := range publicIDs {
		if id == "" {
			return errs.Validation("publicIds must not contain empty identifiers")
		}
		if seen[id] {
			return errs.Validation("publicIds must be unique, %q repeats", id)
		}
		seen[id] = true
	}

	return nil
}
