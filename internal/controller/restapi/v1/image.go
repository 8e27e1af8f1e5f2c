package v1

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/andreyxaxa/Image-Gallery/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Image-Gallery/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/Image-Gallery/internal/dto"
	"github.com/andreyxaxa/Image-Gallery/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// @Summary  	Upload image
// @Description Validates, optionally optimizes (resize to 4096px + recompress) and stores an image with the provider
// @Tags 		images
// @Accept 		mpfd
// @Produce 	json
// @Param 		image 	 formData file   true  "Image file (jpg, jpeg, png, gif, webp, svg)"
// @Param 		folder 	 formData string false "Destination folder (max 100 chars)"
// @Param 		publicId formData string false "Explicit identifier (max 100 chars)"
// @Param 		tags 	 formData string false "Comma-separated tags"
// @Param 		optimize formData bool   false "Re-encode before storing (default true)"
// @Success 	201 {object} response.Success
// @Failure 	400 {object} response.Error "Missing file or invalid parameters"
// @Failure 	500 {object} response.Error "Provider failure"
// @Router 		/images/upload [post]
func (r *V1) uploadImage(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("image")
	if err != nil {
		return r.errorResponse(ctx, errs.Validation("image file is required"))
	}

	// file validation first, options second, first failure short-circuits
	if err = validate.File(file, r.maxFileSize, r.allowedExts); err != nil {
		return r.errorResponse(ctx, err)
	}

	opts := dto.UploadOptions{
		Folder:   ctx.FormValue("folder"),
		PublicID: ctx.FormValue("publicId"),
		Tags:     parseTags(ctx.FormValue("tags")),
		Optimize: parseOptimize(ctx.FormValue("optimize")),
	}

	if err = validate.Options(&opts); err != nil {
		return r.errorResponse(ctx, err)
	}

	fileReader, err := file.Open()
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadImage")

		return r.errorResponse(ctx, err)
	}
	defer fileReader.Close()

	data, err := io.ReadAll(fileReader)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadImage")

		return r.errorResponse(ctx, err)
	}

	contentType := file.Header.Get("Content-Type")

	asset, err := r.img.Upload(ctx.UserContext(), data, contentType, opts)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	return ctx.Status(http.StatusCreated).JSON(response.OK(asset))
}

// @Summary 	Get image metadata
// @Tags 		images
// @Produce 	json
// @Param 		id path string true "Public ID (URL-encoded, may contain /)"
// @Success 	200 {object} response.Success
// @Failure 	404 {object} response.Error "Image not found"
// @Router 		/images/{id} [get]
func (r *V1) getImage(ctx *fiber.Ctx) error {
	publicID, err := pathID(ctx)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	asset, err := r.img.Get(ctx.UserContext(), publicID)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	return ctx.JSON(response.OK(asset))
}

// @Summary 	Delete image
// @Description Idempotent: deleting a missing image still succeeds
// @Tags 		images
// @Produce 	json
// @Param		id path string true "Public ID"
// @Success		200 {object} response.Success
// @Router 		/images/{id} [delete]
func (r *V1) deleteImage(ctx *fiber.Ctx) error {
	publicID, err := pathID(ctx)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	found, err := r.img.Delete(ctx.UserContext(), publicID)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	if !found {
		return ctx.JSON(response.Msg("Image not found, nothing to delete"))
	}

	return ctx.JSON(response.Msg("Image deleted successfully"))
}

// @Summary 	List images
// @Tags 		images
// @Produce 	json
// @Param 		maxResults query int    false "Page size, 1..500 (default 30)"
// @Param 		nextCursor query string false "Opaque continuation cursor"
// @Param 		prefix 	   query string false "Public ID prefix filter"
// @Param 		tags 	   query bool   false "Include tags in results"
// @Success 	200 {object} response.Success
// @Failure 	400 {object} response.Error
// @Router 		/images [get]
func (r *V1) listImages(ctx *fiber.Ctx) error {
	maxResults, err := queryMaxResults(ctx)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	params := dto.ListParams{
		MaxResults:  maxResults,
		NextCursor:  ctx.Query("nextCursor"),
		Prefix:      ctx.Query("prefix"),
		IncludeTags: ctx.QueryBool("tags"),
	}

	if err = validate.ListParams(&params); err != nil {
		return r.errorResponse(ctx, err)
	}

	page, err := r.img.List(ctx.UserContext(), params)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	return ctx.JSON(response.OK(page))
}

// @Summary 	Search images
// @Tags 		images
// @Produce 	json
// @Param 		expression query string true  "Provider search expression"
// @Param 		maxResults query int    false "Page size, 1..500 (default 30)"
// @Param 		nextCursor query string false "Opaque continuation cursor"
// @Success 	200 {object} response.Success
// @Failure 	400 {object} response.Error "Empty expression"
// @Router 		/images/search/query [get]
func (r *V1) searchImages(ctx *fiber.Ctx) error {
	maxResults, err := queryMaxResults(ctx)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	params := dto.SearchParams{
		Expression: ctx.Query("expression"),
		MaxResults: maxResults,
		NextCursor: ctx.Query("nextCursor"),
	}

	if err = validate.SearchParams(&params); err != nil {
		return r.errorResponse(ctx, err)
	}

	page, err := r.img.Search(ctx.UserContext(), params)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	return ctx.JSON(response.OK(page))
}

type bulkDeleteRequest struct {
	PublicIDs []string `json:"publicIds"`
}

// @Summary 	Bulk delete
// @Description Non-atomic: inspect the per-id map, partial=true on mixed outcomes
// @Tags 		images
// @Accept 		json
// @Produce 	json
// @Param 		request body bulkDeleteRequest true "1..100 unique public IDs"
// @Success 	200 {object} response.Success
// @Failure 	400 {object} response.Error
// @Router 		/images/bulk-delete [post]
func (r *V1) bulkDeleteImages(ctx *fiber.Ctx) error {
	var req bulkDeleteRequest

	if err := ctx.BodyParser(&req); err != nil {
		return r.errorResponse(ctx, errs.Validation("invalid request body: publicIds array expected"))
	}

	if err := validate.BulkDeleteIDs(req.PublicIDs); err != nil {
		return r.errorResponse(ctx, err)
	}

	result, err := r.img.BulkDelete(ctx.UserContext(), req.PublicIDs)
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	return ctx.JSON(response.OK(result))
}

// @Summary 	Usage stats
// @Description Storage, bandwidth, transformation and credit quota snapshots
// @Tags 		images
// @Produce 	json
// @Success 	200 {object} response.Success
// @Router 		/images/stats/usage [get]
func (r *V1) usageStats(ctx *fiber.Ctx) error {
	usage, err := r.img.Usage(ctx.UserContext())
	if err != nil {
		return r.errorResponse(ctx, err)
	}

	return ctx.JSON(response.OK(usage))
}

// queryMaxResults keeps an absent maxResults distinct from a present but
// unusable one: absent falls back to the default downstream, while an
// explicit zero or a non-numeric value is rejected.
func queryMaxResults(ctx *fiber.Ctx) (int, error) {
	raw := ctx.Query("maxResults")
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return 0, errs.Validation("maxResults must be an integer between %d and %d", validate.MinMaxResults, validate.MaxMaxResults)
	}

	return n, nil
}

func pathID(ctx *fiber.Ctx) (string, error) {
	raw := ctx.Params("+")
	if raw == "" {
		return "", errs.Validation("image id is required")
	}

	id, err := url.PathUnescape(raw)
	if err != nil {
		id = raw
	}

	return id, nil
}

func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}

	return tags
}

func parseOptimize(raw string) bool {
	if raw == "" {
		return true
	}

	optimize, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}

	return optimize
}
