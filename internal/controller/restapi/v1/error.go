package v1

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/Image-Gallery/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Image-Gallery/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

// errorResponse is the single place errors become HTTP: the taxonomy maps
// to a status, everything else is an opaque 500.
func (r *V1) errorResponse(ctx *fiber.Ctx, err error) error {
	var (
		vErr *errs.ValidationError
		uErr *errs.UpstreamError
	)

	switch {
	case errors.As(err, &vErr):
		return r.respondError(ctx, http.StatusBadRequest, vErr.Message, err)

	case errors.Is(err, errs.ErrNotFound):
		return r.respondError(ctx, http.StatusNotFound, "Image not found", err)

	case errors.As(err, &uErr):
		status := uErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}

		r.logger.Error(err, "restapi - v1 - errorResponse")

		return r.respondError(ctx, status, uErr.Message, err)

	default:
		r.logger.Error(err, "restapi - v1 - errorResponse")

		return r.respondError(ctx, http.StatusInternalServerError, "internal server error", err)
	}
}

func (r *V1) respondError(ctx *fiber.Ctx, status int, message string, err error) error {
	body := response.Error{Success: false, Error: message}

	if !r.production && err != nil {
		body.Detail = err.Error()
	}

	return ctx.Status(status).JSON(body)
}
