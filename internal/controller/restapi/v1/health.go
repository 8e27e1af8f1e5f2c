package v1

import (
	"net/http"

	"github.com/andreyxaxa/Image-Gallery/internal/controller/restapi/v1/response"
	"github.com/gofiber/fiber/v2"
)

// @Summary 	Liveness + provider reachability
// @Tags 		health
// @Produce 	json
// @Success 	200 {object} response.Success
// @Failure 	503 {object} response.Error "Provider unreachable"
// @Router 		/health [get]
func (r *V1) health(ctx *fiber.Ctx) error {
	if err := r.img.Health(ctx.UserContext()); err != nil {
		r.logger.Error(err, "restapi - v1 - health")

		return r.respondError(ctx, http.StatusServiceUnavailable, "storage provider unreachable", err)
	}

	return ctx.JSON(response.OK(fiber.Map{
		"status":   "ok",
		"provider": r.provider,
	}))
}
