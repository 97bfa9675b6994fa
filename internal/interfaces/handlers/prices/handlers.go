package prices

import (
	"encoding/json"
	"errors"

	pricesvc "finance-manager/internal/application/prices"
	"finance-manager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *pricesvc.Service
}

type updateRequest struct {
	AssetIDs []uint `json:"asset_ids"`
}

// POST /api/prices/update refreshes the listed assets. Per-asset failures
// are reported in the body, not as an error status.
func (h *Handlers) Update(c *fiber.Ctx) error {
	var body updateRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	res, err := h.Service.Update(c.Context(), body.AssetIDs)
	if errors.Is(err, pricesvc.ErrNoAssetIDs) {
		return response.BadRequest(c, err.Error(), nil)
	}
	if err != nil {
		return err
	}
	return response.Success(c, "Prices updated", res, fiber.Map{
		"updated": len(res.UpdatedAssets),
		"failed":  len(res.Failed),
	})
}
