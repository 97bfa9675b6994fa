package assets

import (
	"encoding/json"
	"errors"

	assetsvc "finance-manager/internal/application/assets"
	"finance-manager/internal/pkg/response"
	"finance-manager/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *assetsvc.Service
}

// fail maps service errors onto responses. Anything unexpected is returned
// to the global error handler.
func fail(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return response.BadRequest(c, verr.Error(), verr)
	case errors.Is(err, assetsvc.ErrNotFound):
		return response.NotFound(c, "Asset not found")
	default:
		return err
	}
}

func id(c *fiber.Ctx) (uint, error) {
	return validation.ParseID("id", c.Params("id"))
}

// GET /api/assets
func (h *Handlers) List(c *fiber.Ctx) error {
	p, err := h.Service.List(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Assets fetched successfully", p, fiber.Map{"count": len(p.Assets)})
}

// POST /api/assets, 201 with the created asset
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in assetsvc.CreateInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	a, err := h.Service.Create(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Asset created successfully", assetsvc.NewView(*a), nil)
}

// GET /api/assets/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	assetID, err := id(c)
	if err != nil {
		return fail(c, err)
	}
	a, err := h.Service.Get(c.Context(), assetID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Asset fetched successfully", assetsvc.NewView(*a), nil)
}

// PUT /api/assets/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	assetID, err := id(c)
	if err != nil {
		return fail(c, err)
	}
	var in assetsvc.UpdateInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return response.BadRequest(c, "Invalid request body", nil)
	}
	a, err := h.Service.Update(c.Context(), assetID, in)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Asset updated successfully", assetsvc.NewView(*a), nil)
}

// DELETE /api/assets/:id returns the deleted asset
func (h *Handlers) Delete(c *fiber.Ctx) error {
	assetID, err := id(c)
	if err != nil {
		return fail(c, err)
	}
	a, err := h.Service.Delete(c.Context(), assetID)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Asset deleted successfully", assetsvc.NewView(*a), nil)
}
