package performance

import (
	"errors"

	perfsvc "finance-manager/internal/application/performance"
	"finance-manager/internal/pkg/response"
	"finance-manager/internal/pkg/validation"
	"finance-manager/internal/portfolio"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *perfsvc.Service
}

const invalidDate = "Invalid date format, expected YYYY-MM-DD"

// GET /api/performance?start_date=&end_date=&asset_ids=1,2
func (h *Handlers) Get(c *fiber.Ctx) error {
	start, err := validation.ParseDate("start_date", c.Query("start_date"))
	if err != nil {
		return response.BadRequest(c, invalidDate, err)
	}
	end, err := validation.ParseDate("end_date", c.Query("end_date"))
	if err != nil {
		return response.BadRequest(c, invalidDate, err)
	}
	ids, err := validation.ParseIDs("asset_ids", c.Query("asset_ids"))
	if err != nil {
		return response.BadRequest(c, err.Error(), err)
	}

	res, err := h.Service.Get(c.Context(), perfsvc.Query{Start: start, End: end, AssetIDs: ids})
	if errors.Is(err, portfolio.ErrInvalidRange) {
		return response.BadRequest(c, err.Error(), nil)
	}
	if err != nil {
		return err
	}
	return response.Success(c, "Performance fetched successfully", res, fiber.Map{
		"start_date": start.Format(portfolio.DateLayout),
		"end_date":   end.Format(portfolio.DateLayout),
	})
}
