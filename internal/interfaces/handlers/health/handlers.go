package health

import (
	"encoding/json"
	"strconv"
	"time"

	healthsvc "finance-manager/internal/application/health"
	"finance-manager/internal/middleware"
	"finance-manager/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers holds dependencies for health endpoints. Rdb may be nil.
type Handlers struct {
	Rdb            *redis.Client
	DB             healthsvc.DBPinger
	HealthAdminKey string
}

// Reset clears health stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Forbidden(c, "Unauthorized")
	}
	if h.Rdb == nil {
		return response.Success(c, "Stats are not recorded without Redis", fiber.Map{"success": false}, nil)
	}
	ctx := c.Context()
	keys := []string{middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq, middleware.KeyErrorLog}
	if err := h.Rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	if err := h.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return err
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON returns health data as JSON: service, status, runtime, traffic, dependencies.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.Context(), h.Rdb, h.DB)
	out := map[string]interface{}{
		"service":      "finance-manager-api",
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	}
	code := fiber.StatusOK
	if result.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(out)
}

// Errors returns the last 50 error log entries from Redis (LRANGE health:global:error_log 0 49).
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.Rdb == nil {
		return c.JSON([]interface{}{})
	}
	entries, err := h.Rdb.LRange(c.Context(), middleware.KeyErrorLog, 0, 49).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	errs := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if _ = json.Unmarshal([]byte(s), &m); m != nil {
			errs = append(errs, m)
		}
	}
	return c.JSON(errs)
}

// Welcome answers GET / with the service name and its entry points.
func (h *Handlers) Welcome(c *fiber.Ctx) error {
	return response.Success(c, "Finance manager API", fiber.Map{
		"assets":      "/api/assets",
		"performance": "/api/performance",
		"prices":      "/api/prices/update",
		"health":      "/health/json",
	}, nil)
}
