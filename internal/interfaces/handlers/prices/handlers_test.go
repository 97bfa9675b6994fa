package prices

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pricesvc "finance-manager/internal/application/prices"
	"finance-manager/internal/domain"
	"finance-manager/internal/infrastructure/database"
	"finance-manager/internal/infrastructure/quotes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPricesTest(t *testing.T) (*fiber.App, domain.Asset) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	a := domain.Asset{Name: "Toyota", Ticker: "7203", Type: domain.AssetTypeEquity, Quantity: 10, PurchasePrice: 2500, CurrentPrice: 2500}
	require.NoError(t, db.Create(&a).Error)

	h := &Handlers{Service: &pricesvc.Service{
		DB:           db,
		Provider:     quotes.NewFixture(map[string]float64{"7203.T": 2600}),
		SymbolSuffix: ".T",
	}}
	app := fiber.New()
	app.Post("/prices/update", h.Update)
	return app, a
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/prices/update", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestUpdate_Success(t *testing.T) {
	app, a := setupPricesTest(t)

	code, out := post(t, app, `{"asset_ids":[1, 2]}`)
	require.Equal(t, http.StatusOK, code)
	data := out["data"].(map[string]interface{})
	updated := data["updated_assets"].([]interface{})
	require.Len(t, updated, 1)
	assert.Equal(t, float64(a.ID), updated[0].(map[string]interface{})["id"])
	assert.Equal(t, 2600.0, updated[0].(map[string]interface{})["current_price"])
	failed := data["failed"].([]interface{})
	require.Len(t, failed, 1)
	assert.Equal(t, 2.0, failed[0].(map[string]interface{})["asset_id"])
	assert.Contains(t, data, "updated_at")
}

func TestUpdate_BadRequest(t *testing.T) {
	app, _ := setupPricesTest(t)

	code, _ := post(t, app, `{"asset_ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = post(t, app, `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = post(t, app, `{"asset_ids":["one"]}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
