package performance

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perfsvc "finance-manager/internal/application/performance"
	"finance-manager/internal/domain"
	"finance-manager/internal/infrastructure/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setupPerformanceTest(t *testing.T) *fiber.App {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	for i, ticker := range []string{"7203", "6758"} {
		a := domain.Asset{Name: ticker, Ticker: ticker, Type: domain.AssetTypeEquity, Quantity: 10}
		require.NoError(t, db.Create(&a).Error)
		for d := 1; d <= 3; d++ {
			require.NoError(t, database.RecordPrice(db, domain.PriceHistory{
				AssetID:  a.ID,
				Date:     datatypes.Date(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)),
				Price:    float64(100*(i+1) + 10*d),
				Quantity: 10,
			}))
		}
	}

	h := &Handlers{Service: &perfsvc.Service{DB: db}}
	app := fiber.New()
	app.Get("/performance", h.Get)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestGet_Performance(t *testing.T) {
	app := setupPerformanceTest(t)

	code, out := get(t, app, "/performance?start_date=2024-01-01&end_date=2024-01-03")
	require.Equal(t, http.StatusOK, code)
	data := out["data"].(map[string]interface{})
	total := data["total_performance"].([]interface{})
	require.Len(t, total, 3)
	first := total[0].(map[string]interface{})
	assert.Equal(t, "2024-01-01", first["date"])
	assert.Equal(t, 3200.0, first["value"])
	assert.Len(t, data["assets_performance"].([]interface{}), 2)
	assert.Contains(t, data, "stats")
}

func TestGet_FilterByAsset(t *testing.T) {
	app := setupPerformanceTest(t)

	code, out := get(t, app, "/performance?start_date=2024-01-01&end_date=2024-01-03&asset_ids=2")
	require.Equal(t, http.StatusOK, code)
	data := out["data"].(map[string]interface{})
	assets := data["assets_performance"].([]interface{})
	require.Len(t, assets, 1)
	assert.Equal(t, 2.0, assets[0].(map[string]interface{})["id"])
	assert.Len(t, data["total_performance"].([]interface{}), 3)
}

func TestGet_BadRequests(t *testing.T) {
	app := setupPerformanceTest(t)

	testCases := []struct {
		name    string
		target  string
		message string
	}{
		{"missing dates", "/performance", "Invalid date format, expected YYYY-MM-DD"},
		{"bad start", "/performance?start_date=01-01-2024&end_date=2024-01-03", "Invalid date format, expected YYYY-MM-DD"},
		{"bad end", "/performance?start_date=2024-01-01&end_date=2024-02-30", "Invalid date format, expected YYYY-MM-DD"},
		{"reversed", "/performance?start_date=2024-01-03&end_date=2024-01-01", "start date must not be after end date"},
		{"bad ids", "/performance?start_date=2024-01-01&end_date=2024-01-03&asset_ids=a,b", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, out := get(t, app, tc.target)
			assert.Equal(t, http.StatusBadRequest, code)
			if tc.message != "" {
				assert.Equal(t, tc.message, out["error"].(map[string]interface{})["message"])
			}
		})
	}
}
