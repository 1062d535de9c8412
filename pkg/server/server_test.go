package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/shopping-atlas/pkg/models/api"
	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/de-tools/shopping-atlas/pkg/services/dashboard"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer() *dashboard.Renderer {
	ds := domain.NewDataset([]domain.Purchase{
		{CustomerID: "1", Age: 25, Gender: "Male", Category: "Shoes", Item: "Boots", Amount: decimal.NewFromInt(50), Season: "Winter"},
		{CustomerID: "2", Age: 30, Gender: "Female", Category: "Shoes", Item: "Sandals", Amount: decimal.NewFromInt(30), Season: "Summer"},
		{CustomerID: "3", Age: 41, Gender: "Male", Category: "Clothing", Item: "Boots", Amount: decimal.NewFromInt(80), Season: "Winter"},
	}, nil)
	return dashboard.NewRenderer(ds, dashboard.NewMemoryEngine(ds, dashboard.DefaultSettings()))
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	config := Config{
		Addr:            ":8080",
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Dashboard: testRenderer(),
		},
	}
	testServer := httptest.NewServer(ConfigureRouter(logger, config))
	defer testServer.Close()

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		contentType    string
		check          func(*testing.T, []byte)
	}{
		{
			name:           "Filters",
			path:           "/api/v1/filters",
			expectedStatus: http.StatusOK,
			contentType:    "application/json",
			check: func(t *testing.T, body []byte) {
				var options api.FilterOptions
				require.NoError(t, json.Unmarshal(body, &options))
				assert.Equal(t, api.IntRange{Min: 25, Max: 41}, options.Age)
				assert.Equal(t, []string{"Shoes", "Clothing"}, options.Categories)
			},
		},
		{
			name:           "Dashboard",
			path:           "/api/v1/dashboard?gender=Male",
			expectedStatus: http.StatusOK,
			contentType:    "application/json",
			check: func(t *testing.T, body []byte) {
				var d api.Dashboard
				require.NoError(t, json.Unmarshal(body, &d))
				assert.Equal(t, 2, d.RowCount)
				assert.Equal(t, []api.TextOutput{
					{Label: "Average purchase amount (Male)", Value: "65.00"},
					{Label: "Average purchase amount (Female)", Value: "no data"},
				}, d.Texts)
			},
		},
		{
			name:           "Rows",
			path:           "/api/v1/dashboard/rows?offset=1&limit=1",
			expectedStatus: http.StatusOK,
			contentType:    "application/json",
			check: func(t *testing.T, body []byte) {
				var page api.RowsPage
				require.NoError(t, json.Unmarshal(body, &page))
				assert.Equal(t, 3, page.Total)
				require.Len(t, page.Rows, 1)
				assert.Equal(t, "2", page.Rows[0].CustomerID)
			},
		},
		{
			name:           "Chart",
			path:           "/api/v1/charts/season_mean.png",
			expectedStatus: http.StatusOK,
			contentType:    "image/png",
		},
		{
			name:           "Chart_NoData",
			path:           "/api/v1/charts/gender_share.png?item=",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Chart_Unknown",
			path:           "/api/v1/charts/revenue.png",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Dashboard_InvertedRange",
			path:           "/api/v1/dashboard?amount_min=90&amount_max=10",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Export",
			path:           "/api/v1/export.xlsx",
			expectedStatus: http.StatusOK,
			contentType:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(testServer.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
			if tc.contentType != "" {
				assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"))
			}

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")
			if tc.check != nil {
				tc.check(t, body)
			}
		})
	}
}

func TestWebAPI_CORS(t *testing.T) {
	config := Config{
		AllowedOrigins: []string{"http://localhost:3000"},
		Dependencies:   Dependencies{Dashboard: testRenderer()},
	}
	testServer := httptest.NewServer(ConfigureRouter(zerolog.Nop(), config))
	defer testServer.Close()

	req, err := http.NewRequest(http.MethodGet, testServer.URL+"/api/v1/filters", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
