package internal

import (
	"emd/internal/controllers"
	"emd/internal/services"
	"emd/internal/structures"
	"emd/internal/testutil"
	"emd/internal/upstream"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeTestCache struct{}

func (m *routeTestCache) Get(_ string) ([]byte, bool) { return nil, false }
func (m *routeTestCache) Set(_ string, _ []byte)      {}

func routeTestController() (*controllers.DashboardController, *structures.Config) {
	conf := &structures.Config{
		Upstream: structures.Upstream{
			BaseUrl:           "http://127.0.0.1:1",
			RequestTimeout:    time.Second,
			BootstrapAttempts: 1,
		},
		Window: structures.WindowConfig{DefaultHours: 24},
	}
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	client := &testutil.MockUpstream{}
	fetcher := upstream.NewRetryingFetcher(conf, logger, metrics)
	fetcher.Sleep = func(time.Duration) {}

	query := services.NewQueryService(conf, client, logger, metrics)
	search := services.NewSearchService(client, logger)
	accounts := services.NewAccountService(client, fetcher, logger)
	return controllers.NewDashboardController(logger, query, search, accounts, &routeTestCache{}), conf
}

func TestInitRoutes_RegistersSevenRoutes(t *testing.T) {
	dc, conf := routeTestController()

	router := InitRoutes(dc, conf)
	routes := router.GetRoutes()

	require.Len(t, routes, 7)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/snapshot")
	assert.Contains(t, urls, "/window")
	assert.Contains(t, urls, "/window/unit")
	assert.Contains(t, urls, "/refresh")
	assert.Contains(t, urls, "/search")
	assert.Contains(t, urls, "/accounts")
	assert.Contains(t, urls, "/select-account")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	dc, conf := routeTestController()

	router := InitRoutes(dc, conf)
	routes := router.GetRoutes()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	// GET /snapshot with POST should fail
	req := httptest.NewRequest(http.MethodPost, "/snapshot", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST /window with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/window", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestInitRoutes_SnapshotServes(t *testing.T) {
	dc, conf := routeTestController()

	router := InitRoutes(dc, conf)
	mux := http.NewServeMux()
	for _, r := range router.GetRoutes() {
		mux.Handle(r.Url, r.Handler)
	}

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}
