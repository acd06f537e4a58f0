package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/cryptofolio/internal/app"
	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/models"
	"github.com/bobmcallan/cryptofolio/internal/services/report"
	"github.com/bobmcallan/cryptofolio/internal/storage/statefs"
)

// --- mocks ---

type mockPortfolioService struct {
	summary *models.PortfolioSummary
	err     error
	last    *models.PortfolioSummary
	runs    int
}

func (m *mockPortfolioService) Evaluate(_ context.Context, _ *models.PositionSheet, _ map[string]float64) (*models.PortfolioSummary, error) {
	return m.summary, m.err
}

func (m *mockPortfolioService) EvaluateStored(_ context.Context) (*models.PortfolioSummary, error) {
	m.runs++
	return m.summary, m.err
}

func (m *mockPortfolioService) LastSummary() *models.PortfolioSummary {
	return m.last
}

type mockCatalogService struct {
	entries []models.CatalogEntry
	err     error
}

func (m *mockCatalogService) Get(_ context.Context) ([]models.CatalogEntry, error) {
	return m.entries, m.err
}

func (m *mockCatalogService) Refresh(_ context.Context) ([]models.CatalogEntry, error) {
	return m.entries, m.err
}

// --- helpers ---

func testSummary() *models.PortfolioSummary {
	return &models.PortfolioSummary{
		RunID: "run-1",
		Records: []models.ActivationRecord{
			{Token: "BTC", MarketID: "bitcoin", TargetPercent: 100, ActivatedFraction: 1, ActivatedPercent: 100},
		},
		ActiveAllocPct: 100,
	}
}

func newTestServer(t *testing.T, pf *mockPortfolioService, cat *mockCatalogService) *Server {
	t.Helper()
	logger := common.NewSilentLogger()

	store, err := statefs.NewStore(logger, t.TempDir())
	require.NoError(t, err)

	if pf == nil {
		pf = &mockPortfolioService{summary: testSummary()}
	}
	if cat == nil {
		cat = &mockCatalogService{}
	}

	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           logger,
		Storage:          store,
		CatalogService:   cat,
		PortfolioService: pf,
		ReportService:    report.NewService(logger),
	}
	return NewServer(a)
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(s, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(s, http.MethodGet, "/api/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version"`)
}

func TestHandlePositions_UploadAndFetch(t *testing.T) {
	s := newTestServer(t, nil, nil)

	csv := "Token,Target Allocation,entry/%(50%)\nBTC,60,60000\nUSDT,40,\n"
	rec := doRequest(s, http.MethodPost, "/api/positions", csv)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"BTC"`)

	rec = doRequest(s, http.MethodGet, "/api/positions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"USDT"`)
}

func TestHandlePositions_BadSheet(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(s, http.MethodPost, "/api/positions", "Symbol\nBTC\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePositions_NoSheet(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(s, http.MethodGet, "/api/positions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleOverrides_RoundTrip(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(s, http.MethodPut, "/api/overrides", `{"BTC": 0.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/overrides", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"BTC":0.5`)
}

func TestHandleOverrides_RejectsOutOfRange(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(s, http.MethodPut, "/api/overrides", `{"BTC": 1.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodPut, "/api/overrides", `{"BTC": -0.1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleOverrides_EmptyWhenUnset(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(s, http.MethodGet, "/api/overrides", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{}\n", rec.Body.String())
}

func TestHandleEvaluate(t *testing.T) {
	pf := &mockPortfolioService{summary: testSummary()}
	s := newTestServer(t, pf, nil)

	rec := doRequest(s, http.MethodPost, "/api/evaluate", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"run-1"`)
	assert.Equal(t, 1, pf.runs)
}

func TestHandleEvaluate_NoSheet(t *testing.T) {
	pf := &mockPortfolioService{err: fmt.Errorf("no position sheet uploaded")}
	s := newTestServer(t, pf, nil)

	rec := doRequest(s, http.MethodPost, "/api/evaluate", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleReport_UsesLastSummary(t *testing.T) {
	pf := &mockPortfolioService{last: testSummary()}
	s := newTestServer(t, pf, nil)

	rec := doRequest(s, http.MethodGet, "/api/report", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"run-1"`)
	// Cached summary served without a fresh evaluation.
	assert.Equal(t, 0, pf.runs)
}

func TestHandleReport_EvaluatesWhenNoPriorRun(t *testing.T) {
	pf := &mockPortfolioService{summary: testSummary()}
	s := newTestServer(t, pf, nil)

	rec := doRequest(s, http.MethodGet, "/api/report", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, pf.runs)
}

func TestHandleReportPDF(t *testing.T) {
	pf := &mockPortfolioService{last: testSummary()}
	s := newTestServer(t, pf, nil)

	rec := doRequest(s, http.MethodGet, "/api/report/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", rec.Body.String()[:4])
}

func TestHandleCatalogRefresh(t *testing.T) {
	cat := &mockCatalogService{entries: []models.CatalogEntry{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}}}
	s := newTestServer(t, nil, cat)

	rec := doRequest(s, http.MethodPost, "/api/catalog/refresh", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"coins":1`)
}

func TestHandleCatalogRefresh_UpstreamFailure(t *testing.T) {
	cat := &mockCatalogService{err: fmt.Errorf("rate limited")}
	s := newTestServer(t, nil, cat)

	rec := doRequest(s, http.MethodPost, "/api/catalog/refresh", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doRequest(s, http.MethodDelete, "/api/positions", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/evaluate", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
