package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/art-dzd/news-bot/internal/auth"
	"github.com/art-dzd/news-bot/internal/config"
	"github.com/art-dzd/news-bot/internal/history"
	"github.com/art-dzd/news-bot/internal/match"
	"github.com/art-dzd/news-bot/internal/pipeline"
	"github.com/art-dzd/news-bot/internal/source"
)

type emptyPortal struct{}

func (emptyPortal) Fetch(ctx context.Context) ([]history.ReferenceItem, error) { return nil, nil }

type emptyAggregator struct{}

func (emptyAggregator) Fetch(ctx context.Context) ([]source.Candidate, error) { return nil, nil }

type noopProvider struct{}

func (noopProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	return []float64{1}, nil
}

func newTestServer(t *testing.T, opsTokenHash string) *Server {
	t.Helper()

	cfg := &config.Config{
		StateDir:            t.TempDir(),
		SimilarityThreshold: 0.79,
		MaxCacheSize:        10,
		MaxNewsAgeDays:      2,
		CacheMaxAgeDays:     3,
		MaxAnalyzedURLs:     10,
		TargetLanguage:      "ru",
		Timezone:            "UTC",
	}
	store := history.NewStore(cfg.StateDir, cfg.MaxAnalyzedURLs, zerolog.Nop())
	service := pipeline.New(
		cfg, zerolog.Nop(), store,
		emptyPortal{}, emptyAggregator{}, nil,
		noopProvider{}, match.NewKeywordList(nil),
	)
	return NewServer(service, zerolog.Nop(), Options{OpsTokenHash: opsTokenHash})
}

func decodeJSend(t *testing.T, rec *httptest.ResponseRecorder) jsendResponse {
	t.Helper()
	var resp jsendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, "").buildEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp := decodeJSend(t, rec); resp.Status != "success" {
		t.Fatalf("jsend status = %q, want success", resp.Status)
	}
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, "").buildEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCacheEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, "").buildEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestFetchDisabledWithoutTokenHash(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, "").buildEcho()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when no token hash is configured", rec.Code)
	}
}

func TestFetchRejectsBadToken(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashToken("ops-secret")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}
	e := newTestServer(t, hash).buildEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/fetch", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", rec.Code)
	}
}

func TestFetchAcceptsValidToken(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashToken("ops-secret")
	if err != nil {
		t.Fatalf("HashToken: %v", err)
	}
	e := newTestServer(t, hash).buildEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fetch", nil)
	req.Header.Set("Authorization", "Bearer ops-secret")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}
	if resp := decodeJSend(t, rec); resp.Status != "success" {
		t.Fatalf("jsend status = %q, want success", resp.Status)
	}
}
