package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevinmichaelchen/portfolio-feed/internal/config"
	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
	"github.com/kevinmichaelchen/portfolio-feed/internal/github"
	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
	"github.com/kevinmichaelchen/portfolio-feed/internal/render"
)

type stubLister struct {
	repos    []models.Repo
	err      error
	accounts []string
}

func (s *stubLister) ListRepos(_ context.Context, account string) ([]models.Repo, error) {
	s.accounts = append(s.accounts, account)
	return s.repos, s.err
}

type noReadmes struct{}

func (noReadmes) FetchReadme(context.Context, string, string, string, string) (string, error) {
	return "", &github.APIError{StatusCode: http.StatusNotFound}
}

func testConfig() *config.Config {
	return &config.Config{
		Feed:   config.FeedConfig{Account: "octo", MaxCards: 9, DescriptionPolicy: "require"},
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		Site:   config.SiteConfig{Title: "Octo"},
	}
}

func testRepos(n int) []models.Repo {
	var repos []models.Repo
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		desc := fmt.Sprintf("Project %d", i)
		repos = append(repos, models.Repo{
			Name:          fmt.Sprintf("repo-%d", i),
			HTMLURL:       fmt.Sprintf("https://github.com/octo/repo-%d", i),
			Description:   &desc,
			DefaultBranch: "main",
			UpdatedAt:     base.Add(time.Duration(i) * time.Hour),
		})
	}
	return repos
}

func newTestServer(t *testing.T, lister feed.RepoLister) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := render.New()
	require.NoError(t, err)

	widget := feed.NewWidget(lister, noReadmes{}, zap.NewNop())
	srv := New(testConfig(), widget, renderer, zap.NewNop())
	srv.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }
	return srv.Router()
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) feed.Result {
	t.Helper()
	var res feed.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHealth(t *testing.T) {
	router := newTestServer(t, &stubLister{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestFeed_Defaults(t *testing.T) {
	lister := &stubLister{repos: testRepos(12)}
	router := newTestServer(t, lister)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, feed.KindOK, res.Status.Kind)
	assert.Len(t, res.Cards, 9)
	assert.Equal(t, "repo-11", res.Cards[0].Name)
	assert.Equal(t, []string{"octo"}, lister.accounts)
}

func TestFeed_QueryParams(t *testing.T) {
	lister := &stubLister{repos: testRepos(5)}
	router := newTestServer(t, lister)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feed?account=someone&max=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Len(t, res.Cards, 2)
	assert.Contains(t, res.Status.Message, "(@someone)")
	assert.Equal(t, []string{"someone"}, lister.accounts)
}

func TestFeed_BadMax(t *testing.T) {
	lister := &stubLister{}
	router := newTestServer(t, lister)

	for _, q := range []string{"max=abc", "max=0", "max=-3"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feed?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	assert.Empty(t, lister.accounts)
}

func TestFeed_RateLimited(t *testing.T) {
	router := newTestServer(t, &stubLister{err: fmt.Errorf("listing: %w", github.ErrRateLimited)})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, feed.KindRateLimited, res.Status.Kind)
	assert.Empty(t, res.Cards)
	assert.Contains(t, w.Body.String(), `"cards":[]`)
}

func TestPage(t *testing.T) {
	router := newTestServer(t, &stubLister{repos: testRepos(2)})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Auto-synced from GitHub: showing 2 repos (@octo)")
	assert.Equal(t, 2, strings.Count(body, `class="project card soft"`))
	assert.Contains(t, body, `<span id="year">2026</span>`)
}

func TestPage_Empty(t *testing.T) {
	router := newTestServer(t, &stubLister{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No repos with descriptions found")
	assert.NotContains(t, w.Body.String(), `class="project card soft"`)
}

func TestRequestOrigin(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://octo.dev/", nil)
	assert.Equal(t, "http://octo.dev/", requestOrigin(r))

	r.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	assert.Equal(t, "https://octo.dev/", requestOrigin(r))
}

func TestCORS(t *testing.T) {
	router := newTestServer(t, &stubLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://elsewhere.dev")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsConfig(t *testing.T) {
	cfg := corsConfig([]string{"https://a.dev"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.dev"}, cfg.AllowOrigins)

	cfg = corsConfig([]string{"https://a.dev", "*"})
	assert.True(t, cfg.AllowAllOrigins)
	assert.Empty(t, cfg.AllowOrigins)
}

func TestFeed_HugeMax(t *testing.T) {
	router := newTestServer(t, &stubLister{repos: testRepos(3)})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/feed?max=9000000000000000000", nil))

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, feed.KindOK, res.Status.Kind)
	assert.Len(t, res.Cards, 3)
}
