package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBody = `[
  {
    "name": "infra-pipeline",
    "html_url": "https://github.com/octo/infra-pipeline",
    "homepage": "https://octo.dev",
    "description": "Build pipeline",
    "language": "Go",
    "default_branch": "main",
    "stargazers_count": 7,
    "forks_count": 2,
    "updated_at": "2024-05-01T10:00:00Z",
    "fork": false,
    "archived": true
  },
  {
    "name": "dotfiles",
    "html_url": "https://github.com/octo/dotfiles",
    "description": null,
    "default_branch": "master",
    "updated_at": "2023-01-02T03:04:05Z",
    "fork": true
  }
]`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{APIURL: srv.URL, RawURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestListRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingBody))
	})
	c := newTestClient(t, mux)

	repos, err := c.ListRepos(context.Background(), "octo")
	require.NoError(t, err)
	require.Len(t, repos, 2)

	first := repos[0]
	assert.Equal(t, "infra-pipeline", first.Name)
	assert.Equal(t, "https://github.com/octo/infra-pipeline", first.HTMLURL)
	assert.Equal(t, "https://octo.dev", first.Homepage)
	require.NotNil(t, first.Description)
	assert.Equal(t, "Build pipeline", *first.Description)
	assert.Equal(t, "Go", first.Language)
	assert.Equal(t, "main", first.DefaultBranch)
	assert.Equal(t, 7, first.StargazersCount)
	assert.Equal(t, 2, first.ForksCount)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), first.UpdatedAt.UTC())
	assert.True(t, first.Archived)
	assert.False(t, first.Fork)

	second := repos[1]
	assert.Nil(t, second.Description)
	assert.True(t, second.Fork)
	assert.Empty(t, second.Language)
}

func TestListRepos_SendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c, err := NewClient(Options{Token: "secret", APIURL: srv.URL})
	require.NoError(t, err)

	repos, err := c.ListRepos(context.Background(), "octo")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestListRepos_Forbidden(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Forbidden"}`))
	}))

	_, err := c.ListRepos(context.Background(), "octo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestListRepos_RateLimitHeaders(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "4102444800")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded for 127.0.0.1."}`))
	}))

	_, err := c.ListRepos(context.Background(), "octo")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestListRepos_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))

	_, err := c.ListRepos(context.Background(), "ghost")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "GitHub API error: 404", apiErr.Error())
}

func TestFetchReadme(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/octo/proj/main/README.md", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# proj\n\nHello."))
	})
	c := newTestClient(t, mux)

	body, err := c.FetchReadme(context.Background(), "octo", "proj", "main", "README.md")
	require.NoError(t, err)
	assert.Equal(t, "# proj\n\nHello.", body)

	_, err = c.FetchReadme(context.Background(), "octo", "proj", "main", "readme.md")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestFetchReadme_BranchWithSlash(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("ok"))
	}))

	_, err := c.FetchReadme(context.Background(), "octo", "proj", "release/v1", "README.md")
	require.NoError(t, err)
	assert.Equal(t, "/octo/proj/release/v1/README.md", gotPath)
}

func TestListRepos_TooManyRequests(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Too Many Requests"}`))
	}))

	_, err := c.ListRepos(context.Background(), "octo")
	assert.ErrorIs(t, err, ErrRateLimited)
}
