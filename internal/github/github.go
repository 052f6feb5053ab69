package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

const (
	// DefaultAPIURL is the public REST endpoint.
	DefaultAPIURL = "https://api.github.com/"
	// DefaultRawURL serves raw file contents by account/repo/branch/path.
	DefaultRawURL = "https://raw.githubusercontent.com/"

	mediaTypeJSON = "application/vnd.github+json"
	listPageSize  = 100
)

// ErrRateLimited is returned when the listing endpoint answers 403 or 429.
var ErrRateLimited = errors.New("GitHub API rate limit hit")

// APIError is a non-success response from a GitHub endpoint.
type APIError struct {
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error: %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// Options configures a Client. Zero values fall back to the public endpoints
// and anonymous access.
type Options struct {
	Token   string
	APIURL  string
	RawURL  string
	Timeout time.Duration
}

// Client talks to the repository listing endpoint through go-github and to
// the raw-content endpoint with plain GETs.
type Client struct {
	api    *gh.Client
	http   *http.Client
	rawURL string
}

func NewClient(opts Options) (*Client, error) {
	base := &http.Client{
		Timeout:   opts.Timeout,
		Transport: acceptTransport{base: http.DefaultTransport},
	}

	apiHTTP := base
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		apiHTTP = oauth2.NewClient(ctx, ts)
		apiHTTP.Timeout = opts.Timeout
	}

	api := gh.NewClient(apiHTTP)
	if opts.APIURL != "" {
		u, err := url.Parse(withTrailingSlash(opts.APIURL))
		if err != nil {
			return nil, fmt.Errorf("parsing API URL: %w", err)
		}
		api.BaseURL = u
	}

	rawURL := opts.RawURL
	if rawURL == "" {
		rawURL = DefaultRawURL
	}

	return &Client{
		api:    api,
		http:   &http.Client{Timeout: opts.Timeout},
		rawURL: rawURL,
	}, nil
}

// ListRepos returns one page of up to 100 repositories owned by account,
// most recently updated first.
func (c *Client) ListRepos(ctx context.Context, account string) ([]models.Repo, error) {
	opts := &gh.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: listPageSize},
	}

	repos, resp, err := c.api.Repositories.ListByUser(ctx, account, opts)
	if err != nil {
		return nil, classify(account, resp, err)
	}

	out := make([]models.Repo, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepo(r))
	}
	return out, nil
}

func classify(account string, resp *gh.Response, err error) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return fmt.Errorf("listing repos for %s: %w: %w", account, ErrRateLimited, err)
	case resp != nil && (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests):
		return fmt.Errorf("listing repos for %s: %w: %w", account, ErrRateLimited, err)
	case resp != nil && resp.Response != nil:
		return fmt.Errorf("listing repos for %s: %w", account, &APIError{StatusCode: resp.StatusCode, Err: err})
	default:
		return fmt.Errorf("listing repos for %s: %w", account, err)
	}
}

func toRepo(r *gh.Repository) models.Repo {
	return models.Repo{
		Name:            r.GetName(),
		HTMLURL:         r.GetHTMLURL(),
		Homepage:        r.GetHomepage(),
		Description:     r.Description,
		Language:        r.GetLanguage(),
		DefaultBranch:   r.GetDefaultBranch(),
		StargazersCount: r.GetStargazersCount(),
		ForksCount:      r.GetForksCount(),
		UpdatedAt:       r.GetUpdatedAt().Time,
		Fork:            r.GetFork(),
		Archived:        r.GetArchived(),
	}
}

// acceptTransport pins the Accept header to the current REST media type.
type acceptTransport struct {
	base http.RoundTripper
}

func (t acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", mediaTypeJSON)
	return t.base.RoundTrip(req)
}

func withTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
