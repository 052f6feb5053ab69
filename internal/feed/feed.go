// Package feed builds the portfolio's repository card feed for one GitHub
// account and writes it into a page's status and grid mounts.
package feed

import (
	"context"
	"errors"
	"net/url"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kevinmichaelchen/portfolio-feed/internal/github"
	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
	"github.com/kevinmichaelchen/portfolio-feed/internal/tags"
)

// RepoLister returns one page of an account's repositories.
type RepoLister interface {
	ListRepos(ctx context.Context, account string) ([]models.Repo, error)
}

// ReadmeFetcher returns the raw text of one file on a repository branch.
type ReadmeFetcher interface {
	FetchReadme(ctx context.Context, account, repo, branch, file string) (string, error)
}

// StatusMount receives the status line.
type StatusMount interface {
	SetStatus(Status)
}

// GridMount receives the card grid. A nil or empty slice clears it.
type GridMount interface {
	ReplaceCards([]models.Card)
}

// Host is the page a feed is loaded into. Origin is the address the page
// was opened from.
type Host struct {
	Status StatusMount
	Grid   GridMount
	Origin *url.URL
}

// Result mirrors what was written to the mounts.
type Result struct {
	Status Status        `json:"status"`
	Cards  []models.Card `json:"cards"`
}

// Widget runs feed cycles. It holds no per-cycle state and is safe for
// concurrent use.
type Widget struct {
	lister      RepoLister
	resolver    *Resolver
	policy      Policy
	placeholder string
	logger      *zap.Logger
}

type Option func(*Widget)

// WithPolicy selects what happens to repositories without a description.
func WithPolicy(p Policy, placeholder string) Option {
	return func(w *Widget) {
		w.policy = p
		if placeholder != "" {
			w.placeholder = placeholder
		}
	}
}

func NewWidget(lister RepoLister, readmes ReadmeFetcher, logger *zap.Logger, opts ...Option) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Widget{
		lister:      lister,
		resolver:    NewResolver(readmes, logger),
		policy:      PolicyRequire,
		placeholder: DefaultPlaceholder,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LoadFeed runs one cycle for account, rendering at most maxCards cards.
// It is a no-op when either mount is missing. Failures never escape: they
// end the cycle with a status and leave the grid as it was.
func (w *Widget) LoadFeed(ctx context.Context, host Host, account string, maxCards int) Result {
	if host.Status == nil || host.Grid == nil {
		return Result{}
	}

	log := w.logger.With(
		zap.String("cycle", uuid.NewString()),
		zap.String("account", account))

	setStatus := func(s Status) Result {
		host.Status.SetStatus(s)
		return Result{Status: s}
	}

	setStatus(loadingStatus())

	if host.Origin != nil && host.Origin.Scheme == "file" {
		log.Info("Page opened from the filesystem, skipping GitHub")
		return setStatus(localFileStatus())
	}

	if account == "" || maxCards <= 0 {
		log.Warn("Invalid feed arguments", zap.Int("max_cards", maxCards))
		return setStatus(failedStatus(account, "invalid feed settings"))
	}

	repos, err := w.lister.ListRepos(ctx, account)
	if err != nil {
		if errors.Is(err, github.ErrRateLimited) {
			log.Warn("Rate limited by GitHub", zap.Error(err))
			return setStatus(rateLimitedStatus(account))
		}
		log.Error("Listing repos failed", zap.Error(err))
		return setStatus(failedStatus(account, failureReason(err)))
	}

	candidates := Eligible(repos)
	log.Info("Listed repos",
		zap.Int("listed", len(repos)),
		zap.Int("eligible", len(candidates)))

	cards := make([]models.Card, 0, min(maxCards, len(candidates)))
	for _, repo := range candidates {
		if err := ctx.Err(); err != nil {
			log.Warn("Feed cycle cancelled", zap.Error(err))
			return setStatus(failedStatus(account, "request cancelled"))
		}

		desc := w.resolver.Resolve(ctx, account, repo)
		if desc == "" {
			if w.policy == PolicyRequire {
				log.Debug("Skipping repo without description", zap.String("repo", repo.Name))
				continue
			}
			desc = w.placeholder
		}

		cards = append(cards, newCard(repo, desc))
		if len(cards) >= maxCards {
			break
		}
	}

	if len(cards) == 0 {
		host.Grid.ReplaceCards(nil)
		return setStatus(emptyStatus())
	}

	host.Grid.ReplaceCards(cards)
	log.Info("Feed rendered", zap.Int("cards", len(cards)))
	res := setStatus(okStatus(account, len(cards)))
	res.Cards = cards
	return res
}

// Eligible drops forks and archived repositories and orders the rest by
// last update, newest first. Ties keep listing order. The input is not
// modified.
func Eligible(repos []models.Repo) []models.Repo {
	out := make([]models.Repo, 0, len(repos))
	for _, r := range repos {
		if r.Fork || r.Archived {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func newCard(repo models.Repo, desc string) models.Card {
	return models.Card{
		Name:        repo.Name,
		URL:         repo.HTMLURL,
		Homepage:    repo.Homepage,
		Description: desc,
		Tags:        tags.Build(repo),
		Stars:       max(repo.StargazersCount, 0),
		Forks:       max(repo.ForksCount, 0),
		UpdatedAt:   repo.UpdatedAt,
	}
}

func failureReason(err error) string {
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "request cancelled"
	}
	return "network error"
}
