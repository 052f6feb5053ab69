package feed

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
	"github.com/kevinmichaelchen/portfolio-feed/internal/readme"
)

// Tried in order on the default branch.
var readmeCandidates = []string{"README.md", "readme.md"}

// headRef lets the raw endpoint pick the default branch when the listing
// omitted it.
const headRef = "HEAD"

// Resolver picks a description for a repository: the API description when
// set, otherwise a summary extracted from its README.
type Resolver struct {
	readmes ReadmeFetcher
	logger  *zap.Logger
}

func NewResolver(readmes ReadmeFetcher, logger *zap.Logger) *Resolver {
	return &Resolver{readmes: readmes, logger: logger}
}

// Resolve returns "" when neither source yields text. README fetch failures
// only move on to the next candidate.
func (r *Resolver) Resolve(ctx context.Context, account string, repo models.Repo) string {
	if repo.Description != nil {
		if desc := strings.TrimSpace(*repo.Description); desc != "" {
			return desc
		}
	}

	branch := repo.DefaultBranch
	if branch == "" {
		branch = headRef
	}

	for _, file := range readmeCandidates {
		text, err := r.readmes.FetchReadme(ctx, account, repo.Name, branch, file)
		if err != nil {
			r.logger.Debug("README candidate unavailable",
				zap.String("repo", repo.Name),
				zap.String("file", file),
				zap.Error(err))
			continue
		}
		if summary := readme.Extract(text); summary != "" {
			return summary
		}
	}
	return ""
}
