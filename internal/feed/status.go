package feed

import "fmt"

// StatusKind classifies the outcome of a feed cycle.
type StatusKind string

const (
	KindLoading     StatusKind = "loading"
	KindLocalFile   StatusKind = "local_file"
	KindRateLimited StatusKind = "rate_limited"
	KindFailed      StatusKind = "failed"
	KindEmpty       StatusKind = "empty"
	KindOK          StatusKind = "ok"
)

// Status is the human-readable line shown above the card grid. Failures
// carry a link to the account's public profile.
type Status struct {
	Kind       StatusKind `json:"kind"`
	Message    string     `json:"message"`
	ProfileURL string     `json:"profile_url,omitempty"`
}

func profileURL(account string) string {
	return "https://github.com/" + account
}

func loadingStatus() Status {
	return Status{Kind: KindLoading, Message: "Loading GitHub repos…"}
}

func localFileStatus() Status {
	return Status{
		Kind:    KindLocalFile,
		Message: "Tip: Run a local server (http://localhost) to load GitHub repos.",
	}
}

func rateLimitedStatus(account string) Status {
	return Status{
		Kind:       KindRateLimited,
		Message:    "GitHub API rate limit hit. Try again later.",
		ProfileURL: profileURL(account),
	}
}

func failedStatus(account, reason string) Status {
	return Status{
		Kind:       KindFailed,
		Message:    fmt.Sprintf("Couldn't load GitHub repos (%s).", reason),
		ProfileURL: profileURL(account),
	}
}

func emptyStatus() Status {
	return Status{
		Kind:    KindEmpty,
		Message: "No repos with descriptions found. Add a GitHub 'About' description or README overview.",
	}
}

func okStatus(account string, n int) Status {
	return Status{
		Kind:    KindOK,
		Message: fmt.Sprintf("Auto-synced from GitHub: showing %d repos (@%s)", n, account),
	}
}
