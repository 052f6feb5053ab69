package feed

import "fmt"

// Policy decides whether repositories without any description get a card.
type Policy string

const (
	// PolicyRequire omits repositories with no description.
	PolicyRequire Policy = "require"
	// PolicyPlaceholder renders them with a placeholder sentence.
	PolicyPlaceholder Policy = "placeholder"
)

// DefaultPlaceholder is shown under PolicyPlaceholder.
const DefaultPlaceholder = "No description yet. Open the repo to learn more."

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyRequire:
		return PolicyRequire, nil
	case PolicyPlaceholder:
		return PolicyPlaceholder, nil
	default:
		return "", fmt.Errorf("unknown description policy %q (want %q or %q)", s, PolicyRequire, PolicyPlaceholder)
	}
}
