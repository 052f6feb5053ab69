// Package tags derives technology labels for a repository card.
package tags

import (
	"strings"

	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

// MaxTags caps the number of labels on one card.
const MaxTags = 6

type rule struct {
	label   string
	needles []string
}

// Scanned in order; the first hit per label wins its position.
var nameRules = []rule{
	{label: "Docker", needles: []string{"docker"}},
	{label: "Kubernetes", needles: []string{"k8", "kube"}},
	{label: "Microservices", needles: []string{"microservice"}},
	{label: "Cloud", needles: []string{"cloud"}},
	{label: "DevOps", needles: []string{"devops"}},
	{label: "Terraform", needles: []string{"terraform"}},
	{label: "CI/CD", needles: []string{"cicd", "pipeline"}},
}

// Build returns the repository's primary language followed by labels
// inferred from its name, without duplicates and capped at MaxTags.
func Build(repo models.Repo) []string {
	out := make([]string, 0, MaxTags)
	seen := make(map[string]bool)
	add := func(label string) {
		if label == "" || seen[label] || len(out) >= MaxTags {
			return
		}
		seen[label] = true
		out = append(out, label)
	}

	add(repo.Language)

	name := strings.ToLower(repo.Name)
	for _, r := range nameRules {
		for _, needle := range r.needles {
			if strings.Contains(name, needle) {
				add(r.label)
				break
			}
		}
	}

	return out
}
