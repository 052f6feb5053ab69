package models

import "time"

// Repo is one entry of the GitHub repository listing. The feed treats it as
// read-only input.
type Repo struct {
	Name            string    `json:"name"`
	HTMLURL         string    `json:"html_url"`
	Homepage        string    `json:"homepage,omitempty"`
	Description     *string   `json:"description"`
	Language        string    `json:"language,omitempty"`
	DefaultBranch   string    `json:"default_branch"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	UpdatedAt       time.Time `json:"updated_at"`
	Fork            bool      `json:"fork"`
	Archived        bool      `json:"archived"`
}

// Card is the data behind one rendered repository card.
type Card struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Homepage    string    `json:"homepage,omitempty"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updated_at"`
}
