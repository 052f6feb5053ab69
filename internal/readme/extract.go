// Package readme turns raw README markdown into a one-line project summary.
package readme

import (
	"regexp"
	"strings"
)

const (
	maxSummaryLen   = 180
	truncatedLen    = 177
	ellipsis        = "..."
	bulletSeparator = " • "
	maxBullets      = 2
)

var (
	headingLine = regexp.MustCompile(`(?m)^#.*$`)
	imageEmbed  = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	linkSyntax  = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	blankLine   = regexp.MustCompile(`\n[ \t]*\n`)
	bulletBlock = regexp.MustCompile(`(?m)^[-*]\s+`)
	bulletLine  = regexp.MustCompile(`^[-*]\s+`)
	// Nested markers ("- - item") are stripped together so the summary is
	// stable when extracted again.
	bulletMarks = regexp.MustCompile(`^(?:[-*]\s+)+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Extract returns a short summary of a README: the first two bullets of a
// leading list joined with " • ", or the first paragraph collapsed to one
// line and capped at 180 characters. It returns "" when nothing usable
// remains after headings, images and link syntax are stripped.
func Extract(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.ReplaceAll(text, "\r", "")
	cleaned = headingLine.ReplaceAllString(cleaned, "")
	cleaned = imageEmbed.ReplaceAllString(cleaned, "")
	cleaned = linkSyntax.ReplaceAllString(cleaned, "$1")
	cleaned = strings.TrimSpace(cleaned)

	blocks := paragraphs(cleaned)
	if len(blocks) == 0 {
		return ""
	}
	first := blocks[0]

	if bulletBlock.MatchString(first) {
		return joinBullets(first)
	}

	first = whitespace.ReplaceAllString(first, " ")
	return truncate(first)
}

func paragraphs(s string) []string {
	var blocks []string
	for _, b := range blankLine.Split(s, -1) {
		if b = strings.TrimSpace(b); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func joinBullets(block string) string {
	var items []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if !bulletLine.MatchString(line) {
			continue
		}
		items = append(items, bulletMarks.ReplaceAllString(line, ""))
		if len(items) == maxBullets {
			break
		}
	}
	return strings.Join(items, bulletSeparator)
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxSummaryLen {
		return s
	}
	return string(runes[:truncatedLen]) + ellipsis
}
