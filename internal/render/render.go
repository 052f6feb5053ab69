// Package render turns feed results into portfolio markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PageTemplate is the name of the full portfolio page template.
const PageTemplate = "page.tmpl"

const dateLayout = "Jan 02, 2006"

// Renderer holds the parsed card, status and page templates.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("portfolio").Funcs(Funcs()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Funcs are the helpers available inside the templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"date": FormatDate,
	}
}

// Template exposes the parsed set, e.g. for gin's HTML renderer.
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

// Card renders one repository card.
func (r *Renderer) Card(card models.Card) (template.HTML, error) {
	return r.execute("card", card)
}

// Grid concatenates the markup of every card.
func (r *Renderer) Grid(cards []models.Card) (template.HTML, error) {
	var sb strings.Builder
	for _, c := range cards {
		html, err := r.Card(c)
		if err != nil {
			return "", err
		}
		sb.WriteString(string(html))
	}
	return template.HTML(sb.String()), nil
}

// Status renders the status line, with a profile link when one is set.
func (r *Renderer) Status(s feed.Status) (template.HTML, error) {
	return r.execute("status", s)
}

// Page renders the full portfolio page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if err := r.tmpl.ExecuteTemplate(w, PageTemplate, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// FormatDate renders a timestamp the way cards show it, e.g. "Mar 07, 2024".
// The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
