package render

import (
	"net/url"
	"time"

	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
)

// PageData is what the page template consumes.
type PageData struct {
	Title   string
	Account string
	Status  feed.Status
	Cards   []models.Card
	Year    int
}

// Page is an in-memory portfolio page. It provides the status and grid
// mounts a feed cycle writes into. One Page serves one cycle.
type Page struct {
	title   string
	account string
	status  feed.Status
	cards   []models.Card
}

func NewPage(title, account string) *Page {
	return &Page{title: title, account: account}
}

func (p *Page) SetStatus(s feed.Status) { p.status = s }

func (p *Page) ReplaceCards(cards []models.Card) {
	p.cards = append([]models.Card(nil), cards...)
}

func (p *Page) Status() feed.Status { return p.status }

func (p *Page) Cards() []models.Card { return p.cards }

// Host wires the page's mounts to a feed host opened from origin.
func (p *Page) Host(origin string) feed.Host {
	return feed.Host{Status: p, Grid: p, Origin: ParseOrigin(origin)}
}

// Data snapshots the page for rendering; now supplies the footer year.
func (p *Page) Data(now time.Time) PageData {
	return PageData{
		Title:   p.title,
		Account: p.account,
		Status:  p.status,
		Cards:   p.cards,
		Year:    now.Year(),
	}
}

// ParseOrigin parses the address a page was opened from. It returns nil for
// an empty or malformed origin.
func ParseOrigin(origin string) *url.URL {
	if origin == "" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return nil
	}
	return u
}
