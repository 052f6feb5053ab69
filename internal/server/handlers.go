package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kevinmichaelchen/portfolio-feed/internal/models"
	"github.com/kevinmichaelchen/portfolio-feed/internal/render"
)

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is returned for malformed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Message: "Service is running"})
}

// getPage handles GET /. Every request runs one feed cycle.
func (s *Server) getPage(c *gin.Context) {
	account := s.cfg.Feed.Account
	page := render.NewPage(s.cfg.Site.Title, account)

	s.widget.LoadFeed(c.Request.Context(), page.Host(requestOrigin(c.Request)), account, s.cfg.Feed.MaxCards)

	c.HTML(http.StatusOK, render.PageTemplate, page.Data(s.now()))
}

// getFeed handles GET /api/v1/feed?account=&max=. The status kind in the body
// describes the outcome; only malformed parameters produce a non-200.
func (s *Server) getFeed(c *gin.Context) {
	account := c.DefaultQuery("account", s.cfg.Feed.Account)

	maxCards := s.cfg.Feed.MaxCards
	if raw := c.Query("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "max must be a positive integer"})
			return
		}
		maxCards = n
	}

	page := render.NewPage(s.cfg.Site.Title, account)
	res := s.widget.LoadFeed(c.Request.Context(), page.Host(requestOrigin(c.Request)), account, maxCards)
	if res.Cards == nil {
		res.Cards = []models.Card{}
	}

	c.JSON(http.StatusOK, res)
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + r.Host + "/"
}
