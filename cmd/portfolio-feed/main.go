package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kevinmichaelchen/portfolio-feed/internal/config"
	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
	"github.com/kevinmichaelchen/portfolio-feed/internal/github"
	"github.com/kevinmichaelchen/portfolio-feed/internal/logging"
	"github.com/kevinmichaelchen/portfolio-feed/internal/render"
	"github.com/kevinmichaelchen/portfolio-feed/internal/server"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "portfolio-feed",
		Short:        "GitHub repositories → portfolio project cards",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	root.AddCommand(renderCmd(&configPath), listCmd(&configPath), serveCmd(&configPath))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	widget *feed.Widget
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	gh, err := github.NewClient(github.Options{
		Token:   cfg.GitHub.Token,
		APIURL:  cfg.GitHub.APIURL,
		RawURL:  cfg.GitHub.RawURL,
		Timeout: cfg.GitHubTimeout(),
	})
	if err != nil {
		return nil, err
	}

	policy, err := feed.ParsePolicy(cfg.Feed.DescriptionPolicy)
	if err != nil {
		return nil, err
	}

	widget := feed.NewWidget(gh, gh, logger, feed.WithPolicy(policy, cfg.Feed.Placeholder))
	return &app{cfg: cfg, logger: logger, widget: widget}, nil
}

func renderCmd(configPath *string) *cobra.Command {
	var account, origin, out string
	var maxCards int

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run one feed cycle and write the portfolio page",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			account, maxCards = a.defaults(account, maxCards)

			renderer, err := render.New()
			if err != nil {
				return err
			}

			page := render.NewPage(a.cfg.Site.Title, account)
			res := a.widget.LoadFeed(cmd.Context(), page.Host(origin), account, maxCards)

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := renderer.Page(w, page.Data(time.Now())); err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), styleStatus(res.Status))
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "GitHub account (defaults to config)")
	cmd.Flags().IntVar(&maxCards, "max", 0, "Maximum number of cards (defaults to config)")
	cmd.Flags().StringVar(&origin, "origin", "", "Address the page is served from (file:// URLs skip GitHub)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the page to this file instead of stdout")
	return cmd
}

func listCmd(configPath *string) *cobra.Command {
	var account string
	var maxCards int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Run one feed cycle and print the cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			account, maxCards = a.defaults(account, maxCards)
			page := render.NewPage(a.cfg.Site.Title, account)
			res := a.widget.LoadFeed(cmd.Context(), page.Host(""), account, maxCards)

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, styleStatus(res.Status))
			if len(res.Cards) > 0 {
				fmt.Fprintln(w)
			}
			for i, c := range res.Cards {
				fmt.Fprintf(w, "%d. %s  ★ %d  ⑂ %d  %s\n", i+1, c.Name, c.Stars, c.Forks, render.FormatDate(c.UpdatedAt))
				fmt.Fprintf(w, "   %s\n", c.URL)
				fmt.Fprintf(w, "   %s\n", c.Description)
				if len(c.Tags) > 0 {
					fmt.Fprintf(w, "   %s\n", dimStyle.Render("Key Tech: "+strings.Join(c.Tags, " • ")))
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "GitHub account (defaults to config)")
	cmd.Flags().IntVar(&maxCards, "max", 0, "Maximum number of cards (defaults to config)")
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio page and the JSON feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			if addr != "" {
				if err := applyAddr(a.cfg, addr); err != nil {
					return err
				}
			}

			renderer, err := render.New()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(a.cfg, a.widget, renderer, a.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address host:port (defaults to config)")
	return cmd
}

// applyAddr overrides the configured listen address. IPv6 hosts use the
// bracketed form, e.g. "[::1]:8080".
func applyAddr(cfg *config.Config, addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid --addr %q, want host:port: %w", addr, err)
	}
	cfg.Server.Host, cfg.Server.Port = host, port
	return nil
}

func (a *app) defaults(account string, maxCards int) (string, int) {
	if account == "" {
		account = a.cfg.Feed.Account
	}
	if maxCards == 0 {
		maxCards = a.cfg.Feed.MaxCards
	}
	return account, maxCards
}

func styleStatus(s feed.Status) string {
	line := s.Message
	if s.ProfileURL != "" {
		line += " " + dimStyle.Render(s.ProfileURL)
	}
	switch s.Kind {
	case feed.KindOK:
		return okStyle.Render("✓") + " " + line
	case feed.KindEmpty, feed.KindLocalFile:
		return warnStyle.Render("!") + " " + line
	default:
		return errStyle.Render("✗") + " " + line
	}
}
