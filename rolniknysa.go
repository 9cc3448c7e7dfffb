// Package rolniknysa is the publishing backend for a local news site:
// authors upload articles and images, readers browse, tag-filter and
// search them, and an external automation sender triggers actions through
// an HMAC-authenticated webhook.
//
// Content is addressed exclusively by slugs derived from human titles (see
// Slugify); the Store mediates every read and write against the SQLite
// database, including the view counter bumped on each article display.
package rolniknysa

import (
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	_ "modernc.org/sqlite"
)

// App wires together the store, the webhook verifier, and the HTTP layer.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store

	verifier *Verifier
}

// New creates an App from the given configuration.
func New(cfg Config) *App {
	return &App{
		Config: cfg,
		Echo:   echo.New(),
	}
}

// Start opens the database, registers middleware and routes, and runs the
// server. A store that cannot be opened is fatal; store failures after
// startup only fail the request that hit them.
func (a *App) Start() error {
	if a.Config.WebhookSecret == "" {
		return fmt.Errorf("rolniknysa: WebhookSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("rolniknysa: init store: %w", err)
	}
	a.Store = store

	if err := os.MkdirAll(a.Config.UploadDir, 0o755); err != nil {
		return fmt.Errorf("rolniknysa: init upload dir: %w", err)
	}

	a.verifier = NewVerifier([]byte(a.Config.WebhookSecret))

	a.setupMiddleware()
	a.setupRoutes()

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handleHome)
	e.GET("/articles/:slug", a.handleArticle)
	e.GET("/tag/", a.handleTagIndex)
	e.GET("/tag/:tags", a.handleTag)
	e.GET("/search", a.handleSearch)
	e.GET("/img/:slug", a.handleImage)

	e.POST("/dashboard/articles/new", a.handleUpload)

	e.POST("/api/github/webhook", handleWebhook, a.verifier.Middleware)

	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
