package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-assist/internal/connectors/web"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-assist/internal/logger"
)

// Config configures the widget backend.
type Config struct {
	// Sessions opens and tracks assistant sessions.
	Sessions driving.SessionService

	// Site, when set, is the default seed page and restricts sessions to
	// its origin.
	Site string

	// AllowedOrigins lists browser origins allowed to call the API.
	// The site's own origin is always allowed.
	AllowedOrigins []string
}

// Server serves the widget API.
type Server struct {
	sessions driving.SessionService
	site     *url.URL
	origins  map[string]bool
	engine   *gin.Engine
}

// NewServer creates a new widget backend.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Sessions == nil {
		return nil, ErrMissingSessions
	}

	s := &Server{
		sessions: cfg.Sessions,
		origins:  make(map[string]bool),
	}

	if cfg.Site != "" {
		site, err := url.Parse(cfg.Site)
		if err != nil || !web.IsHTTPURL(cfg.Site) {
			return nil, errors.New("httpapi: site must be an absolute http(s) URL")
		}
		s.site = site
		s.origins[site.Scheme+"://"+site.Host] = true
	}
	for _, o := range cfg.AllowedOrigins {
		s.origins[o] = true
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), requestLogger(), s.cors())
	s.register()

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then closes every session.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()
	defer s.sessions.CloseAll()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// cors allows configured origins to call the API from the browser.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && s.origins[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
