package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// setupStatic serves uploads, the admin pages and the public site. Unknown
// paths fall back to index.html, except under /admin and /api.
func (s *Server) setupStatic() {
	publicDir := s.config.Server.PublicDir

	s.echo.Static(s.config.Upload.URLPrefix, s.app.Media.PrimaryDir())

	s.echo.GET("/admin", func(c echo.Context) error {
		return c.File(filepath.Join(publicDir, "admin.html"))
	})
	s.echo.GET("/admin/dashboard", func(c echo.Context) error {
		return c.File(filepath.Join(publicDir, "admin-dashboard.html"))
	})

	s.echo.GET("/*", s.siteFallback, middleware.StaticWithConfig(middleware.StaticConfig{
		Root: publicDir,
	}))
}

// siteFallback runs when no public file matched the request path
func (s *Server) siteFallback(c echo.Context) error {
	path := c.Request().URL.Path
	switch {
	case strings.HasPrefix(path, "/admin"):
		return c.String(http.StatusNotFound, "Admin page not found")
	case strings.HasPrefix(path, "/api/"):
		return echo.ErrNotFound
	default:
		return c.File(filepath.Join(s.config.Server.PublicDir, "index.html"))
	}
}
