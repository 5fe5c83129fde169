// Package ui serves the dashboard HTML pages and downloads.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"pspicdash/internal"
	"pspicdash/internal/dashboard"
	"pspicdash/internal/navigation"
	"pspicdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

var logger = internal.DefaultLogger.Component("UI")

// Deps are the services the web server renders
type Deps struct {
	Dashboards *dashboard.Service
	Navigation *navigation.Service
	// API is mounted under /api/v1 when set.
	API           http.Handler
	SessionCookie string
	PDFCover      bool
}

// Server represents the web server for the PSPIC dashboard
type Server struct {
	router     *gin.Engine
	templates  *template.Template
	dashboards *dashboard.Service
	navigation *navigation.Service
	api        http.Handler
	cookie     string
	pdfCover   bool
}

// NewServer parses the templates and registers the routes
func NewServer(deps Deps) (*Server, error) {
	if deps.Dashboards == nil || deps.Navigation == nil {
		return nil, fmt.Errorf("dashboard and navigation services are required")
	}
	if deps.SessionCookie == "" {
		deps.SessionCookie = "pspic_session"
	}

	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:     gin.Default(),
		templates:  tmpl,
		dashboards: deps.Dashboards,
		navigation: deps.Navigation,
		api:        deps.API,
		cookie:     deps.SessionCookie,
		pdfCover:   deps.PDFCover,
	}
	// Column names may contain "/", so match on the escaped path.
	s.router.UseRawPath = true
	s.router.UnescapePathValues = true

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setupRoutes() error {
	static, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to open static files: %w", err)
	}
	s.router.StaticFS("/static", http.FS(static))
	s.router.GET("/healthz", s.handleHealth)

	if s.api != nil {
		s.router.Any("/api/v1/*path", gin.WrapH(s.api))
	}

	pages := s.router.Group("/")
	pages.Use(middleware.EnsureSession(s.cookie))
	pages.GET("/", s.handleRoot)
	pages.GET("/inicio", s.handleHome)
	pages.POST("/menu/:year", s.handleToggleYear)
	pages.GET("/secciones/:id", s.handleSection)
	pages.GET("/secciones/:id/graficos/:file", s.handleChart)
	pages.GET("/secciones/:id/reporte.pdf", s.handleReport)
	pages.GET("/secciones/:id/tabla.xlsx", s.handleTable)

	s.router.NoRoute(func(c *gin.Context) {
		s.renderNotFound(c, "La página solicitada no existe.")
	})
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on addr
func (s *Server) Start(addr string) error {
	logger.Info("listening on %s", addr)
	return s.router.Run(addr)
}
