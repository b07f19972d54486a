package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"penguins/domain/penguins"
	"penguins/internal"
	"penguins/internal/events"
	"penguins/internal/inputs"
	"penguins/internal/reactive"
	"penguins/internal/session"
	"penguins/ui/middleware"
	"penguins/ui/templates/fragments"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Server represents the web server for the penguins dashboard
type Server struct {
	router    *gin.Engine
	templates *template.Template
	files     fs.FS
	about     template.HTML

	dataset  *penguins.Dataset
	registry *inputs.Registry
	graph    *reactive.Graph
	sessions *session.Manager
	events   *events.Hub
	page     PageConfig
	logger   *internal.Logger
}

// PageConfig holds the page chrome
type PageConfig struct {
	Title     string
	GitHubURL string
}

// Dependencies are the collaborators the server renders from. Events is
// optional; a hub with the default keep-alive is created when nil.
type Dependencies struct {
	Dataset  *penguins.Dataset
	Registry *inputs.Registry
	Graph    *reactive.Graph
	Sessions *session.Manager
	Events   *events.Hub
	Page     PageConfig
}

// NewServer creates a new web server instance. files must contain the
// ui/templates, ui/static and ui/content trees.
func NewServer(files fs.FS) *Server {
	return &Server{
		router: gin.Default(),
		files:  files,
		logger: internal.DefaultLogger.With("Server"),
	}
}

// Initialize sets up the server with dependencies
func (s *Server) Initialize(deps Dependencies) error {
	if deps.Dataset == nil || deps.Registry == nil || deps.Graph == nil || deps.Sessions == nil {
		return fmt.Errorf("ui: dataset, registry, graph and sessions are required")
	}
	s.dataset = deps.Dataset
	s.registry = deps.Registry
	s.graph = deps.Graph
	s.sessions = deps.Sessions
	s.events = deps.Events
	if s.events == nil {
		s.events = events.NewHub(0)
	}
	s.page = deps.Page

	if err := s.parseTemplates(); err != nil {
		return err
	}
	if err := s.loadAbout(); err != nil {
		return err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"add":   func(a, b int) int { return a + b },
		"upper": strings.ToUpper,
		"fmtf": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
	}

	templatesFS, err := fs.Sub(s.files, "ui/templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates = template.New("").Funcs(funcMap)
	for _, file := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := s.templates.New(file).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		s.logger.Trace("parsed %s template %s", fragments.GetTemplateCategory(file), file)
	}
	return nil
}

// loadAbout renders the sidebar's about panel from markdown
func (s *Server) loadAbout() error {
	md, err := fs.ReadFile(s.files, "ui/content/about.md")
	if err != nil {
		return fmt.Errorf("failed to read about panel: %w", err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	s.about = template.HTML(markdown.ToHTML(md, p, r))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	// Session-bound endpoints driven by htmx
	sessions := s.router.Group("/sessions/:id", middleware.RequireSession(s.sessions))
	sessions.POST("/inputs", s.handleInputs)
	sessions.GET("/outputs/:name", s.handleSessionOutput)
	sessions.GET("/events", s.handleEvents)

	// Stateless API, inputs as query parameters
	s.router.GET("/api/outputs/:name", s.handleAPIOutput)
	s.router.GET("/api/export.xlsx", s.handleExport)
}

// Handler exposes the router for an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting %s on http://%s", s.page.Title, addr)
	return s.router.Run(addr)
}
