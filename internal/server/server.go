// Package server wires the views, the contact form and the record log into
// a gin engine.
package server

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayush-velhal/portfolio/internal/contact"
	"github.com/ayush-velhal/portfolio/internal/logging"
	"github.com/ayush-velhal/portfolio/internal/metrics"
	"github.com/ayush-velhal/portfolio/internal/store"
	"github.com/ayush-velhal/portfolio/internal/views"
	"github.com/ayush-velhal/portfolio/internal/visits"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps are the collaborators the server needs. Tracker may be nil.
type Deps struct {
	Router    *views.Router
	Store     store.MessageStore
	Metrics   *metrics.Metrics
	Tracker   *visits.Tracker
	Logger    *zap.Logger
	AssetsDir string
	// Clock stamps submissions; time.Now when nil.
	Clock func() time.Time
}

// Server serves the portfolio site.
type Server struct {
	deps      Deps
	templates *template.Template
	engine    *gin.Engine
}

// New builds the engine and registers every route.
func New(deps Deps) (*Server, error) {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{deps: deps, templates: tmpl}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(logging.RequestID(), logging.Logger(deps.Logger), gin.Recovery())
	if deps.Tracker != nil {
		r.Use(deps.Tracker.Middleware())
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", deps.AssetsDir)

	r.GET("/", func(c *gin.Context) {
		s.renderView(c, views.AboutMe)
	})
	r.GET("/view/:slug", s.handleView)
	r.POST("/contact", s.handleContact)
	r.GET("/contact/messages", s.handleMessages)
	r.GET("/stats", s.handleStats)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleView(c *gin.Context) {
	sel, ok := views.ParseSlug(c.Param("slug"))
	if !ok {
		c.String(http.StatusNotFound, "unknown view")
		return
	}
	s.renderView(c, sel)
}

// renderView is the only place a visit is marked; form posts and message
// listings are not page views.
func (s *Server) renderView(c *gin.Context, sel views.View) {
	c.Set(visits.ViewKey, sel.Slug())
	s.respond(c, http.StatusOK, s.deps.Router.Render(sel))
}

// handleContact runs one submit cycle on the posted fields.
func (s *Server) handleContact(c *gin.Context) {
	var fields contact.Fields
	if err := c.ShouldBind(&fields); err != nil {
		c.String(http.StatusBadRequest, "invalid form data")
		return
	}

	form := contact.NewForm(s.deps.Store, s.deps.Logger,
		contact.WithClock(s.deps.Clock),
		contact.WithObserver(s.recordOutcome),
	)
	form.Edit(fields)
	outcome := form.Submit()

	status := http.StatusOK
	if outcome.State == contact.Rejected {
		var verr *contact.ValidationError
		if errors.As(outcome.Err, &verr) {
			status = http.StatusUnprocessableEntity
		} else {
			status = http.StatusServiceUnavailable
		}
	}

	out := s.deps.Router.Contact(views.ContactPanel{Fields: form.Fields(), Outcome: &outcome})
	s.respond(c, status, out)
}

func (s *Server) recordOutcome(o contact.Outcome) {
	switch {
	case o.State == contact.Accepted:
		s.deps.Metrics.RecordSubmission(metrics.OutcomeAccepted)
	case o.Missing() != nil:
		s.deps.Metrics.RecordSubmission(metrics.OutcomeInvalid)
	default:
		s.deps.Metrics.RecordSubmission(metrics.OutcomeStorageError)
	}
}

func (s *Server) handleMessages(c *gin.Context) {
	if !s.deps.Router.ShowsMessages() {
		c.String(http.StatusNotFound, "not found")
		return
	}
	out := s.deps.Router.Messages()
	c.HTML(http.StatusOK, out.Template, out.Data)
}

func (s *Server) handleStats(c *gin.Context) {
	if s.deps.Tracker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visit tracking is disabled"})
		return
	}
	stats, err := s.deps.Tracker.Counts()
	if err != nil {
		s.deps.Logger.Error("Error loading visit stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// respond writes the view fragment for HTMX requests and the full page
// otherwise.
func (s *Server) respond(c *gin.Context, status int, out views.Output) {
	out.Data["title"] = out.Title

	if c.GetHeader("HX-Request") == "true" {
		c.HTML(status, out.Template, out.Data)
		return
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, out.Template, out.Data); err != nil {
		s.deps.Logger.Error("Error rendering view",
			zap.String("view", out.View.Slug()),
			zap.Error(err),
		)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}

	profile := s.deps.Router.Profile()
	c.HTML(status, "layout.html", gin.H{
		"siteTitle": profile.Title,
		"brand":     profile.Brand,
		"links":     profile.Links,
		"nav":       navItems(out.View),
		"title":     out.Title,
		"body":      template.HTML(body.String()),
	})
}

type navItem struct {
	Slug    string
	Label   string
	Current bool
}

func navItems(current views.View) []navItem {
	items := make([]navItem, 0, len(views.All()))
	for _, v := range views.All() {
		items = append(items, navItem{Slug: v.Slug(), Label: v.Label(), Current: v == current})
	}
	return items
}
