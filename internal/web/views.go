// Package web holds the server-rendered forum pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"dafoerum/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// LayoutName is the layout every page renders into.
const LayoutName = "layout"

// Page names known to the engine.
const (
	PageHome    = "home"
	PageLatest  = "latest"
	PageForums  = "forums"
	PageForum   = "forum"
	PageThread  = "thread"
	PageMessage = "message"
)

var pageNames = []string{PageHome, PageLatest, PageForums, PageForum, PageThread, PageMessage}

// Page carries what the layout needs on every page.
type Page struct {
	Title string
	Path  string
	// ReloadPort enables the hot reload script when non-zero.
	ReloadPort int
}

// Engine renders the embedded templates. It implements fiber.Views.
type Engine struct {
	loc *time.Location
	now func() time.Time

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// New creates an engine that prints post times in loc.
func New(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc, now: time.Now}
}

func (e *Engine) funcs() template.FuncMap {
	return template.FuncMap{
		"ago":      func(t time.Time) string { return model.Ago(t, e.now()) },
		"postTime": func(p model.Post) string { return p.FormatIn(e.loc) },
		"anchor":   AnchorID,
		"full":     Full,
		"start":    Start,
		"navlink":  navLink,
	}
}

// Load parses every page together with the layout and shared partials.
func (e *Engine) Load() error {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(e.funcs()).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}

	e.mu.Lock()
	e.pages = pages
	e.mu.Unlock()
	return nil
}

// Render executes the page name. With a layout the page is wrapped in it,
// without one only the page content is written.
func (e *Engine) Render(w io.Writer, name string, binding interface{}, layout ...string) error {
	e.mu.RLock()
	t, ok := e.pages[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("render: template %s does not exist", name)
	}

	entry := "content"
	if len(layout) > 0 && layout[0] != "" {
		entry = layout[0]
	}
	return t.ExecuteTemplate(w, entry, binding)
}

// ForumRow is a forum in the categories table with its counts and the
// latest activity, which is nil for a forum without threads.
type ForumRow struct {
	Forum  model.Forum
	Stats  model.ForumStats
	Latest *model.LatestActivity
}

// CategoryView is a category with its table rows.
type CategoryView struct {
	Category model.Category
	Rows     []ForumRow
}

// Form holds submitted values so a rejected form is shown again filled in.
type Form struct {
	Subject string
	Content string
	Error   string
}
