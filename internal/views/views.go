package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"games_catalog/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

// Page is what every template receives. Data holds the page specific view.
type Page struct {
	Title    string
	Identity session.Identity
	Notices  []session.Notice
	Data     any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"str": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateOnly)
	},
	"rated": func(r *int) string {
		if r == nil {
			return "none"
		}
		return strconv.Itoa(*r)
	},
	"isID": func(p *int64, id int64) bool {
		return p != nil && *p == id
	},
	"isRated": func(r *int, v int) bool {
		return r != nil && *r == v
	},
	"title": func(s any) string {
		v := fmt.Sprint(s)
		if v == "" {
			return v
		}
		return strings.ToUpper(v[:1]) + v[1:]
	},
}

// New parses the layout together with every page template.
func New() (*Renderer, error) {
	layout, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templatesFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}

	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		if f == layoutFile {
			continue
		}

		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templatesFS, f); err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", f, err)
		}

		r.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}

	return r, nil
}

// Render executes the page into a buffer first so that a template error
// never leaves a half written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
