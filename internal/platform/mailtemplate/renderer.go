package mailtemplate

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/valyala/bytebufferpool"
)

const (
	PickConfirmation = "pick_confirmation.html"
	Lines            = "lines.html"
	KickoffPicks     = "kickoff_picks.html"
	Standings        = "standings.html"
	Registration     = "registration.html"
	Commissioner     = "commissioner.html"
	Analytics        = "analytics.html"
)

//go:embed templates/*.html
var files embed.FS

// Renderer executes the embedded league email templates.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Render(name string, data any) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := r.tmpl.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
