package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{PageHome, PageCourse, PageSchedule, PageArticles, PageArticle, PageStatic, PageRegion, PageConfirmation, PageError}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"lower": strings.ToLower,
}

// Renderer holds one template set per page, each sharing the layout and partials.
// It implements gin's render.HTMLRender.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = clone
	}
	return &Renderer{pages: pages}, nil
}

// Instance returns the gin renderer for the named page.
func (r *Renderer) Instance(name string, data interface{}) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = r.pages[PageError]
		data = PageData{Body: ErrorBody{Status: 500, Message: "Ukjent side"}}
	}
	return render.HTML{Template: tmpl, Name: "layout.html", Data: data}
}

// Static returns the embedded stylesheet tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
