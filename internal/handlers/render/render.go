package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

const baseTemplate = "templates/base.html"

// Pages the renderer knows about; every page is parsed together with the
// base layout at startup so a broken template fails fast
var pageNames = []string{
	"home.html",
	"login.html",
	"register.html",
	"memo_list.html",
	"memo_form.html",
	"memo_detail.html",
	"memo_confirm_delete.html",
	"not_found.html",
	"server_error.html",
}

type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templatesFS, baseTemplate, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("can't parse template %q: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// HTML renders the page into a buffer first, so a template error never
// produces a half written response
func (rn *Renderer) HTML(w http.ResponseWriter, code int, page string, data any) error {
	tmpl, ok := rn.pages[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}

	buf := &bytes.Buffer{}
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("can't execute template %q: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// NotFound renders the shared 404 page
// Missing memos and memos owned by someone else look exactly the same here
func (rn *Renderer) NotFound(w http.ResponseWriter) {
	if err := rn.HTML(w, http.StatusNotFound, "not_found.html", map[string]any{"Title": "Not found"}); err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// ServerError renders the shared 500 page
func (rn *Renderer) ServerError(w http.ResponseWriter) {
	if err := rn.HTML(w, http.StatusInternalServerError, "server_error.html", map[string]any{"Title": "Server error"}); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
