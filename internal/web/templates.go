package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

//go:embed templates/*.html
var templateFiles embed.FS

var markdown = goldmark.New()

// renderMarkdown converts assistant Markdown to HTML for the support
// page. Assistant output is model-generated, so it passes through
// goldmark's default escaping rather than being trusted raw.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

var templateFuncs = template.FuncMap{
	"markdown":   renderMarkdown,
	"statusName": func(status int) string { return rental.BookingStatus(status).String() },
}

// loadTemplates parses the layout and each page template. Each page is
// a clone of the layout with the page-specific blocks overridden.
// Panics on syntax errors so that startup fails fast.
func loadTemplates() map[string]*template.Template {
	layout := template.Must(
		template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFiles, "templates/layout.html"),
	)

	pages := []string{
		"login.html", "register.html", "home.html",
		"reservations.html", "support.html", "faq.html", "contact.html",
	}
	result := make(map[string]*template.Template, len(pages))

	for _, page := range pages {
		t := template.Must(layout.Clone())
		template.Must(t.ParseFS(templateFiles, "templates/"+page))
		result[page] = t
	}

	return result
}

// render executes a page template inside the layout.
func (s *WebServer) render(w http.ResponseWriter, name string, data any) {
	t, ok := s.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error("template render failed", "template", name, "error", err)
	}
}
