package handler

import (
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/velocityrent/rental-portal/internal/api/middleware"
	"github.com/velocityrent/rental-portal/web"
)

// TemplateRenderer satisfies echo.Renderer over the embedded template set.
type TemplateRenderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates. imageURL resolves relative
// image links from the fleet API against the configured image base.
func NewRenderer(imageURL func(string) string) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"price":    formatPrice,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"imageURL": imageURL,
	}
	t, err := template.New("").Funcs(funcs).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *TemplateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// formatPrice renders a rupiah amount with dot-separated thousands,
// e.g. 1250000 -> "1.250.000". Fractions are dropped; the fleet API
// prices whole rupiah.
func formatPrice(v float64) string {
	s := strconv.FormatInt(int64(v), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(s[i])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// viewData assembles the base payload every page template expects: the
// title, the resolved session (nil when anonymous) and a one-shot flash.
func viewData(c echo.Context, title string, extra map[string]any) map[string]any {
	data := map[string]any{
		"Title":   title,
		"Session": middleware.SessionFrom(c),
		"Flash":   popFlash(c),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}
