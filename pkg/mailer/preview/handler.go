package preview

import (
	"errors"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/templatemail/pkg/logger"
	"github.com/dmitrymomot/templatemail/pkg/mailer"
)

// partParam selects a single rendered part instead of the combined page.
const partParam = "part"

// Renderer renders a named template. *mailer.Renderer and *mailer.Mailer implement it.
type Renderer interface {
	Render(name string, data mailer.Data) (*mailer.Rendered, error)
}

// Option configures the preview handler.
type Option func(*handler)

// WithLogger sets the logger used for failed renders. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *handler) {
		if log != nil {
			h.logger = log
		}
	}
}

type handler struct {
	renderer Renderer
	logger   *slog.Logger
}

// New returns an HTTP handler rendering the template named by the request path.
//
// Query parameters become template data: a single value as a string, repeated
// values as a []string. The response is the HTML body followed by the escaped
// text body; ?part=subject, ?part=text or ?part=html returns one part as plain text.
func New(renderer Renderer, opts ...Option) http.Handler {
	h := &handler{renderer: renderer, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/*", h.render)
	return r
}

func (h *handler) render(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(chi.URLParam(r, "*"), "/")
	if name == "" {
		http.Error(w, "template name required", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	rendered, err := h.renderer.Render(name, queryData(query))
	if err != nil {
		status := errorStatus(err)
		h.logger.WarnContext(r.Context(), "preview render failed",
			slog.String("template", name),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		http.Error(w, err.Error(), status)
		return
	}

	if part := query.Get(partParam); part != "" {
		writePart(w, part, rendered)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var b strings.Builder
	b.WriteString(rendered.HTML)
	b.WriteString("<hr><h1>TEXT VERSION</h1><pre>")
	b.WriteString(html.EscapeString(rendered.Text))
	b.WriteString("</pre>")
	_, _ = w.Write([]byte(b.String()))
}

func writePart(w http.ResponseWriter, part string, rendered *mailer.Rendered) {
	var content string
	switch part {
	case "subject":
		content = rendered.Subject
	case "text":
		content = rendered.Text
	case "html":
		content = rendered.HTML
	default:
		http.Error(w, "unknown part "+part, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// queryData converts query parameters into template data, skipping the part selector.
func queryData(query url.Values) mailer.Data {
	data := make(mailer.Data, len(query))
	for key, values := range query {
		if key == partParam {
			continue
		}
		if len(values) == 1 {
			data[key] = values[0]
			continue
		}
		data[key] = values
	}
	return data
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, mailer.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, mailer.ErrUndefinedVariable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
