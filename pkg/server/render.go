package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome       = "home"
	pageRecipients = "recipients"
)

// templateFuncs are available to every page.
var templateFuncs = template.FuncMap{ //nolint:gochecknoglobals // read-only function table
	"hex": utils.UTF8ToHex,
	"shortTxid": func(txid string) string {
		if len(txid) <= 16 {
			return txid
		}
		return txid[:8] + "…" + txid[len(txid)-8:]
	},
}

// renderer holds one parsed template set per page, each sharing the layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageHome, pageRecipients} {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &renderer{pages: pages}, nil
}

// html renders page into a buffer first so a template error yields a clean 500.
func (s *Server) html(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.renderer.pages[page]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("Failed to render page", slog.String("page", page), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("Failed to write page", slog.String("page", page), "error", err)
	}
}
