package main

import (
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/fwojciec/ebook2pdf"
	"github.com/fwojciec/ebook2pdf/websocket"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// indexData prefills the credentials form.
type indexData struct {
	IndexHTML string
	Username  string
	Password  string
}

// NewServer returns the HTTP handler serving the form at / and jobs at the
// WebSocket path.
func NewServer(cfg *ebook2pdf.Config, jobs http.Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(websocket.Path, jobs)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := indexTemplate.Execute(w, indexData{
			IndexHTML: cfg.IndexHTML,
			Username:  cfg.Username,
			Password:  cfg.Password,
		})
		if err != nil {
			logger.Warn("render index", "err", err)
		}
	})
	return mux
}
