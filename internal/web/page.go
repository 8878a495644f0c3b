package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	// json.Marshal escapes <, > and & so the figure is safe inside <script>.
	"figure": func(raw json.RawMessage) template.JS { return template.JS(raw) },
}).ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Ticker string
	Start  string
	End    string
	Figure json.RawMessage
	Notice string
	Error  string
}

func writePage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		log.Error().Err(err).Msg("render page")
		http.Error(w, "render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
