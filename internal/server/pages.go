package server

import (
	"html/template"
	"net/http"

	"github.com/salterb/cast/internal/services"
)

// pageTemplate is the single page CAST serves: an optional message block
// followed by the search form. Admin commands are deliberately absent from
// the rendered UI.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>{{.SiteName}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               max-width: 32rem; margin: 3rem auto; padding: 0 1rem; color: #222; }
        h1 { color: #1DB954; }
        .msg { background: #f5f5f5; border-radius: 8px; padding: 1rem; margin-bottom: 1.5rem; }
        .msg.error { background: #fdeaea; }
        input[type=text] { width: 100%; padding: 0.5rem; font-size: 1rem; }
        button { margin-top: 0.75rem; padding: 0.5rem 1.5rem; font-size: 1rem; }
        ul { margin: 0.5rem 0 0 0; }
    </style>
</head>
<body>
    <h1>{{.SiteName}}</h1>
    {{- if or .Message .Lines}}
    <div class="msg{{if .IsError}} error{{end}}">
        {{- if .Message}}<p>{{.Message}}</p>{{end}}
        {{- if .Lines}}
        <ul>
            {{- range .Lines}}
            <li>{{.}}</li>
            {{- end}}
        </ul>
        {{- end}}
    </div>
    {{- end}}
    <form id="form1">
        <label for="search">Search:</label><br>
        <input type="text" id="search" name="search">
    </form>
    <button type="submit" form="form1" value="Submit">Submit</button>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// PageData carries everything the page template needs.
type PageData struct {
	SiteName string
	Message  string
	Lines    []string
	IsError  bool
}

// renderPage writes the page with the given data. Render failures surface as 500s.
func renderPage(w http.ResponseWriter, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// trackLines formats a track as the detail lines shown on confirmation pages.
func trackLines(track *services.Track) []string {
	lines := []string{"Song: " + track.Title}
	if track.Artist != "" {
		lines = append(lines, "Artist: "+track.Artist)
	}
	if track.Album != "" {
		lines = append(lines, "Album: "+track.Album)
	}
	return lines
}
