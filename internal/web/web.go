// Package web holds the embedded HTML templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"price": FormatPrice,
	"year":  func() int { return time.Now().Year() },
}

// Templates parses every page template. The result is meant for
// gin.Engine.SetHTMLTemplate; pages are addressed by file name.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// Static serves the files below static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// FormatPrice renders a euro amount the German way: "12,50 €".
func FormatPrice(eur float64) string {
	s := fmt.Sprintf("%.2f", eur)
	return strings.Replace(s, ".", ",", 1) + " €"
}
