// Package web embeds the HTML templates of the dashboard pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page template. Each page is addressed by its file
// name, e.g. "students.html".
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs are the helpers available to page templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"hours": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"money": func(v interface{}) string {
			switch n := v.(type) {
			case int:
				return strconv.Itoa(n) + " zł"
			case float64:
				return strconv.FormatFloat(n, 'f', 2, 64) + " zł"
			default:
				return fmt.Sprint(v)
			}
		},
		"paymentLabel": viewmodel.PaymentStatusLabel,
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"selected": func(a, b string) template.HTMLAttr {
			if a == b {
				return "selected"
			}
			return ""
		},
	}
}
