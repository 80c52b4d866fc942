package template

import (
	"embed"
	"net/http"
	"time"

	stdtemplate "html/template"

	humanize "github.com/dustin/go-humanize"
)

type Template struct {
	templates *stdtemplate.Template
}

func NewTemplate(fs embed.FS) *Template {
	funcMap := stdtemplate.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"mul": func(a, b int) int {
			return a * b
		},
		"jsescape":  stdtemplate.JSEscapeString,
		"humantime": humanize.Time,
		"humannumber": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"yen": func(n int64) string {
			return "¥" + humanize.Comma(n)
		},
		"isodate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
	}
	return &Template{
		templates: stdtemplate.Must(stdtemplate.New("stdtmpl").Funcs(funcMap).ParseFS(fs, "static/views/*.html")),
	}
}

func (t *Template) JSEscapeString(s string) string {
	return stdtemplate.JSEscapeString(s)
}

func (t *Template) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	w.WriteHeader(status)
	return t.templates.ExecuteTemplate(w, name, data)
}

func (t *Template) StringToHTML(s string) stdtemplate.HTML {
	return stdtemplate.HTML(s)
}
