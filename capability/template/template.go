// Package template is the default "template" capability module, rendering
// text/template strings for generators and scaffolding commands.
package template

import (
	"strings"
	"text/template"
)

type Engine struct {
	funcs template.FuncMap
}

func New() *Engine {
	return &Engine{funcs: template.FuncMap{}}
}

// Func registers a helper available to every subsequent render.
func (e *Engine) Func(name string, fn any) *Engine {
	e.funcs[name] = fn
	return e
}

// Render executes the template text against data.
func (e *Engine) Render(text string, data any) (string, error) {
	tmpl, err := template.New("glue").Funcs(e.funcs).Parse(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}

	return sb.String(), nil
}
