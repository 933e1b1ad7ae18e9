package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog/log"
)

// DocsHandler serves the OpenAPI document and a plain HTML index of it.
type DocsHandler struct {
	doc  *openapi3.T
	json []byte
}

// NewDocsHandler loads and validates an OpenAPI 3 document.
func NewDocsHandler(ctx context.Context, spec []byte) (*DocsHandler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	return &DocsHandler{doc: doc, json: data}, nil
}

// Document returns the parsed document.
func (h *DocsHandler) Document() *openapi3.T {
	return h.doc
}

// JSON serves the document as JSON.
func (h *DocsHandler) JSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(h.json); err != nil {
		log.Error().Err(err).Msg("Failed to write openapi document")
	}
}

type docsOperation struct {
	Method  string
	Path    string
	Summary string
	Secured bool
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title><link rel="stylesheet" href="/assets/style.css"></head>
<body class="docs">
<h1>{{.Title}} <small>v{{.Version}}</small></h1>
<p>{{.Description}}</p>
<p>Machine-readable document: <a href="/api-docs/openapi.json">openapi.json</a></p>
<table>
<thead><tr><th>Method</th><th>Path</th><th>Summary</th><th>Auth</th></tr></thead>
<tbody>
{{range .Operations}}<tr><td><code>{{.Method}}</code></td><td><code>{{$.Base}}{{.Path}}</code></td><td>{{.Summary}}</td><td>{{if .Secured}}bearer{{end}}</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// UI renders an index of every documented operation.
func (h *DocsHandler) UI(w http.ResponseWriter, r *http.Request) {
	var ops []docsOperation
	for path, item := range h.doc.Paths.Map() {
		for method, op := range item.Operations() {
			ops = append(ops, docsOperation{
				Method:  method,
				Path:    path,
				Summary: op.Summary,
				Secured: op.Security != nil && len(*op.Security) > 0,
			})
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})

	base := ""
	if len(h.doc.Servers) > 0 {
		base = strings.TrimSuffix(h.doc.Servers[0].URL, "/")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := docsTemplate.Execute(w, map[string]any{
		"Title":       h.doc.Info.Title,
		"Version":     h.doc.Info.Version,
		"Description": h.doc.Info.Description,
		"Base":        base,
		"Operations":  ops,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to render docs page")
	}
}
