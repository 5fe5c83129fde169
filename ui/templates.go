package ui

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"pspicdash/internal/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"chartURL": func(path, field, ext string, st dashboard.State) string {
			return chartLink(path, field, ext, st, false)
		},
		"downloadURL": func(path, field, ext string, st dashboard.State) string {
			return chartLink(path, field, ext, st, true)
		},
		"exportURL": func(path, file string, st dashboard.State) string {
			return st.Link(path + "/" + file)
		},
		"percent": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64) + "%"
		},
		"width": func(v float64) template.CSS {
			return template.CSS("width: " + strconv.FormatFloat(v, 'f', 1, 64) + "%")
		},
		"color": func(colors []string, i int) template.CSS {
			if len(colors) == 0 {
				return "background: #0ea5e9"
			}
			return template.CSS("background: " + colors[i%len(colors)])
		},
		// dict hands a chart panel and the page it sits on to the "chart" template
		"dict": func(view interface{}, chart dashboard.ChartView) map[string]interface{} {
			return map[string]interface{}{"view": view, "chart": chart}
		},
		"deref":     func(b *bool) bool { return b != nil && *b },
		"thousands": thousands,
		"add":       func(a, b int) int { return a + b },
	}
}

// thousands formats n with "." separators, as es-CO does
func thousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// renderMarkdown converts user text to HTML; raw HTML in the source is dropped
func renderMarkdown(md string) template.HTML {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML,
	})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		logger.Error("template %s failed: %v", templateName, err)
		c.String(500, "Template rendering failed")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		logger.Warn("failed to write %s: %v", templateName, err)
	}
}
