// Package render draws aggregations as pie and horizontal bar images.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"pspicdash/internal/analysis"
	"pspicdash/internal/catalog"
	"pspicdash/internal/errors"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is an image encoding
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg", with or without a leading dot
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", errors.Validation(fmt.Sprintf("unsupported image format %q", s))
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Chart is one aggregation ready to draw
type Chart struct {
	Title  string
	Kind   catalog.ChartKind
	Data   analysis.Aggregation
	Colors []string
}

// Draw encodes the chart in format to w
func Draw(w io.Writer, c Chart, format Format) error {
	var err error
	if c.Kind == catalog.ChartBar {
		err = Bar(w, c, format)
	} else {
		err = Pie(w, c, format)
	}
	if err != nil {
		return errors.Export("failed to draw chart "+c.Title, err)
	}
	return nil
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName turns a chart title into a download name: runs of whitespace become "_"
func FileName(title string, ext string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(title), "_") + "." + strings.TrimPrefix(ext, ".")
}

// truncate shortens s to n runes followed by "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func percentLabel(count, total int) string {
	return fmt.Sprintf("%.1f", analysis.Percentage(count, total))
}

var (
	colorTitle  = hex("#1f2937")
	colorMuted  = hex("#6b7280")
	colorText   = hex("#374151")
	colorWhite  = hex("#ffffff")
	colorCanvas = hex("#ffffff")
)

func hex(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

func paletteColor(colors []string, i int) drawing.Color {
	return hex(colorAt(colors, i))
}

// canvas wraps a go-chart renderer with the primitives the charts need
type canvas struct {
	r chart.Renderer
}

func newCanvas(format Format, width, height int) (*canvas, error) {
	r, err := format.provider()(width, height)
	if err != nil {
		return nil, err
	}
	r.SetDPI(72)
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetFont(font)

	c := &canvas{r: r}
	c.rect(0, 0, width, height, colorCanvas)
	return c, nil
}

func (c *canvas) rect(x, y, w, h int, color drawing.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.r.SetFillColor(color)
	c.r.SetStrokeColor(color)
	c.r.SetStrokeWidth(0)
	c.r.MoveTo(x, y)
	c.r.LineTo(x+w, y)
	c.r.LineTo(x+w, y+h)
	c.r.LineTo(x, y+h)
	c.r.Close()
	c.r.Fill()
}

type align int

const (
	alignStart align = iota
	alignMiddle
	alignEnd
)

func (c *canvas) text(body string, x, y int, size float64, color drawing.Color, a align) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(color)
	width := c.r.MeasureText(body).Width()
	switch a {
	case alignMiddle:
		x -= width / 2
	case alignEnd:
		x -= width
	}
	c.r.Text(body, x, y)
}

func (c *canvas) header(title string, total, width int) {
	c.text(title, width/2, 35, 18, colorTitle, alignMiddle)
	c.text(fmt.Sprintf("%d total", total), width-20, 35, 12, colorMuted, alignEnd)
}

func (c *canvas) empty(width, height int) {
	c.text("No hay datos disponibles", width/2, height/2, 14, colorMuted, alignMiddle)
}

func (c *canvas) save(w io.Writer) error {
	return c.r.Save(w)
}
