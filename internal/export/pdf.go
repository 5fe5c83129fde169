// Package export assembles section reports as paginated A4 PDFs.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"pspicdash/internal/errors"
	"pspicdash/internal/render"

	"github.com/go-pdf/fpdf"
)

const (
	padding      = 10.0
	coverMargin  = 20.0
	coverWidth   = 180.0
	lineHeight   = 6.0
	cardHeight   = 18.0
	cardsPerRow  = 3
	tableFont    = 8.0
	tableRowH    = 6.0
	chartSpacing = 6.0
)

var (
	coverColor = [3]int{14, 165, 233}
	cardColor  = [3]int{240, 249, 255}
	headColor  = [3]int{224, 242, 254}
	inkColor   = [3]int{31, 41, 55}
	mutedColor = [3]int{107, 114, 128}
)

// Card is a labelled summary figure
type Card struct {
	Label string
	Value string
}

// Table is printed with its header row repeated on every page it spans
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Section is one dashboard block of the report
type Section struct {
	Heading string
	Cards   []Card
	Filters []string
	Charts  []render.Chart
	Tables  []Table
}

// PDFReport describes a downloadable report
type PDFReport struct {
	Title    string
	Subtitle string
	// FileTitle names the download; Title is used when empty.
	FileTitle string
	Cover    bool
	Sections []Section
	Date     time.Time
}

// FileName returns "{title}_{YYYY-MM-DD}.pdf"
func (r PDFReport) FileName() string {
	date := r.Date
	if date.IsZero() {
		date = time.Now()
	}
	name := r.FileTitle
	if name == "" {
		name = r.Title
	}
	return render.FileName(name+"_"+date.Format("2006-01-02"), "pdf")
}

// SliceOffsets returns the vertical offset of each page a tall image is
// printed on: the image is repeated shifted up by one page height until its
// bottom edge has been shown.
func SliceOffsets(imageHeight, pageHeight float64) []float64 {
	offsets := []float64{0}
	if pageHeight <= 0 {
		return offsets
	}
	left := imageHeight - pageHeight
	for left > 0 {
		offsets = append(offsets, left-imageHeight)
		left -= pageHeight
	}
	return offsets
}

// Write renders the report as PDF to w
func (r PDFReport) Write(w io.Writer) error {
	pdf, err := r.build()
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return errors.Export("failed to write report "+r.Title, err)
	}
	return nil
}

type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
	images int
}

func (r PDFReport) build() (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(padding, padding, padding)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(r.Title, true)

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	d.width, d.height = pdf.GetPageSize()

	if r.Cover {
		d.cover(r.Title, r.Subtitle)
	}
	pdf.AddPage()
	if !r.Cover {
		d.heading(r.Title, 16)
		if r.Subtitle != "" {
			d.paragraph(r.Subtitle, mutedColor)
		}
	}

	for _, s := range r.Sections {
		if err := d.section(s); err != nil {
			return nil, err
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, errors.Export("failed to build report "+r.Title, err)
	}
	return pdf, nil
}

func (d *document) setFill(c [3]int) { d.pdf.SetFillColor(c[0], c[1], c[2]) }
func (d *document) setText(c [3]int) { d.pdf.SetTextColor(c[0], c[1], c[2]) }

func (d *document) contentWidth() float64 { return d.width - 2*padding }

// ensure starts a new page unless h millimetres still fit
func (d *document) ensure(h float64) bool {
	if d.pdf.GetY()+h <= d.height-padding {
		return false
	}
	d.pdf.AddPage()
	return true
}

func (d *document) cover(title, subtitle string) {
	pdf := d.pdf
	pdf.AddPage()
	d.setFill(coverColor)
	pdf.Rect(0, 0, d.width, d.height, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(coverMargin, 80)
	pdf.MultiCell(coverWidth, 10, d.tr(title), "", "L", false)
	pdf.SetFontSize(14)
	pdf.SetXY(coverMargin, 100)
	pdf.MultiCell(coverWidth, 7, d.tr(subtitle), "", "L", false)
}

func (d *document) heading(text string, size float64) {
	d.ensure(size)
	d.setText(inkColor)
	d.pdf.SetFont("Helvetica", "B", size)
	d.pdf.SetX(padding)
	d.pdf.MultiCell(d.contentWidth(), size*0.5, d.tr(text), "", "L", false)
	d.pdf.Ln(2)
}

func (d *document) paragraph(text string, color [3]int) {
	d.pdf.SetFont("Helvetica", "", 10)
	lines := d.pdf.SplitText(d.tr(text), d.contentWidth())
	d.ensure(float64(len(lines)) * lineHeight)
	d.setText(color)
	for _, line := range lines {
		d.pdf.SetX(padding)
		d.pdf.CellFormat(d.contentWidth(), lineHeight, line, "", 1, "L", false, 0, "")
	}
	d.pdf.Ln(2)
}

func (d *document) section(s Section) error {
	if s.Heading != "" {
		d.heading(s.Heading, 14)
	}
	d.cards(s.Cards)
	if len(s.Filters) > 0 {
		d.paragraph("Filtros: "+joinFilters(s.Filters), mutedColor)
	}
	for _, c := range s.Charts {
		if err := d.chart(c); err != nil {
			return err
		}
	}
	for _, t := range s.Tables {
		d.table(t)
	}
	return nil
}

func joinFilters(filters []string) string {
	var buf bytes.Buffer
	for i, f := range filters {
		if i > 0 {
			buf.WriteString(" · ")
		}
		buf.WriteString(f)
	}
	return buf.String()
}

func (d *document) cards(cards []Card) {
	if len(cards) == 0 {
		return
	}
	pdf := d.pdf
	gap := 4.0
	w := (d.contentWidth() - gap*(cardsPerRow-1)) / cardsPerRow
	for i, c := range cards {
		col := i % cardsPerRow
		if col == 0 {
			d.ensure(cardHeight + gap)
		}
		x := padding + float64(col)*(w+gap)
		y := pdf.GetY()

		d.setFill(cardColor)
		pdf.Rect(x, y, w, cardHeight, "F")
		d.setText(mutedColor)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(x+3, y+2)
		pdf.CellFormat(w-6, 5, d.fit(c.Label, w-6), "", 0, "L", false, 0, "")
		d.setText(inkColor)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetXY(x+3, y+8)
		pdf.CellFormat(w-6, 8, d.tr(c.Value), "", 0, "L", false, 0, "")

		if col == cardsPerRow-1 || i == len(cards)-1 {
			pdf.SetXY(padding, y+cardHeight+gap)
		}
	}
}

// chart embeds the PNG rendition scaled to the content width
func (d *document) chart(c render.Chart) error {
	var buf bytes.Buffer
	if err := render.Draw(&buf, c, render.PNG); err != nil {
		return err
	}
	pdf := d.pdf
	d.images++
	name := fmt.Sprintf("chart-%d", d.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader(name, opts, &buf)
	if info == nil || pdf.Err() {
		return errors.Export("failed to embed chart "+c.Title, pdf.Error())
	}

	w := d.contentWidth()
	h := w * info.Height() / info.Width()
	usable := d.height - 2*padding

	if h > usable {
		// taller than a page: repeat the image shifted up on following pages
		if pdf.GetY() > padding {
			pdf.AddPage()
		}
		// Offsets advance by the full page height while each slice is drawn from
		// the top margin, so consecutive slices repeat a padding-high band.
		for i, offset := range SliceOffsets(h, d.height) {
			if i > 0 {
				pdf.AddPage()
			}
			pdf.ImageOptions(name, padding, offset+padding, w, h, false, opts, 0, "")
		}
		pdf.SetY(d.height - padding)
		return nil
	}

	d.ensure(h)
	pdf.ImageOptions(name, padding, pdf.GetY(), w, h, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + h + chartSpacing)
	return nil
}

func (d *document) table(t Table) {
	if len(t.Headers) == 0 {
		return
	}
	if t.Title != "" {
		d.heading(t.Title, 12)
	}
	colW := d.contentWidth() / float64(len(t.Headers))

	d.ensure(2 * tableRowH)
	d.tableHeader(t.Headers, colW)

	d.pdf.SetFont("Helvetica", "", tableFont)
	d.setText(inkColor)
	for _, row := range t.Rows {
		if d.ensure(tableRowH) {
			d.tableHeader(t.Headers, colW)
			d.pdf.SetFont("Helvetica", "", tableFont)
			d.setText(inkColor)
		}
		d.pdf.SetX(padding)
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			d.pdf.CellFormat(colW, tableRowH, d.fit(cell, colW-2), "B", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(4)
}

func (d *document) tableHeader(headers []string, colW float64) {
	d.pdf.SetFont("Helvetica", "B", tableFont)
	d.setFill(headColor)
	d.setText(inkColor)
	d.pdf.SetX(padding)
	for _, h := range headers {
		d.pdf.CellFormat(colW, tableRowH, d.fit(h, colW-2), "", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
}

// fit translates s and cuts it with "..." to at most width millimetres in the current font
func (d *document) fit(s string, width float64) string {
	s = d.tr(s)
	if d.pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []byte(s)
	for len(r) > 0 && d.pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
