package dashboard

import (
	"context"
	"time"

	"pspicdash/internal/catalog"
	"pspicdash/internal/export"
	"pspicdash/internal/render"
)

// Report assembles the PDF of section as currently filtered
func (s *Service) Report(ctx context.Context, section string, st State, cover bool) (export.PDFReport, error) {
	page, err := s.Page(ctx, section, st)
	if err != nil {
		return export.PDFReport{}, err
	}
	d, err := s.catalog.Dashboard(section)
	if err != nil {
		return export.PDFReport{}, err
	}

	r := export.PDFReport{
		Title:     page.Title,
		Subtitle:  page.Subtitle,
		FileTitle: page.Title,
		Cover:     cover,
		Date:      time.Now(),
	}
	if d.ReportTitle != "" {
		r.Title = d.ReportTitle
	}
	if d.ReportSubtitle != "" {
		r.Subtitle = d.ReportSubtitle
	}
	if d.Kind == catalog.Participantes {
		r.FileTitle = "Participantes_2025"
	}

	sec := export.Section{Heading: page.Headline}
	for _, c := range page.Cards {
		sec.Cards = append(sec.Cards, export.Card{Label: c.Label, Value: c.Value})
	}
	for _, a := range page.Active {
		sec.Filters = append(sec.Filters, a.Label+": "+a.Value)
	}
	sec.Charts = append(sec.Charts, charts(page.Charts)...)
	for _, g := range page.Groups {
		sec.Charts = append(sec.Charts, charts(g.Charts)...)
	}
	if page.Table != nil {
		headers, rows := page.Table.Export()
		sec.Tables = append(sec.Tables, export.Table{Title: "Detalle", Headers: headers, Rows: rows})
	}
	r.Sections = []export.Section{sec}
	return r, nil
}

func charts(views []ChartView) []render.Chart {
	out := make([]render.Chart, len(views))
	for i, v := range views {
		out[i] = v.Chart()
	}
	return out
}
