package ui

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"pspicdash/adapters/excel"
	"pspicdash/internal/catalog"
	"pspicdash/internal/dashboard"
	"pspicdash/internal/errors"
	"pspicdash/internal/navigation"
	"pspicdash/internal/render"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// chartLink addresses the drawing of field; download asks for an attachment
func chartLink(sectionPath, field, ext string, st dashboard.State, download bool) string {
	q := st.Query()
	if download {
		q.Set("descargar", "1")
	}
	u := sectionPath + "/graficos/" + url.PathEscape(field) + "." + ext
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// dataSection resolves the section of a download, which must have published data
func (s *Server) dataSection(c *gin.Context) (navigation.Item, *catalog.Dashboard, dashboard.State, error) {
	id := c.Param("id")
	item, ok := navigation.Lookup(id)
	if !ok || !item.HasData() {
		return navigation.Item{}, nil, dashboard.State{}, errors.NotFound("data for " + id)
	}
	d, err := s.dashboards.Catalog().Dashboard(item.Section)
	if err != nil {
		return navigation.Item{}, nil, dashboard.State{}, err
	}
	return item, d, dashboard.ParseState(c.Request.URL.Query(), d), nil
}

func disposition(kind, name string) string {
	return mime.FormatMediaType(kind, map[string]string{"filename": name})
}

func (s *Server) handleChart(c *gin.Context) {
	item, _, st, err := s.dataSection(c)
	if err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}
	file := c.Param("file")
	ext := path.Ext(file)
	field := strings.TrimSuffix(file, ext)

	view, err := s.dashboards.ChartData(c.Request.Context(), item.Section, field, st)
	if err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}

	var buf bytes.Buffer
	if ext == ".html" {
		if err := render.Interactive(&buf, view.Chart()); err != nil {
			s.renderError(c, s.preferences(c), errors.Export("failed to render "+view.Title, err))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
		return
	}

	format, err := render.ParseFormat(ext)
	if err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}
	if err := render.Draw(&buf, view.Chart(), format); err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}
	kind := "inline"
	if c.Query("descargar") != "" {
		kind = "attachment"
	}
	c.Header("Content-Disposition", disposition(kind, render.FileName(view.Title, string(format))))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) handleReport(c *gin.Context) {
	item, _, st, err := s.dataSection(c)
	if err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}
	report, err := s.dashboards.Report(c.Request.Context(), item.Section, st, s.pdfCover)
	if err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf); err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}
	logger.Info("exported %s (%d bytes)", report.FileName(), buf.Len())
	c.Header("Content-Disposition", disposition("attachment", report.FileName()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (s *Server) handleTable(c *gin.Context) {
	item, d, st, err := s.dataSection(c)
	if err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}
	headers, rows, err := s.dashboards.Rows(c.Request.Context(), item.Section, st)
	if err != nil {
		s.renderError(c, s.preferences(c), err)
		return
	}
	var buf bytes.Buffer
	if err := excel.WriteTable(&buf, d.Title, headers, rows); err != nil {
		s.renderError(c, s.preferences(c), errors.Export("failed to write table "+d.Title, err))
		return
	}
	name := render.FileName(d.Title+"_"+time.Now().Format("2006-01-02"), "xlsx")
	c.Header("Content-Disposition", disposition("attachment", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
