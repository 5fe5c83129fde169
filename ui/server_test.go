package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pspicdash/adapters/sqlstore"
	"pspicdash/domain/sheet"
	"pspicdash/internal/api"
	"pspicdash/internal/catalog"
	"pspicdash/internal/dashboard"
	"pspicdash/internal/dataset"
	"pspicdash/internal/errors"
	"pspicdash/internal/navigation"
	"pspicdash/ports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sheets = map[string][][]string{
	"acciones": {
		{"No de Identificación", "Equipo/Problemática", "Sexo", "Número de Participantes"},
		{"1", "Salud Mental", "Femenino", "1200"},
		{"2", "Nutrición", "Masculino", "34"},
	},
	"procesos": {
		{"No de Identificación", "Equipo/Problemática", "Se identifica como", "Número de Participantes"},
		{"3", "Salud Mental", "Mujer", "6"},
	},
	"talleres": {
		{"Id", "Fecha Taller", "Tema", "ubicación", "Comuna/Corregimiento", "Zona", "Equipo/Problemática"},
		{"1", "2025-03-03", "Salud", "Colegio", "Comuna 1", "Nororiental", "SM"},
		{"2", "4/3/2025", "Nutrición", "", "Comuna 2", "Ladera", "N"},
	},
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source := ports.SheetSourceFunc(func(_ context.Context, ref sheet.Ref) (*sheet.Table, error) {
		records, ok := sheets[ref.Key]
		if !ok {
			return nil, errors.SheetFetch("Error 404: No se pudo cargar la hoja "+ref.Key, nil)
		}
		return sheet.FromRecords(ref.Key, records), nil
	})
	c, err := catalog.Default()
	require.NoError(t, err)
	dashboards := dashboard.NewService(c, dataset.NewLoader(source, 0))

	s, err := NewServer(Deps{
		Dashboards:    dashboards,
		Navigation:    navigation.NewService(sqlstore.NewMemoryRepository()),
		API:           api.NewRouter(dashboards),
		SessionCookie: "pspic_session",
		PDFCover:      true,
	})
	require.NoError(t, err)
	return s
}

// browser replays the cookies it has been given
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, s *Server) *browser {
	return &browser{t: t, handler: s.Handler(), cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func TestHomePage(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	w := b.get("/inicio")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Plan de Salud Pública de Intervenciones Colectivas")
	assert.Contains(t, body, "<strong>PSPIC</strong>")
	assert.Contains(t, body, "Total Participantes")
	assert.Contains(t, body, "1.240")
	assert.Contains(t, body, `href="/secciones/talleres-2025"`)
	assert.Contains(t, b.cookies, "pspic_session")
}

func TestRootResumesLastSection(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	w := b.get("/")
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, http.StatusOK, b.get("/secciones/talleres-2025").Code)
	w = b.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/secciones/talleres-2025", w.Header().Get("Location"))

	require.Equal(t, http.StatusOK, b.get("/inicio").Code)
	assert.Equal(t, http.StatusOK, b.get("/").Code)
}

func TestSectionPages(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
		want   []string
	}{
		{"talleres", "/secciones/talleres-2025", http.StatusOK,
			[]string{"Talleres 2025", "Total de Talleres", "Talleres por Zona", "03/03/2025", "2025 / Talleres"}},
		{"filtered", "/secciones/talleres-2025?f.Zona=Ladera", http.StatusOK,
			[]string{"Zona: Ladera", "04/03/2025"}},
		{"detail", "/secciones/talleres-2025?row=0", http.StatusOK,
			[]string{"Detalle del Taller", "Colegio"}},
		{"participantes tabs", "/secciones/participantes-2025?tab=procesos", http.StatusOK,
			[]string{"Ver Todo", "Procesos Formativos", "Total de registros: 1"}},
		{"upcoming year", "/secciones/talleres-2026", http.StatusOK,
			[]string{"Próximamente", "talleres realizados en la vigencia 2026"}},
		{"unknown section", "/secciones/finanzas-2025", http.StatusNotFound,
			[]string{"No encontrado"}},
		{"sheet failure", "/secciones/indicadores-2025", http.StatusBadGateway,
			[]string{"No se pudieron cargar los datos", "Reintentar", "Error 404: No se pudo cargar la hoja indicadores"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newBrowser(t, s).get(tt.target)
			assert.Equal(t, tt.status, w.Code)
			for _, want := range tt.want {
				assert.Contains(t, w.Body.String(), want)
			}
		})
	}
}

func TestToggleYear(t *testing.T) {
	b := newBrowser(t, newTestServer(t))
	b.get("/inicio")

	w := b.post("/menu/2025", url.Values{"next": {"/inicio"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/inicio", w.Header().Get("Location"))
	assert.NotContains(t, b.get("/inicio").Body.String(), `href="/secciones/talleres-2025"`)

	w = b.post("/menu/2026", url.Values{"next": {"//evil.example"}})
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, b.get("/inicio").Body.String(), `href="/secciones/talleres-2026"`)

	assert.Equal(t, http.StatusBadRequest, b.post("/menu/1999", nil).Code)
}

func TestChartDownloads(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	w := b.get("/secciones/talleres-2025/graficos/Zona.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Talleres_por_Zona.png")
	assert.Equal(t, "\x89PNG", w.Body.String()[:4])

	w = b.get("/secciones/talleres-2025/graficos/Comuna%2FCorregimiento.svg?descargar=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "<svg")

	w = b.get("/secciones/talleres-2025/graficos/Zona.html")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echarts")

	assert.Equal(t, http.StatusBadRequest, b.get("/secciones/talleres-2025/graficos/Zona.gif").Code)
	assert.Equal(t, http.StatusNotFound, b.get("/secciones/talleres-2025/graficos/Tema.png").Code)
	assert.Equal(t, http.StatusNotFound, b.get("/secciones/talleres-2026/graficos/Zona.png").Code)
}

func TestExports(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	w := b.get("/secciones/talleres-2025/reporte.pdf?f.Zona=Ladera")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Talleres_")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = b.get("/secciones/talleres-2025/tabla.xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))

	assert.Equal(t, http.StatusBadGateway, b.get("/secciones/cumplimiento-2025/tabla.xlsx").Code)
}

func TestHealthAndAPI(t *testing.T) {
	b := newBrowser(t, newTestServer(t))

	w := b.get("/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = b.get("/api/v1/dashboards/talleres/rows")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	assert.Equal(t, http.StatusNotFound, b.get("/no/existe").Code)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "1.234.567", thousands(1234567))
	assert.Equal(t, "999", thousands(999))
	assert.Equal(t, "-1.000", thousands(-1000))

	assert.Equal(t, "/secciones/x", safeNext("/secciones/x"))
	assert.Equal(t, "/", safeNext("https://evil.example"))
	assert.Equal(t, "/", safeNext(""))

	html := string(renderMarkdown("**hola** <script>alert(1)</script>"))
	assert.Contains(t, html, "<strong>hola</strong>")
	assert.NotContains(t, html, "<script>")
	assert.Empty(t, renderMarkdown("  "))

	st := dashboard.NewState().With("Zona", "Ladera")
	assert.Equal(t, "/s/graficos/Comuna%2FCorregimiento.png?descargar=1&f.Zona=Ladera",
		chartLink("/s", "Comuna/Corregimiento", "png", st, true))
}
