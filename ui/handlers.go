package ui

import (
	"html/template"
	"net/http"
	"strings"

	"pspicdash/internal/catalog"
	"pspicdash/internal/dashboard"
	"pspicdash/internal/errors"
	"pspicdash/internal/navigation"
	"pspicdash/ports"
	"pspicdash/ui/middleware"

	"github.com/gin-gonic/gin"
)

const programTitle = "Plan de Salud Pública de Intervenciones Colectivas"

const homeIntro = `Tablero de seguimiento del **PSPIC** y de la estrategia *Ciudad Bienestar*.

Elija una vigencia en el menú lateral para consultar participantes, indicadores,
cumplimiento del anexo técnico, incorporación de la estrategia y talleres.`

type menuYear struct {
	Year     string
	Expanded bool
	Items    []navigation.Item
}

// Chrome is the page frame shared by every template
type Chrome struct {
	DocTitle   string
	Breadcrumb string
	Active     string
	Next       string
	Menu       []menuYear
}

type homeView struct {
	Chrome
	Heading       string
	Intro         template.HTML
	Participantes int
}

type sectionView struct {
	Chrome
	Path     string
	Year     string
	Heading  string
	Subtitle string
	Page     *dashboard.Page
	Notes    template.HTML
	Upcoming *upcoming
}

type errorView struct {
	Chrome
	Heading string
	Message string
	Retry   string
}

func (s *Server) preferences(c *gin.Context) *ports.Preferences {
	id := middleware.SessionID(c)
	if id == "" {
		return ports.DefaultPreferences("")
	}
	prefs, err := s.navigation.Get(c.Request.Context(), id)
	if err != nil {
		logger.Warn("using default navigation for %s: %v", id, err)
		return ports.DefaultPreferences(id)
	}
	return prefs
}

func (s *Server) chrome(c *gin.Context, prefs *ports.Preferences, title string) Chrome {
	l := Chrome{
		DocTitle:   title,
		Breadcrumb: navigation.Breadcrumb(prefs.ActiveSection),
		Active:     prefs.ActiveSection,
		Next:       c.Request.URL.RequestURI(),
	}
	for _, y := range navigation.Years {
		l.Menu = append(l.Menu, menuYear{
			Year:     y,
			Expanded: prefs.ExpandedYear == y,
			Items:    navigation.Menu(y),
		})
	}
	return l
}

// handleRoot resumes the section the client had open
func (s *Server) handleRoot(c *gin.Context) {
	prefs := s.preferences(c)
	if prefs.ActiveSection != navigation.Home && navigation.Known(prefs.ActiveSection) {
		c.Redirect(http.StatusFound, "/secciones/"+prefs.ActiveSection)
		return
	}
	s.renderHome(c, prefs)
}

func (s *Server) handleHome(c *gin.Context) {
	prefs := s.setActive(c, navigation.Home)
	s.renderHome(c, prefs)
}

func (s *Server) renderHome(c *gin.Context, prefs *ports.Preferences) {
	total, err := s.dashboards.ParticipantesGlobal(c.Request.Context())
	if err != nil {
		// the card is simply hidden when the participant sheets are unavailable
		logger.Warn("global participants unavailable: %v", err)
		total = 0
	}
	s.renderTemplate(c, http.StatusOK, "home.html", homeView{
		Chrome:        s.chrome(c, prefs, "Dashboard PSPIC"),
		Heading:       programTitle,
		Intro:         renderMarkdown(homeIntro),
		Participantes: total,
	})
}

// setActive records section as the open one; storage failures only cost the
// client its remembered position
func (s *Server) setActive(c *gin.Context, section string) *ports.Preferences {
	id := middleware.SessionID(c)
	prefs, err := s.navigation.SetActiveSection(c.Request.Context(), id, section)
	if err != nil {
		logger.Warn("failed to remember section %s: %v", section, err)
		prefs = s.preferences(c)
		prefs.ActiveSection = section
	}
	return prefs
}

func (s *Server) handleSection(c *gin.Context) {
	id := c.Param("id")
	item, ok := navigation.Lookup(id)
	if !ok {
		s.renderNotFound(c, "La sección "+id+" no existe.")
		return
	}
	prefs := s.setActive(c, id)

	d, err := s.dashboards.Catalog().Dashboard(item.Section)
	if err != nil {
		s.renderError(c, prefs, err)
		return
	}
	view := sectionView{
		Chrome:   s.chrome(c, prefs, d.Title+" "+item.Year),
		Path:     "/secciones/" + id,
		Year:     item.Year,
		Heading:  d.Title + " " + item.Year,
		Subtitle: d.Subtitle,
	}

	if !item.HasData() {
		view.Upcoming = upcomingFor(item)
		s.renderTemplate(c, http.StatusOK, "section.html", view)
		return
	}

	st := dashboard.ParseState(c.Request.URL.Query(), d)
	page, err := s.dashboards.Page(c.Request.Context(), item.Section, st)
	if err != nil {
		s.renderError(c, prefs, err)
		return
	}
	view.Page = page
	if page.Detail != nil {
		view.Notes = renderMarkdown(page.Detail.Notes)
	}
	s.renderTemplate(c, http.StatusOK, "section.html", view)
}

func (s *Server) handleToggleYear(c *gin.Context) {
	id := middleware.SessionID(c)
	if _, err := s.navigation.ToggleYear(c.Request.Context(), id, c.Param("year")); err != nil {
		if errors.HasCode(err, errors.CodeValidation) {
			s.renderError(c, s.preferences(c), err)
			return
		}
		logger.Warn("failed to toggle year: %v", err)
	}
	c.Redirect(http.StatusSeeOther, safeNext(c.PostForm("next")))
}

// safeNext only follows local paths
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"dashboards": len(s.dashboards.Catalog().Dashboards),
	})
}

func (s *Server) renderNotFound(c *gin.Context, message string) {
	s.renderError(c, s.preferences(c), errors.New(errors.CodeNotFound, message))
}

func (s *Server) renderError(c *gin.Context, prefs *ports.Preferences, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	view := errorView{
		Chrome:  s.chrome(c, prefs, "Error"),
		Heading: "Ocurrió un error",
		Message: errors.Message(err),
	}
	switch {
	case errors.IsSheetFailure(err):
		view.Heading = "No se pudieron cargar los datos"
		view.Retry = c.Request.URL.RequestURI()
	case status == http.StatusNotFound:
		view.Heading = "No encontrado"
	case status == http.StatusBadRequest:
		view.Heading = "Solicitud inválida"
	}
	s.renderTemplate(c, status, "error.html", view)
}

// upcoming is the placeholder of a year without published sheets
type upcoming struct {
	Title       string
	Description string
	Color       string
}

func upcomingFor(item navigation.Item) *upcoming {
	y := item.Year
	switch item.Section {
	case catalog.Participantes:
		return &upcoming{"Participantes " + y, "Esta sección permitirá visualizar la cobertura poblacional de las acciones del PSPIC de la vigencia " + y, "from-green-600 to-green-300"}
	case catalog.Cumplimiento:
		return &upcoming{"Seguimiento de Cumplimiento", "Esta sección permitirá realizar el seguimiento al cumplimiento del anexo técnico PSPIC vigencia " + y, "from-green-600 to-green-300"}
	case catalog.Indicadores:
		return &upcoming{"Indicadores", "Esta sección permitirá realizar el seguimiento a la implementación de indicadores CB vigencia " + y, "from-blue-600 to-blue-500"}
	case catalog.IncorporacionCB:
		return &upcoming{"Incorporación Estrategia CB " + y, "Esta sección permitirá realizar el seguimiento a la incorporación de la estrategia Ciudad Bienestar durante la vigencia " + y, "from-orange-600 to-orange-400"}
	default:
		return &upcoming{item.Label + " " + y, "Esta sección permitirá visualizar los talleres realizados en la vigencia " + y, "from-purple-600 to-purple-400"}
	}
}
