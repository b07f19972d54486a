package ui

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"penguins/adapters/gochart"
	"penguins/adapters/plotly"
	"penguins/internal/errors"
	"penguins/internal/events"
	"penguins/internal/reactive"
	"penguins/internal/views"
	"penguins/ui/middleware"
	"penguins/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

const seabornImage = views.OutputSeabornHistogram + ".png"

// panel is the template data for one output slot
type panel struct {
	Name      string
	Template  string
	SessionID string
	// OOB marks the fragment for an htmx out-of-band swap
	OOB      bool
	Revision uint64
	Err      string
	Value    interface{}
	Figure   string
	ImageURL string
}

var outputTemplates = map[string]string{
	views.OutputDataTable:        fragments.DataTable,
	views.OutputDataGrid:         fragments.DataGrid,
	views.OutputPlotlyHistogram:  fragments.PlotlyHistogram,
	views.OutputSeabornHistogram: fragments.SeabornHistogram,
	views.OutputScatterplot:      fragments.Scatterplot,
}

// buildPanel turns an evaluated output into template data. page selects the
// grid page and is ignored by the other outputs.
func (s *Server) buildPanel(sessionID string, r reactive.Result, page int) panel {
	p := panel{
		Name:      r.Name,
		Template:  outputTemplates[r.Name],
		SessionID: sessionID,
		Revision:  r.Revision,
	}
	if r.Err != nil {
		p.Err = r.Err.Error()
		return p
	}

	switch v := r.Value.(type) {
	case views.GridView:
		p.Value = v.Page(page)
	case views.Histogram:
		p.Value = v
		switch r.Name {
		case views.OutputPlotlyHistogram:
			p.Figure = s.figureJSON(plotly.HistogramFigure(v))
		case views.OutputSeabornHistogram:
			p.ImageURL = fmt.Sprintf("/sessions/%s/outputs/%s?rev=%d", sessionID, seabornImage, r.Revision)
		}
	case views.ScatterView:
		p.Value = v
		p.Figure = s.figureJSON(plotly.ScatterFigure(v))
	default:
		p.Value = v
	}
	return p
}

func (s *Server) figureJSON(fig plotly.Figure) string {
	raw, err := fig.JSON()
	if err != nil {
		s.logger.Warn("figure encoding failed: %v", err)
		return `{"data":[],"layout":{}}`
	}
	return string(raw)
}

// handleInputs applies the sidebar form and returns out-of-band fragments for
// the outputs that were recomputed
func (s *Server) handleInputs(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := c.Request.ParseForm(); err != nil {
		respondError(c, http.StatusBadRequest, errors.InvalidInput(err.Error()))
		return
	}

	results, err := sess.Apply(c.Request.Context(), c.Request.PostForm)
	if err != nil {
		s.logger.Error("session %s: apply failed: %v", sess.ID, err)
		respondError(c, http.StatusInternalServerError, errors.Wrap(err, "recompute failed"))
		return
	}
	if len(results) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	names := make([]string, 0, len(results))
	panels := make([]panel, 0, len(results))
	var revision uint64
	for _, r := range results {
		p := s.buildPanel(sess.ID, r, 1)
		p.OOB = true
		panels = append(panels, p)
		names = append(names, r.Name)
		if r.Revision > revision {
			revision = r.Revision
		}
	}
	s.logger.Debug("session %s: recomputed %s", sess.ID, strings.Join(names, ", "))
	s.events.Broadcast(events.RecomputeEvent{SessionID: sess.ID, Outputs: names, Revision: revision})
	s.renderPanels(c, panels)
}

// handleEvents streams the session's recompute events
func (s *Server) handleEvents(c *gin.Context) {
	s.events.Stream(c, middleware.CurrentSession(c).ID)
}

// handleSessionOutput returns one output fragment of a session, or the
// seaborn histogram image
func (s *Server) handleSessionOutput(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	name := c.Param("name")

	if name == seabornImage {
		s.serveHistogramPNG(c, sess.ID, sess.Output)
		return
	}

	r, ok := sess.Output(name)
	if !ok {
		respondError(c, http.StatusNotFound, errors.NotFound("output "+name))
		return
	}
	s.renderPanels(c, []panel{s.buildPanel(sess.ID, r, queryInt(c, "page", 1))})
}

func (s *Server) serveHistogramPNG(c *gin.Context, sessionID string, lookup func(string) (reactive.Result, bool)) {
	r, ok := lookup(views.OutputSeabornHistogram)
	if !ok {
		respondError(c, http.StatusNotFound, errors.NotFound("output "+views.OutputSeabornHistogram))
		return
	}
	h, ok := r.Value.(views.Histogram)
	if r.Err != nil || !ok {
		respondError(c, http.StatusInternalServerError, errors.InternalError("seaborn histogram unavailable"))
		return
	}

	width := gochart.ClampSide(queryInt(c, "w", gochart.DefaultWidth), gochart.DefaultWidth)
	height := gochart.ClampSide(queryInt(c, "h", gochart.DefaultHeight), gochart.DefaultHeight)
	img, err := gochart.RenderHistogramPNG(h, width, height)
	if err != nil {
		s.logger.Error("session %s: png encoding failed: %v", sessionID, err)
		respondError(c, http.StatusInternalServerError, errors.Wrap(err, "png encoding failed"))
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}

func respondError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
