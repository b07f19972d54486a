package ui

import (
	"html/template"
	"net/http"

	"penguins/adapters/plotly"
	"penguins/internal/errors"
	"penguins/internal/inputs"
	"penguins/internal/views"
	"penguins/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// option is one choice of a selectize or checkbox-group input
type option struct {
	Value    string
	Selected bool
}

// sidebarInput is a widget rendered with the session's current value
type sidebarInput struct {
	Name    string
	Label   string
	Kind    string
	Value   string
	Min     int
	Max     int
	Checked bool
	Options []option
}

type indexData struct {
	Title     string
	GitHubURL string
	About     template.HTML
	SessionID string
	Inputs    []sidebarInput
	Panels    map[string]panel
}

// handleIndex starts a session and renders the full page
func (s *Server) handleIndex(c *gin.Context) {
	sess, err := s.sessions.Create(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to create session: %v", err)
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	data := indexData{
		Title:     s.page.Title,
		GitHubURL: s.page.GitHubURL,
		About:     s.about,
		SessionID: sess.ID,
		Inputs:    s.sidebarInputs(sess.State()),
		Panels:    make(map[string]panel),
	}
	for _, r := range sess.Results() {
		data.Panels[r.Name] = s.buildPanel(sess.ID, r, 1)
	}
	s.logger.Debug("rendering index for session %s", sess.ID)
	s.renderTemplate(c, fragments.Index, data)
}

func (s *Server) sidebarInputs(st inputs.State) []sidebarInput {
	values := st.Values()
	out := make([]sidebarInput, 0, len(s.registry.Inputs()))
	for _, in := range s.registry.Inputs() {
		w := sidebarInput{
			Name:  in.Name,
			Label: in.Label,
			Kind:  string(in.Kind),
			Value: values.Get(in.Name),
			Min:   in.Min,
			Max:   in.Max,
		}
		switch in.Kind {
		case inputs.KindSelectize:
			for _, choice := range in.Choices {
				w.Options = append(w.Options, option{Value: choice, Selected: choice == w.Value})
			}
		case inputs.KindCheckboxGroup:
			selected := make(map[string]bool)
			for _, v := range values[in.Name] {
				selected[v] = true
			}
			for _, choice := range in.Choices {
				w.Options = append(w.Options, option{Value: choice, Selected: selected[choice]})
			}
		case inputs.KindCheckbox:
			w.Checked = st.ShowSex
		}
		out = append(out, w)
	}
	return out
}

// handleAPIOutput computes a single output from query parameters without a
// session. Absent parameters take their defaults.
func (s *Server) handleAPIOutput(c *gin.Context) {
	name := c.Param("name")
	if !s.graph.Has(name) {
		respondError(c, http.StatusNotFound, errors.NotFound("output "+name))
		return
	}

	st := s.registry.ParseQuery(c.Request.URL.Query())
	results, err := s.graph.Evaluate(c.Request.Context(), st, []string{name})
	if err != nil {
		respondError(c, http.StatusInternalServerError, errors.Wrap(err, "evaluation failed"))
		return
	}
	r := results[0]
	if r.Err != nil {
		respondError(c, http.StatusInternalServerError, errors.Wrap(r.Err, name+" failed"))
		return
	}

	resp := gin.H{"name": name, "state": st}
	switch v := r.Value.(type) {
	case views.GridView:
		resp["artifact"] = v.Page(queryInt(c, "page", 1))
	case views.Histogram:
		resp["artifact"] = v
		if name == views.OutputPlotlyHistogram {
			resp["figure"] = plotly.HistogramFigure(v)
		}
	case views.ScatterView:
		resp["artifact"] = v
		resp["figure"] = plotly.ScatterFigure(v)
	default:
		resp["artifact"] = v
	}
	c.JSON(http.StatusOK, resp)
}

// handleHealth reports liveness for load balancers
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"records":  s.dataset.Len(),
		"sessions": s.sessions.Len(),
		"outputs":  len(s.graph.Outputs()),
		"streams":  len(s.events.ActiveSessions()),
	})
}
