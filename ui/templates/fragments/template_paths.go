// Package fragments provides template path constants for organized template management
package fragments

import "strings"

// Template path constants, relative to ui/templates
const (
	// Layout templates
	Index   = "index.html"
	Sidebar = "layout/sidebar.html"
	Outputs = "layout/outputs.html"

	// Output templates, one per reactive output slot
	DataTable        = "outputs/datatable.html"
	DataGrid         = "outputs/datagrid.html"
	PlotlyHistogram  = "outputs/plotly_histogram.html"
	SeabornHistogram = "outputs/seaborn_histogram.html"
	Scatterplot      = "outputs/scatterplot.html"
)

// GetAllTemplatePaths returns all template paths for registration
func GetAllTemplatePaths() []string {
	return []string{
		Index,

		// Layout
		Sidebar,
		Outputs,

		// Outputs
		DataTable,
		DataGrid,
		PlotlyHistogram,
		SeabornHistogram,
		Scatterplot,
	}
}

// GetTemplateCategory returns the category for a given template path
func GetTemplateCategory(templatePath string) string {
	switch {
	case strings.HasPrefix(templatePath, "layout/"):
		return "layout"
	case strings.HasPrefix(templatePath, "outputs/"):
		return "outputs"
	case !strings.Contains(templatePath, "/"):
		return "page"
	default:
		return "unknown"
	}
}
