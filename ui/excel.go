package ui

import (
	"bytes"
	"fmt"
	"net/http"

	"penguins/adapters/excel"
	"penguins/domain/penguins"
	"penguins/internal/errors"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport downloads the species-filtered table as an XLSX workbook
func (s *Server) handleExport(c *gin.Context) {
	st := s.registry.ParseQuery(c.Request.URL.Query())
	filtered := penguins.FilterBySpecies(s.dataset, st.SelectedSpeciesList)

	var buf bytes.Buffer
	if err := excel.WriteRecords(&buf, filtered.Records()); err != nil {
		s.logger.Error("export failed: %v", err)
		respondError(c, http.StatusInternalServerError, errors.Wrap(err, "export failed"))
		return
	}

	s.logger.Debug("exported %d rows", filtered.Len())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, excel.SheetName))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
