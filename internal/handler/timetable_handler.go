package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horario-admin-api/internal/dto"
	"github.com/noah-isme/horario-admin-api/internal/service"
	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
	"github.com/noah-isme/horario-admin-api/pkg/response"
)

type timetableExporter interface {
	Export(ctx context.Context, query dto.TimetableExportQuery) (*dto.TimetableFile, error)
}

// TimetableHandler serves timetable downloads.
type TimetableHandler struct {
	exporter timetableExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableExportService) *TimetableHandler {
	return &TimetableHandler{exporter: svc}
}

// Export godoc
// @Summary Download a weekly timetable
// @Description Exactly one of group_id, teacher_id or room_id selects the timetable. Teachers may only export their own.
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Param period_id query int true "Period ID"
// @Param group_id query int false "Group ID"
// @Param teacher_id query int false "Teacher ID"
// @Param room_id query int false "Room ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /timetables/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.TimetableExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if err := restrictToOwnTimetable(c, &query); err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
