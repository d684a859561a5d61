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

type assignmentSessions interface {
	Evaluate(ctx context.Context, req dto.CandidateRequest) (*dto.CandidateResponse, error)
	CheckShift(ctx context.Context, req dto.ShiftCheckRequest) (*dto.ShiftCheckResponse, error)
	Open(ctx context.Context, req dto.OpenAssignmentRequest) (*dto.AssignmentSessionResponse, error)
	Candidates(ctx context.Context, sessionID string) (*dto.AssignmentSessionResponse, error)
	Select(ctx context.Context, sessionID string, req dto.SelectionRequest) (*dto.AssignmentSessionResponse, error)
	Commit(ctx context.Context, sessionID string) (*dto.CommitAssignmentResponse, error)
	Close(sessionID string)
	FlushCandidateCache(ctx context.Context) error
}

// AssignmentHandler exposes the manual assignment dialog.
type AssignmentHandler struct {
	service assignmentSessions
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(svc *service.AssignmentSessionService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Evaluate godoc
// @Summary List eligible teachers and rooms for a subject in a block
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CandidateRequest true "Candidate query"
// @Success 200 {object} response.Envelope
// @Router /assignments/candidates [post]
func (h *AssignmentHandler) Evaluate(c *gin.Context) {
	var req dto.CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid candidate payload"))
		return
	}
	result, err := h.service.Evaluate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// CheckShift godoc
// @Summary Check a block against a group's preferred shift
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.ShiftCheckRequest true "Shift check payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/shift-check [post]
func (h *AssignmentHandler) CheckShift(c *gin.Context) {
	var req dto.ShiftCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid shift check payload"))
		return
	}
	result, err := h.service.CheckShift(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// FlushCandidates godoc
// @Summary Drop every memoized candidate list
// @Tags Assignments
// @Success 204
// @Router /assignments/candidates/cache [delete]
func (h *AssignmentHandler) FlushCandidates(c *gin.Context) {
	if err := h.service.FlushCandidateCache(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Open godoc
// @Summary Open an assignment dialog
// @Description Every dialog starts with an empty selection.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.OpenAssignmentRequest true "Dialog target"
// @Success 201 {object} response.Envelope
// @Router /assignment-sessions [post]
func (h *AssignmentHandler) Open(c *gin.Context) {
	var req dto.OpenAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	session, err := h.service.Open(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Candidates godoc
// @Summary Refresh candidates for an open dialog
// @Tags Assignments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-sessions/{id}/candidates [get]
func (h *AssignmentHandler) Candidates(c *gin.Context) {
	id, err := sessionIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	session, err := h.service.Candidates(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Select godoc
// @Summary Update the dialog selection
// @Description Omitted fields are left untouched; zero clears a side.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SelectionRequest true "Selection"
// @Success 200 {object} response.Envelope
// @Router /assignment-sessions/{id}/selection [patch]
func (h *AssignmentHandler) Select(c *gin.Context) {
	id, err := sessionIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	session, err := h.service.Select(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Commit godoc
// @Summary Save the selected teacher and room
// @Tags Assignments
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /assignment-sessions/{id}/commit [post]
func (h *AssignmentHandler) Commit(c *gin.Context) {
	id, err := sessionIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Commit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Close godoc
// @Summary Discard an assignment dialog
// @Tags Assignments
// @Param id path string true "Session ID"
// @Success 204
// @Router /assignment-sessions/{id} [delete]
func (h *AssignmentHandler) Close(c *gin.Context) {
	id, err := sessionIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.service.Close(id)
	response.NoContent(c)
}
