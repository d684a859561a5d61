package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/horario-admin-api/internal/dto"
	"github.com/noah-isme/horario-admin-api/internal/middleware"
	"github.com/noah-isme/horario-admin-api/internal/models"
	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
)

func sessionIDParam(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "session id is required")
	}
	return id, nil
}

// restrictToOwnTimetable limits teachers to exporting their own timetable.
// Other roles pass through unchanged.
func restrictToOwnTimetable(c *gin.Context, query *dto.TimetableExportQuery) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleTeacher {
		return nil
	}
	if claims.TeacherID == 0 || query.GroupID != 0 || query.RoomID != 0 {
		return appErrors.Clone(appErrors.ErrForbidden, "teachers may only export their own timetable")
	}
	if query.TeacherID != 0 && query.TeacherID != claims.TeacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "teachers may only export their own timetable")
	}
	query.TeacherID = claims.TeacherID
	return nil
}
