package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/service"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/response"
)

// AttendanceHandler exposes the attendance workflow endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	metrics    *service.MetricsService
	logger     *zap.Logger
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, metrics *service.MetricsService, logger *zap.Logger) *AttendanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceHandler{attendance: attendance, metrics: metrics, logger: logger}
}

// Roster returns the filtered student roster.
func (h *AttendanceHandler) Roster(c *gin.Context) {
	filter := models.RosterFilter{
		Grade:  c.DefaultQuery("grade", models.FilterAll),
		Course: c.DefaultQuery("course", models.FilterAll),
		Search: c.Query("search"),
	}
	roster, err := h.attendance.Roster(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}

// Courses lists the distinct enrolled courses for the filter dropdown.
func (h *AttendanceHandler) Courses(c *gin.Context) {
	courses, err := h.attendance.Courses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Save persists one completed register and dispatches absentee alerts.
func (h *AttendanceHandler) Save(c *gin.Context) {
	var req service.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	req.TakenBy = actingUser(c).Name

	result, err := h.attendance.Save(c.Request.Context(), req, func(p models.DispatchProgress) {
		h.logger.Info("dispatching absentee alert",
			zap.Int("current", p.Current),
			zap.Int("total", p.Total),
			zap.String("student", p.StudentName),
		)
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	for _, d := range result.Deliveries {
		h.metrics.RecordSMSDispatch(d.Delivered)
	}
	response.Created(c, result)
}

// Logs returns the attendance history, newest first.
func (h *AttendanceHandler) Logs(c *gin.Context) {
	logs, err := h.attendance.Logs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs)
}
