package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/service"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/response"
)

// AssistantHandler exposes the content-generation helpers.
type AssistantHandler struct {
	assistant *service.AssistantService
}

// NewAssistantHandler constructs AssistantHandler.
func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// StudyNotes generates revision notes.
func (h *AssistantHandler) StudyNotes(c *gin.Context) {
	var req struct {
		Topic string       `json:"topic"`
		Grade models.Grade `json:"grade"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	text, err := h.assistant.StudyNotes(c.Request.Context(), req.Topic, req.Grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"text": text})
}

// Quiz generates a multiple-choice quiz.
func (h *AssistantHandler) Quiz(c *gin.Context) {
	var req struct {
		Topic     string       `json:"topic"`
		Grade     models.Grade `json:"grade"`
		Questions int          `json:"questions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	text, err := h.assistant.Quiz(c.Request.Context(), req.Topic, req.Grade, req.Questions)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"text": text})
}

// ProgressRemark generates a report-card remark for one student.
func (h *AssistantHandler) ProgressRemark(c *gin.Context) {
	text, err := h.assistant.ProgressRemark(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"text": text})
}
