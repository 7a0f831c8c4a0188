package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/service"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/response"
)

// FeeHandler exposes fee collection and receipting endpoints.
type FeeHandler struct {
	fees    *service.FeeService
	metrics *service.MetricsService
}

// NewFeeHandler constructs FeeHandler.
func NewFeeHandler(fees *service.FeeService, metrics *service.MetricsService) *FeeHandler {
	return &FeeHandler{fees: fees, metrics: metrics}
}

// Records returns the ledger, optionally narrowed to one student.
func (h *FeeHandler) Records(c *gin.Context) {
	records, err := h.fees.Records(c.Request.Context(), c.Query("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Collect records one payment.
func (h *FeeHandler) Collect(c *gin.Context) {
	var req service.CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}
	req.CollectedBy = actingUser(c).Name

	record, err := h.fees.Collect(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordPayment(record.Amount)
	response.Created(c, record)
}

// Balance returns the paid/outstanding view for one student.
func (h *FeeHandler) Balance(c *gin.Context) {
	balance, err := h.fees.Balance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, balance)
}

// Quote prices an enrollment without persisting anything. A grade with
// no fee structure is not an error: the quote comes back zero with a
// notice in the envelope meta.
func (h *FeeHandler) Quote(c *gin.Context) {
	var req struct {
		Grade   models.Grade `json:"grade"`
		Courses []string     `json:"courses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid quote payload"))
		return
	}

	total, err := h.fees.ComputeTotal(c.Request.Context(), req.Grade, req.Courses)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrMissingStructure.Code {
			response.JSON(c, http.StatusOK,
				gin.H{"grade": req.Grade, "courses": req.Courses, "total": 0.0},
				map[string]interface{}{"feeStructureMissing": true, "notice": appErr.Message})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"grade": req.Grade, "courses": req.Courses, "total": total})
}

// Structures returns every per-grade fee structure.
func (h *FeeHandler) Structures(c *gin.Context) {
	structures, err := h.fees.Structures(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, structures)
}

// UpsertStructure replaces one grade's fee structure.
func (h *FeeHandler) UpsertStructure(c *gin.Context) {
	var structure models.FeeStructure
	if err := c.ShouldBindJSON(&structure); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid structure payload"))
		return
	}

	if err := h.fees.UpsertStructure(c.Request.Context(), structure); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, structure)
}

// Receipt streams the printable PDF for one ledger entry.
func (h *FeeHandler) Receipt(c *gin.Context) {
	data, err := h.fees.ReceiptPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="receipt.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Summary streams the ledger as CSV.
func (h *FeeHandler) Summary(c *gin.Context) {
	data, err := h.fees.SummaryCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="fee_summary.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
