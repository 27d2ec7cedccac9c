package analysis

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/richxcame/refund-analysis/pkg/common"
)

// Handler handles HTTP requests for refund analysis
type Handler struct {
	service *Service
}

// NewHandler creates a new analysis handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the analysis endpoints onto the router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/claims/analyze", h.AnalyzeClaim)
	rg.POST("/disputes/generate", h.GenerateDispute)
	rg.GET("/customers/:customer_id/profile", h.GetCustomerProfile)
	rg.POST("/anomalies/detect", h.DetectAnomalies)
}

// AnalyzeClaim handles running the analysis pipeline over a new claim
func (h *Handler) AnalyzeClaim(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.AnalyzeClaim(c.Request.Context(), &req, time.Now().UTC())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.CreatedResponse(c, resp)
}

// GenerateDispute handles rendering a dispute objection for a stored claim
func (h *Handler) GenerateDispute(c *gin.Context) {
	var req DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.ClaimID == uuid.Nil {
		common.ErrorResponse(c, http.StatusBadRequest, "claim_id is required")
		return
	}

	objection, err := h.service.GenerateDispute(c.Request.Context(), &req, time.Now().UTC())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.CreatedResponse(c, objection)
}

// GetCustomerProfile handles computing or serving a cached behavior profile
func (h *Handler) GetCustomerProfile(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customer_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid customer ID")
		return
	}

	platformCode := c.Query("platform")
	if platformCode == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "platform query parameter is required")
		return
	}

	profile, err := h.service.GetCustomerProfile(c.Request.Context(), customerID, platformCode, time.Now().UTC())
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.SuccessResponse(c, profile)
}

// DetectAnomalies handles statistical and gap detection over a supplied series
func (h *Handler) DetectAnomalies(c *gin.Context) {
	var req AnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.service.DetectAnomalies(c.Request.Context(), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.SuccessResponse(c, records)
}
