package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/intake"
)

// IntakeHandler exposes contribution submission, payment review and farmer
// reinstatement to the UI layer.
type IntakeHandler struct {
	svc    *intake.Service
	logger *zap.Logger
}

// NewIntakeHandler constructs the HTTP handler adapter.
func NewIntakeHandler(svc *intake.Service, logger *zap.Logger) *IntakeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeHandler{svc: svc, logger: logger}
}

// SubmitContributionRequest is the collection-point submission payload.
type SubmitContributionRequest struct {
	FarmerCode string  `json:"farmer_code" binding:"required"`
	MilkType   string  `json:"milk_type" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required"`
	Rating     int     `json:"quality_rating" binding:"required"`
}

// SubmitContribution records a quality-rated delivery.
func (h *IntakeHandler) SubmitContribution(c *gin.Context) {
	var req SubmitContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid contribution payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Submit(c.Request.Context(),
		req.FarmerCode, models.MilkType(req.MilkType), req.Quantity, models.QualityRating(req.Rating))
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *IntakeHandler) respondSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, intake.ErrValidation), errors.Is(err, intake.ErrPriceNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, intake.ErrFarmerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, intake.ErrFarmerSuspended):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.logger.Error("contribution submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process contribution"})
	}
}

// ReviewPaymentRequest carries the reviewer's verdict.
type ReviewPaymentRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ReviewPayment settles a pending payment obligation.
func (h *IntakeHandler) ReviewPayment(c *gin.Context) {
	var req ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	applied, err := h.svc.ReviewPayment(c.Request.Context(), c.Param("id"), *req.Approve)
	if err != nil {
		h.logger.Error("payment review failed", zap.String("payment_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to review payment"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "payment is not pending"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviewed": true})
}

// ReinstateFarmer lifts a suspension after manual review.
func (h *IntakeHandler) ReinstateFarmer(c *gin.Context) {
	err := h.svc.ReinstateFarmer(c.Request.Context(), c.Param("code"))
	if errors.Is(err, intake.ErrFarmerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("farmer reinstatement failed", zap.String("code", c.Param("code")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reinstate farmer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reinstated": true})
}
