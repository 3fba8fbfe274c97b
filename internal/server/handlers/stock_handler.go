package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/domain/models"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/archive"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/forecast"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/ledger"
	"github.com/saheed-11/milkyway-delivery-system-sub000/internal/service/reservation"
)

// StockHandler exposes the ledger, reservation, forecast and rollover
// operations to the UI layer.
type StockHandler struct {
	ledgerSvc      *ledger.Service
	archiveSvc     *archive.Service
	forecastSvc    *forecast.Service
	reservationSvc *reservation.Service
	logger         *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(ledgerSvc *ledger.Service, archiveSvc *archive.Service,
	forecastSvc *forecast.Service, reservationSvc *reservation.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{
		ledgerSvc:      ledgerSvc,
		archiveSvc:     archiveSvc,
		forecastSvc:    forecastSvc,
		reservationSvc: reservationSvc,
		logger:         logger,
	}
}

// TodaySummary returns the live ledger view for the current day.
func (h *StockHandler) TodaySummary(c *gin.Context) {
	summary, err := h.ledgerSvc.Summary(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("failed loading today summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Archive lists archived days, optionally bounded by start/end query params
// (YYYY-MM-DD).
func (h *StockHandler) Archive(c *gin.Context) {
	from, ok := h.parseDateParam(c, "start")
	if !ok {
		return
	}
	to, ok := h.parseDateParam(c, "end")
	if !ok {
		return
	}

	records, err := h.archiveSvc.List(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed loading archive", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load archive"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// InventoryReport aggregates the archive over a trailing period of days
// (default 30) or an explicit start/end range.
func (h *StockHandler) InventoryReport(c *gin.Context) {
	from, ok := h.parseDateParam(c, "start")
	if !ok {
		return
	}
	to, ok := h.parseDateParam(c, "end")
	if !ok {
		return
	}

	if from.IsZero() && to.IsZero() {
		days := 30
		if raw := c.Query("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
				return
			}
			days = parsed
		}
		to = time.Now()
		from = to.AddDate(0, 0, -days)
	}

	summary, err := h.ledgerSvc.InventorySummary(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed building inventory report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RecomputeDemand refreshes today's subscription demand figure.
func (h *StockHandler) RecomputeDemand(c *gin.Context) {
	liters, err := h.forecastSvc.Recompute(c.Request.Context())
	if err != nil {
		h.logger.Error("demand recompute failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recompute demand"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"daily_demand": liters})
}

// ReserveRequest claims future stock for subscriptions.
type ReserveRequest struct {
	Date   string  `json:"date" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// Reserve records a forward subscription claim against a future day.
func (h *StockHandler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	target, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	result, err := h.reservationSvc.ReserveForDate(c.Request.Context(), target, req.Amount, models.ReservationSubscription)
	if errors.Is(err, reservation.ErrInvalidAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("reservation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reserve stock"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SaleRequest debits fulfilled orders from a day's stock.
type SaleRequest struct {
	Date     string  `json:"date" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
	Override bool    `json:"override"`
}

// DebitSale records a completed sale against the ledger.
func (h *StockHandler) DebitSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	day, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	err = h.ledgerSvc.Debit(c.Request.Context(), day, req.Quantity, req.Override)
	switch {
	case errors.Is(err, ledger.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case err != nil:
		h.logger.Error("sale debit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to debit sale"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// RolloverRequest optionally names the day to close; defaults to yesterday.
type RolloverRequest struct {
	Date string `json:"date"`
}

// Rollover is the admin-invokable day close. It shares the idempotent
// implementation with the scheduled job.
func (h *StockHandler) Rollover(c *gin.Context) {
	var req RolloverRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	day := time.Now().AddDate(0, 0, -1)
	if req.Date != "" {
		parsed, err := time.Parse(models.DateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	result, err := h.archiveSvc.ArchiveAndRoll(c.Request.Context(), day)
	if err != nil {
		h.logger.Error("manual rollover failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive day"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *StockHandler) parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}

	parsed, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}
