package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/application/service"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/response"
	"github.com/sangkips/spareshop-api/pkg/apperror"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// ReconciliationHandler handles physical stock count HTTP requests
type ReconciliationHandler struct {
	reconciliationService *service.ReconciliationService
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(reconciliationService *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// List handles listing reconciliations
func (h *ReconciliationHandler) List(c *gin.Context) {
	var filter request.ReconciliationFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ReconciliationFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
	}
	if filter.Status != "" {
		status, err := enum.ParseReconciliationStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, "Invalid status")
			return
		}
		params.Status = &status
	}
	if filter.Type != "" {
		rt, err := enum.ParseReconciliationType(filter.Type)
		if err != nil {
			response.BadRequest(c, "Invalid reconciliation type")
			return
		}
		params.Type = &rt
	}

	result, err := h.reconciliationService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Reconciliations retrieved successfully", result)
}

// Start handles opening a stock count
func (h *ReconciliationHandler) Start(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.StartReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rt, err := enum.ParseReconciliationType(req.Type)
	if err != nil {
		response.Error(c, apperror.NewFieldError("type", err.Error()))
		return
	}

	rec, err := h.reconciliationService.Start(c.Request.Context(), &service.StartReconciliationInput{
		UserID: userID,
		Type:   rt,
		Notes:  req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Reconciliation started", rec)
}

// Get handles getting a reconciliation with its items
func (h *ReconciliationHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", "reconciliation")
	if !ok {
		return
	}

	rec, err := h.reconciliationService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reconciliation retrieved successfully", rec)
}

// AddCount handles recording a physical count
func (h *ReconciliationHandler) AddCount(c *gin.Context) {
	id, ok := paramUUID(c, "id", "reconciliation")
	if !ok {
		return
	}

	var req request.AddCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.reconciliationService.AddCount(c.Request.Context(), &service.AddCountInput{
		ReconciliationID:  id,
		ProductID:         req.ProductID,
		PhysicalCount:     *req.PhysicalCount,
		DiscrepancyReason: req.DiscrepancyReason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Count recorded", item)
}

// Complete handles closing a count for review
func (h *ReconciliationHandler) Complete(c *gin.Context) {
	h.transition(c, "Reconciliation completed", h.reconciliationService.Complete)
}

// Approve handles applying a count's variances to stock
func (h *ReconciliationHandler) Approve(c *gin.Context) {
	h.transition(c, "Reconciliation approved", h.reconciliationService.Approve)
}

// Reject handles discarding a completed count
func (h *ReconciliationHandler) Reject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "reconciliation")
	if !ok {
		return
	}

	var req request.RejectReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := h.reconciliationService.Reject(c.Request.Context(), userID, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reconciliation rejected", rec)
}

type reconciliationTransition func(ctx context.Context, userID, id uuid.UUID) (*entity.Reconciliation, error)

func (h *ReconciliationHandler) transition(c *gin.Context, message string, fn reconciliationTransition) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "reconciliation")
	if !ok {
		return
	}

	rec, err := fn(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, message, rec)
}
