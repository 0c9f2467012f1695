package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/spareshop-api/internal/application/service"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/response"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// AuditHandler exposes the audit trail to owners
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles listing audit logs
func (h *AuditHandler) List(c *gin.Context) {
	var filter request.AuditFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	userID, err := parseOptionalUUID(filter.UserID)
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	result, err := h.auditService.ListAuditLogs(c.Request.Context(), &repository.AuditFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		ModelName:  filter.ModelName,
		ObjectID:   filter.ObjectID,
		Action:     filter.Action,
		UserID:     userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Audit logs retrieved successfully", result)
}
