package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/spareshop-api/internal/application/service"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/response"
	"github.com/sangkips/spareshop-api/pkg/apperror"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// AgentHandler handles agent, consignment and agent payment HTTP requests
type AgentHandler struct {
	agentService *service.AgentService
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agentService *service.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// List handles listing agents
func (h *AgentHandler) List(c *gin.Context) {
	var filter request.AgentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.agentService.ListAgents(c.Request.Context(), &repository.AgentFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		Area:       filter.Area,
		IsActive:   filter.IsActive,
		IsTrusted:  filter.IsTrusted,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Agents retrieved successfully", result)
}

// Create handles registering an agent
func (h *AgentHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	agent, err := h.agentService.CreateAgent(c.Request.Context(), &service.CreateAgentInput{
		UserID:       userID,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		IDNumber:     req.IDNumber,
		Address:      req.Address,
		Area:         req.Area,
		BusinessName: req.BusinessName,
		CreditLimit:  req.CreditLimit,
		IsTrusted:    req.IsTrusted,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Agent created successfully", agent)
}

// Get handles getting a single agent
func (h *AgentHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	agent, err := h.agentService.GetAgent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Agent retrieved successfully", agent)
}

// Update handles updating an agent
func (h *AgentHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	var req request.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	agent, err := h.agentService.UpdateAgent(c.Request.Context(), &service.UpdateAgentInput{
		UserID:       userID,
		ID:           id,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		IDNumber:     req.IDNumber,
		Address:      req.Address,
		Area:         req.Area,
		BusinessName: req.BusinessName,
		CreditLimit:  req.CreditLimit,
		IsTrusted:    req.IsTrusted,
		IsActive:     req.IsActive,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Agent updated successfully", agent)
}

// Delete deactivates an agent. Outstanding debt stays collectable.
func (h *AgentHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	if err := h.agentService.DeactivateAgent(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Transfer handles consigning stock to an agent
func (h *AgentHandler) Transfer(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	agentID, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	var req request.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.agentService.TransferStock(c.Request.Context(), &service.TransferStockInput{
		UserID:    userID,
		AgentID:   agentID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock transferred successfully", result)
}

// Return handles stock coming back from an agent
func (h *AgentHandler) Return(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	agentID, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	var req request.ReturnStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.agentService.ReturnStock(c.Request.Context(), &service.ReturnStockInput{
		UserID:        userID,
		AgentID:       agentID,
		LedgerEntryID: req.LedgerEntryID,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Stock returned successfully", result)
}

// RecordPayment handles money received from an agent
func (h *AgentHandler) RecordPayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	agentID, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	method, err := enum.ParseAgentPaymentMethod(req.PaymentMethod)
	if err != nil {
		response.Error(c, apperror.NewFieldError("payment_method", err.Error()))
		return
	}

	result, err := h.agentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		UserID:          userID,
		AgentID:         agentID,
		Amount:          req.Amount,
		PaymentMethod:   method,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		LedgerEntryIDs:  req.LedgerEntryIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", result)
}

// DebtSummary handles getting an agent's outstanding debt with aging
func (h *AgentHandler) DebtSummary(c *gin.Context) {
	agentID, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	summary, err := h.agentService.GetDebtSummary(c.Request.Context(), agentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Debt summary retrieved successfully", summary)
}

// Ledger handles listing an agent's consignment entries
func (h *AgentHandler) Ledger(c *gin.Context) {
	agentID, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var isPaid *bool
	if raw := c.Query("is_paid"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "Invalid is_paid value")
			return
		}
		isPaid = &v
	}

	result, err := h.agentService.ListLedger(c.Request.Context(), agentID, isPaid, &params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Ledger entries retrieved successfully", result)
}

// Payments handles listing an agent's payments
func (h *AgentHandler) Payments(c *gin.Context) {
	agentID, ok := paramUUID(c, "id", "agent")
	if !ok {
		return
	}

	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.agentService.ListPayments(c.Request.Context(), agentID, &params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}
