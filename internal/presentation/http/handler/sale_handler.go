package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/spareshop-api/internal/application/service"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/response"
	"github.com/sangkips/spareshop-api/pkg/apperror"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// SaleHandler handles point of sale HTTP requests
type SaleHandler struct {
	salesService *service.SalesService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(salesService *service.SalesService) *SaleHandler {
	return &SaleHandler{salesService: salesService}
}

// Create handles a checkout
func (h *SaleHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	method, err := enum.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		response.Error(c, apperror.NewFieldError("payment_method", err.Error()))
		return
	}

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		}
	}

	transaction, err := h.salesService.CreateSale(c.Request.Context(), &service.CreateSaleInput{
		UserID:         userID,
		Items:          items,
		PaymentMethod:  method,
		AmountPaid:     req.AmountPaid,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", transaction)
}

// List handles listing transactions
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
	}

	if filter.TransactionType != "" {
		tt, err := enum.ParseTransactionType(filter.TransactionType)
		if err != nil {
			response.BadRequest(c, "Invalid transaction type")
			return
		}
		params.TransactionType = &tt
	}
	if filter.PaymentMethod != "" {
		pm, err := enum.ParsePaymentMethod(filter.PaymentMethod)
		if err != nil {
			response.BadRequest(c, "Invalid payment method")
			return
		}
		params.PaymentMethod = &pm
	}

	var err error
	if params.StartDate, err = parseDate(filter.StartDate); err != nil {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	if params.EndDate, err = parseDate(filter.EndDate); err != nil {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	result, err := h.salesService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// Get handles getting a single transaction with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", "transaction")
	if !ok {
		return
	}

	transaction, err := h.salesService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// DailySummary handles the sales total for one day, today by default
func (h *SaleHandler) DailySummary(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	summary, err := h.salesService.DailySummary(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily summary retrieved successfully", summary)
}

// Reverse handles voiding a completed sale
func (h *SaleHandler) Reverse(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "transaction")
	if !ok {
		return
	}

	var req request.ReverseSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	reversal, err := h.salesService.ReverseSale(c.Request.Context(), &service.ReverseSaleInput{
		UserID:        userID,
		TransactionID: id,
		Reason:        req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale reversed successfully", reversal)
}
