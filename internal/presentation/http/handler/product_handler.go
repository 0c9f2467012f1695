package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/spareshop-api/internal/application/service"
	"github.com/sangkips/spareshop-api/internal/domain/enum"
	"github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/spareshop-api/internal/presentation/http/dto/response"
	"github.com/sangkips/spareshop-api/pkg/apperror"
	"github.com/sangkips/spareshop-api/pkg/pagination"
)

// ProductHandler handles product and stock movement HTTP requests
type ProductHandler struct {
	inventoryService *service.InventoryService
}

// NewProductHandler creates a new product handler
func NewProductHandler(inventoryService *service.InventoryService) *ProductHandler {
	return &ProductHandler{inventoryService: inventoryService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:          filter.Search,
		LowStock:        filter.LowStock,
		IncludeInactive: filter.IncludeInactive,
		SortBy:          filter.SortBy,
		SortOrder:       filter.SortOrder,
	}

	categoryID, err := parseOptionalUUID(filter.CategoryID)
	if err != nil {
		response.BadRequest(c, "Invalid category ID")
		return
	}
	params.CategoryID = categoryID

	result, err := h.inventoryService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		UserID:       userID,
		SKU:          req.SKU,
		Barcode:      req.Barcode,
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		Brand:        req.Brand,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		ReorderLevel: req.ReorderLevel,
		InitialStock: req.InitialStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.inventoryService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), &service.UpdateProductInput{
		UserID:       userID,
		ID:           id,
		Barcode:      req.Barcode,
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		Brand:        req.Brand,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete deactivates a product. Products are never hard deleted because
// movements and ledger entries reference them.
func (h *ProductHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	if err := h.inventoryService.DeactivateProduct(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetLowStock handles getting low stock products
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	products, err := h.inventoryService.GetLowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// VerifyStock compares the cached quantity with the movement log
func (h *ProductHandler) VerifyStock(c *gin.Context) {
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	result, err := h.inventoryService.VerifyStock(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock verified", result)
}

// Adjust handles a manual stock correction
func (h *ProductHandler) Adjust(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", "product")
	if !ok {
		return
	}

	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.inventoryService.AdjustStock(c.Request.Context(), &service.AdjustStockInput{
		UserID:        userID,
		ProductID:     id,
		QuantityDelta: req.QuantityDelta,
		Reason:        req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", result)
}

// ListMovements handles listing the inventory movement log
func (h *ProductHandler) ListMovements(c *gin.Context) {
	var filter request.MovementFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.MovementFilterParams{
		Pagination: &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
		Reference:  filter.Reference,
	}

	productID, err := parseOptionalUUID(filter.ProductID)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}
	params.ProductID = productID

	if filter.MovementType != "" {
		mt, err := enum.ParseMovementType(filter.MovementType)
		if err != nil {
			response.BadRequest(c, "Invalid movement type")
			return
		}
		params.MovementType = &mt
	}

	if params.StartDate, err = parseDate(filter.StartDate); err != nil {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	if params.EndDate, err = parseDate(filter.EndDate); err != nil {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	result, err := h.inventoryService.ListMovements(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Movements retrieved successfully", result)
}

// RecordMovement handles recording a supplier purchase
func (h *ProductHandler) RecordMovement(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	mt, err := enum.ParseMovementType(req.MovementType)
	if err != nil {
		response.Error(c, apperror.NewFieldError("movement_type", err.Error()))
		return
	}

	movement, err := h.inventoryService.RecordMovement(c.Request.Context(), &service.RecordMovementInput{
		UserID:        userID,
		ProductID:     req.ProductID,
		MovementType:  mt,
		QuantityDelta: req.QuantityDelta,
		Reference:     req.Reference,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Movement recorded successfully", movement)
}

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List handles listing categories
func (h *CategoryHandler) List(c *gin.Context) {
	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.categoryService.ListCategories(c.Request.Context(), &params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Categories retrieved successfully", result)
}

// Create handles creating a category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

// Get handles getting a single category
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category retrieved successfully", category)
}

// Update handles updating a category
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id", "category")
	if !ok {
		return
	}

	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), &service.UpdateCategoryInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

// Delete deactivates a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id", "category")
	if !ok {
		return
	}

	if err := h.categoryService.DeactivateCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
