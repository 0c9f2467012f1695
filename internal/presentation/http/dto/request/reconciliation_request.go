package request

import "github.com/google/uuid"

// StartReconciliationRequest opens a stock count
type StartReconciliationRequest struct {
	Type  string  `json:"type" binding:"required"`
	Notes *string `json:"notes"`
}

// AddCountRequest records a physical count for one product
type AddCountRequest struct {
	ProductID         uuid.UUID `json:"product_id" binding:"required"`
	PhysicalCount     *int      `json:"physical_count" binding:"required,min=0"`
	DiscrepancyReason *string   `json:"discrepancy_reason"`
}

// RejectReconciliationRequest carries the reason a count was rejected
type RejectReconciliationRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// ReconciliationFilterRequest represents reconciliation filter parameters
type ReconciliationFilterRequest struct {
	Status  string `form:"status"`
	Type    string `form:"type"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// AuditFilterRequest represents audit log filter parameters
type AuditFilterRequest struct {
	ModelName string `form:"model_name"`
	ObjectID  string `form:"object_id"`
	Action    string `form:"action"`
	UserID    string `form:"user_id"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
