package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/spareshop-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and user ID
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Reserve stores a pending key. It reports false when a live key for the
	// same key and user already exists. An expired key is replaced.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete stores the response for a reserved key
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a pending reservation so the key can be retried
	Release(ctx context.Context, key string, userID uuid.UUID) error
	// DeleteExpired removes expired keys and reports how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
