package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateTransactionNo builds a POS transaction number of the form
// TXN-YYYYMMDD-XXXXXXXX
func GenerateTransactionNo(at time.Time) string {
	return "TXN-" + at.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// DedupeIDs returns ids without duplicates, keeping first occurrence order
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
