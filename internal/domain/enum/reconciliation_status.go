package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ReconciliationStatus tracks a stock count through owner sign-off
type ReconciliationStatus int

const (
	ReconciliationInProgress ReconciliationStatus = 0
	ReconciliationCompleted  ReconciliationStatus = 1
	ReconciliationApproved   ReconciliationStatus = 2
	ReconciliationRejected   ReconciliationStatus = 3
)

var reconciliationStatusNames = [...]string{"in_progress", "completed", "approved", "rejected"}

func (s ReconciliationStatus) String() string {
	if s < 0 || int(s) >= len(reconciliationStatusNames) {
		return fmt.Sprintf("ReconciliationStatus(%d)", int(s))
	}
	return reconciliationStatusNames[s]
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s ReconciliationStatus) CanTransitionTo(next ReconciliationStatus) bool {
	switch s {
	case ReconciliationInProgress:
		return next == ReconciliationCompleted
	case ReconciliationCompleted:
		return next == ReconciliationApproved || next == ReconciliationRejected
	}
	return false
}

// ParseReconciliationStatus converts the wire name into a ReconciliationStatus
func ParseReconciliationStatus(s string) (ReconciliationStatus, error) {
	for i, name := range reconciliationStatusNames {
		if name == s {
			return ReconciliationStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown reconciliation status %q", s)
}

func (s ReconciliationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReconciliationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseReconciliationStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ReconciliationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReconciliationStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*s = ReconciliationStatus(v)
	case int:
		*s = ReconciliationStatus(v)
	case nil:
		*s = ReconciliationInProgress
	default:
		return fmt.Errorf("cannot scan %T into ReconciliationStatus", value)
	}
	return nil
}

// ReconciliationType is the cadence of a stock count
type ReconciliationType int

const (
	ReconciliationDaily     ReconciliationType = 0
	ReconciliationWeekly    ReconciliationType = 1
	ReconciliationMonthly   ReconciliationType = 2
	ReconciliationSpotCheck ReconciliationType = 3
)

var reconciliationTypeNames = [...]string{"daily", "weekly", "monthly", "spot_check"}

func (t ReconciliationType) String() string {
	if t < 0 || int(t) >= len(reconciliationTypeNames) {
		return fmt.Sprintf("ReconciliationType(%d)", int(t))
	}
	return reconciliationTypeNames[t]
}

// ParseReconciliationType converts the wire name into a ReconciliationType
func ParseReconciliationType(s string) (ReconciliationType, error) {
	for i, name := range reconciliationTypeNames {
		if name == s {
			return ReconciliationType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown reconciliation type %q", s)
}

func (t ReconciliationType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ReconciliationType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseReconciliationType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ReconciliationType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ReconciliationType) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*t = ReconciliationType(v)
	case int:
		*t = ReconciliationType(v)
	case nil:
		*t = ReconciliationDaily
	default:
		return fmt.Errorf("cannot scan %T into ReconciliationType", value)
	}
	return nil
}
