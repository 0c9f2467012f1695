package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TransactionType represents the kind of point-of-sale transaction
type TransactionType int

const (
	TransactionTypeSale     TransactionType = 0
	TransactionTypePurchase TransactionType = 1
	TransactionTypeReturn   TransactionType = 2
	TransactionTypeReversal TransactionType = 3
)

var transactionTypeNames = [...]string{"sale", "purchase", "return", "reversal"}

func (t TransactionType) String() string {
	if t < 0 || int(t) >= len(transactionTypeNames) {
		return fmt.Sprintf("TransactionType(%d)", int(t))
	}
	return transactionTypeNames[t]
}

// ParseTransactionType converts the wire name into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	for i, name := range transactionTypeNames {
		if name == s {
			return TransactionType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseTransactionType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *TransactionType) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*t = TransactionType(v)
	case int:
		*t = TransactionType(v)
	case nil:
		*t = TransactionTypeSale
	default:
		return fmt.Errorf("cannot scan %T into TransactionType", value)
	}
	return nil
}
