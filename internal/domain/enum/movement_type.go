package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MovementType classifies an entry in the inventory movement log
type MovementType int

const (
	MovementTypePurchase        MovementType = 0
	MovementTypeSale            MovementType = 1
	MovementTypeTransferToAgent MovementType = 2
	MovementTypeReturnFromAgent MovementType = 3
	MovementTypeAdjustment      MovementType = 4
	MovementTypeReversal        MovementType = 5
)

var movementTypeNames = [...]string{
	"purchase",
	"sale",
	"transfer_to_agent",
	"return_from_agent",
	"adjustment",
	"reversal",
}

func (t MovementType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("MovementType(%d)", int(t))
	}
	return movementTypeNames[t]
}

// IsValid reports whether t is one of the declared movement types
func (t MovementType) IsValid() bool {
	return t >= MovementTypePurchase && int(t) < len(movementTypeNames)
}

// ParseMovementType converts the wire name into a MovementType
func ParseMovementType(s string) (MovementType, error) {
	for i, name := range movementTypeNames {
		if name == s {
			return MovementType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown movement type %q", s)
}

func (t MovementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *MovementType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = MovementType(i)
		return nil
	}
	parsed, err := ParseMovementType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t MovementType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *MovementType) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*t = MovementType(v)
	case int32:
		*t = MovementType(v)
	case int:
		*t = MovementType(v)
	case nil:
		*t = MovementTypePurchase
	default:
		return fmt.Errorf("cannot scan %T into MovementType", value)
	}
	return nil
}
