package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod is how a customer settles a sale
type PaymentMethod int

const (
	PaymentMethodCash         PaymentMethod = 0
	PaymentMethodMobileMoney  PaymentMethod = 1
	PaymentMethodBankTransfer PaymentMethod = 2
	PaymentMethodCard         PaymentMethod = 3
	PaymentMethodCredit       PaymentMethod = 4
)

var paymentMethodNames = [...]string{"cash", "mobile_money", "bank_transfer", "card", "credit"}

func (m PaymentMethod) String() string {
	if !m.IsValid() {
		return fmt.Sprintf("PaymentMethod(%d)", int(m))
	}
	return paymentMethodNames[m]
}

func (m PaymentMethod) IsValid() bool {
	return m >= PaymentMethodCash && int(m) < len(paymentMethodNames)
}

// ParsePaymentMethod converts the wire name into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for i, name := range paymentMethodNames {
		if name == s {
			return PaymentMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	case nil:
		*m = PaymentMethodCash
	default:
		return fmt.Errorf("cannot scan %T into PaymentMethod", value)
	}
	return nil
}

// AgentPaymentMethod is how an agent settles consignment debt. Returned
// stock is recorded as a payment in kind.
type AgentPaymentMethod int

const (
	AgentPaymentCash         AgentPaymentMethod = 0
	AgentPaymentMobileMoney  AgentPaymentMethod = 1
	AgentPaymentBankTransfer AgentPaymentMethod = 2
	AgentPaymentStockReturn  AgentPaymentMethod = 3
)

var agentPaymentMethodNames = [...]string{"cash", "mobile_money", "bank_transfer", "stock_return"}

func (m AgentPaymentMethod) String() string {
	if m < 0 || int(m) >= len(agentPaymentMethodNames) {
		return fmt.Sprintf("AgentPaymentMethod(%d)", int(m))
	}
	return agentPaymentMethodNames[m]
}

// ParseAgentPaymentMethod converts the wire name into an AgentPaymentMethod
func ParseAgentPaymentMethod(s string) (AgentPaymentMethod, error) {
	for i, name := range agentPaymentMethodNames {
		if name == s {
			return AgentPaymentMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown agent payment method %q", s)
}

func (m AgentPaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *AgentPaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseAgentPaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m AgentPaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *AgentPaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*m = AgentPaymentMethod(v)
	case int:
		*m = AgentPaymentMethod(v)
	case nil:
		*m = AgentPaymentCash
	default:
		return fmt.Errorf("cannot scan %T into AgentPaymentMethod", value)
	}
	return nil
}
