package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod is how an invoice was settled. Non-cash methods must be
// routed into an organization bank account.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// ParsePaymentMethod validates a wire value. "pos" is accepted as an alias
// for card, which is what the front-desk terminals send.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch s {
	case "cash":
		return PaymentMethodCash, true
	case "card", "pos":
		return PaymentMethodCard, true
	case "transfer":
		return PaymentMethodTransfer, true
	}
	return "", false
}

// RequiresBankAccount reports whether the method needs a receiving
// organization bank account.
func (m PaymentMethod) RequiresBankAccount() bool {
	return m != PaymentMethodCash
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if parsed, ok := ParsePaymentMethod(str); ok {
		*m = parsed
	} else {
		*m = PaymentMethod(str)
	}
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(v)
	}
	return nil
}
