package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the lifecycle state of an invoice.
// The only transition is Unpaid -> Paid; there is no void/cancel state.
type InvoiceStatus int

const (
	InvoiceStatusUnpaid InvoiceStatus = 0
	InvoiceStatusPaid   InvoiceStatus = 1
)

func (s InvoiceStatus) String() string {
	names := [...]string{"unpaid", "paid"}
	if int(s) < 0 || int(s) >= len(names) {
		return "unpaid"
	}
	return names[s]
}

// ParseInvoiceStatus converts the wire representation back to an InvoiceStatus.
// Unknown values report ok=false so callers can reject bad filters.
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	switch s {
	case "unpaid":
		return InvoiceStatusUnpaid, true
	case "paid":
		return InvoiceStatusPaid, true
	}
	return InvoiceStatusUnpaid, false
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	if parsed, ok := ParseInvoiceStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
