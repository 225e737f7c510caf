package entity

// ReceiptHeader holds the center/branch header printed at the top of a receipt.
type ReceiptHeader struct {
	CenterName string `json:"center_name"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity; it is composed from a paid invoice at
// render time.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	InvoiceNo     string        `json:"invoice_no"`
	ReceiptNo     string        `json:"receipt_no"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	Patient       string        `json:"patient,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	BankAccount   string        `json:"bank_account,omitempty"`
	Items         []ReceiptItem `json:"items"`
	SubTotal      float64       `json:"sub_total"`
	DiscountPct   int           `json:"discount_pct"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
}
