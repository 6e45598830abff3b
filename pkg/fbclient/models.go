// fbclient/models.go
package fbclient

// Amount is a FreshBooks money value: a decimal string plus a currency code.
type Amount struct {
	Amount string `json:"amount"`
	Code   string `json:"code"`
}

// Line is a single invoice line item. Quantity carries hours for service
// invoices; Amount is the extended line total.
type Line struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	UnitCost    float64 `json:"unit_cost"`
	Amount      float64 `json:"amount"`
	Type        int     `json:"type"`
}

// Attachment is an uploaded file reference. The JWT is the handle FreshBooks
// expects back when attaching the file to an invoice.
type Attachment struct {
	ID        string `json:"id,omitempty"`
	JWT       string `json:"jwt"`
	MediaType string `json:"media_type"`
	Name      string `json:"name,omitempty"`
}

// Invoice mirrors the upstream invoice record. Only the fields the bridge
// reads are declared; the rest of the payload is ignored on decode.
type Invoice struct {
	ID            string       `json:"id"`
	AccountID     string       `json:"accountid"`
	CustomerID    string       `json:"customerid"`
	InvoiceNumber string       `json:"invoice_number"`
	CreateDate    string       `json:"create_date"` // YYYY-MM-DD
	DueDate       string       `json:"due_date"`
	Amount        Amount       `json:"amount"`
	Outstanding   Amount       `json:"outstanding"`
	Paid          Amount       `json:"paid"`
	Status        int          `json:"status"`
	PaymentStatus string       `json:"payment_status"`
	DisplayStatus string       `json:"display_status"`
	CurrencyCode  string       `json:"currency_code"`
	Organization  string       `json:"organization"`
	Description   string       `json:"description"`
	Notes         string       `json:"notes"`
	PONumber      string       `json:"po_number"`
	TotalAmount   float64      `json:"total_amount"`
	Lines         []Line       `json:"lines"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// InvoicePatch is a partial invoice update. Nil fields are omitted from the
// request body.
type InvoicePatch struct {
	Attachments []Attachment `json:"attachments,omitempty"`
	Status      *int         `json:"status,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// Callback is a webhook subscription record on the FreshBooks events API.
type Callback struct {
	CallbackID int64  `json:"callbackid,omitempty"`
	Event      string `json:"event"`
	URI        string `json:"uri"`
	Verified   bool   `json:"verified,omitempty"`
}

// ListInvoicesFilter narrows a ListInvoices call. Zero values are omitted
// from the query string.
type ListInvoicesFilter struct {
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string
	Page     int
	PerPage  int
}
