package dto

// ListLedgerRequest query params para GET /api/ledger.
// Fechas en formato YYYY-MM-DD; cadena vacía o "all" = sin filtro.
type ListLedgerRequest struct {
	ProductID string `query:"productId"`
	Type      string `query:"type"`
	DateFrom  string `query:"dateFrom"`
	DateTo    string `query:"dateTo"`
	PageRequest
}

// LedgerEntryResponse representación HTTP de una entrada del ledger.
type LedgerEntryResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
	Type        string `json:"type"`
	Reference   string `json:"reference"`
	QuantityIn  int    `json:"quantityIn"`
	QuantityOut int    `json:"quantityOut"`
	Balance     int    `json:"balance"`
	Location    string `json:"location,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}
