package dto

// CreateReceiptRequest body para POST /api/operations/receipts.
type CreateReceiptRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Supplier    string `json:"supplier"`
}

// CreateDeliveryRequest body para POST /api/operations/deliveries.
type CreateDeliveryRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Customer    string `json:"customer"`
}

// CreateTransferRequest body para POST /api/operations/transfers.
type CreateTransferRequest struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	FromLocation string `json:"fromLocation"`
	ToLocation   string `json:"toLocation"`
}

// CreateAdjustmentRequest body para POST /api/operations/adjustments.
// Quantity es un delta con signo; negativo descuenta stock.
type CreateAdjustmentRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes"`
}

// OperationResponse representación HTTP de una operación.
type OperationResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	Supplier     string `json:"supplier,omitempty"`
	Customer     string `json:"customer,omitempty"`
	FromLocation string `json:"fromLocation,omitempty"`
	ToLocation   string `json:"toLocation,omitempty"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"createdAt"`
	CompletedAt  string `json:"completedAt,omitempty"`
}

// ListOperationsRequest query params para GET /api/operations.
type ListOperationsRequest struct {
	Type   string `query:"type"`
	Status string `query:"status"`
	PageRequest
}
