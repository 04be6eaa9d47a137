package dto

// CreateSessionRequest body para POST /api/counting-sessions.
type CreateSessionRequest struct {
	Name      string `json:"name"`
	Warehouse string `json:"warehouse"`
	Category  string `json:"category"`
}

// SaveSessionItem un ítem contado dentro del guardado de una sesión.
type SaveSessionItem struct {
	ProductID       string `json:"productId"`
	CountedQuantity *int   `json:"countedQuantity"`
	Counted         bool   `json:"counted"`
}

// SaveSessionRequest body para PUT /api/counting-sessions/:id.
type SaveSessionRequest struct {
	Items []SaveSessionItem `json:"items"`
}

// SessionItemResponse representación HTTP de un ítem de sesión.
type SessionItemResponse struct {
	ProductID       string `json:"productId"`
	ProductName     string `json:"productName"`
	SKU             string `json:"sku"`
	Location        string `json:"location,omitempty"`
	Unit            string `json:"unit,omitempty"`
	SystemQuantity  int    `json:"systemQuantity"`
	CountedQuantity *int   `json:"countedQuantity"`
	Counted         bool   `json:"counted"`
}

// SessionResponse representación HTTP de una sesión de conteo.
type SessionResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Warehouse     string                `json:"warehouse,omitempty"`
	Category      string                `json:"category,omitempty"`
	ItemCount     int                   `json:"itemCount"`
	Status        string                `json:"status"`
	Discrepancies int                   `json:"discrepancies"`
	CreatedAt     string                `json:"createdAt"`
	CompletedAt   string                `json:"completedAt,omitempty"`
	Items         []SessionItemResponse `json:"items,omitempty"`
}

// SaveSessionResponse resultado de guardar una sesión.
type SaveSessionResponse struct {
	Discrepancies int `json:"discrepancies"`
}

// ApplySessionResponse resultado de aplicar los descuadres de una sesión.
type ApplySessionResponse struct {
	AdjustmentsCreated int `json:"adjustmentsCreated"`
}
