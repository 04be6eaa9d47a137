package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"minStock"`
	Warehouse     string          `json:"warehouse"`
	Location      string          `json:"location"`
	Price         decimal.Decimal `json:"price"`
}

// UpdateProductRequest body para PUT /api/products/:id. Stock no se actualiza
// por aquí: solo el motor de operaciones escribe stock.
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	SKU           *string          `json:"sku"`
	Category      *string          `json:"category"`
	UnitOfMeasure *string          `json:"unitOfMeasure"`
	MinStock      *int             `json:"minStock"`
	Warehouse     *string          `json:"warehouse"`
	Location      *string          `json:"location"`
	Price         *decimal.Decimal `json:"price"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	UnitOfMeasure string          `json:"unitOfMeasure"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"minStock"`
	Warehouse     string          `json:"warehouse"`
	Location      string          `json:"location"`
	Price         decimal.Decimal `json:"price"`
	CreatedAt     string          `json:"createdAt"`
}

// ListProductsRequest query params para GET /api/products.
type ListProductsRequest struct {
	Category  string `query:"category"`
	Warehouse string `query:"warehouse"`
	Search    string `query:"search"`
	PageRequest
}
