package dto

import (
	"time"

	"github.com/google/uuid"
)

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID          uuid.UUID `json:"id"`
	EntryDate   time.Time `json:"entryDate"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsInvoiced  *bool     `json:"isInvoiced"`
	IsDeleted   bool      `json:"isDeleted"`
}

// CreateOrderRequest is the payload accepted by the order creation endpoint.
type CreateOrderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsInvoiced  bool   `json:"isInvoiced"`
}
