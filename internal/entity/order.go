package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Order represents a customer order stored in the relational database.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          uuid.UUID `bun:"id,pk,type:varchar(36)"`
	EntryDate   time.Time `bun:"entry_date,notnull"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description,notnull"`
	IsInvoiced  *bool     `bun:"is_invoiced"`
	IsDeleted   bool      `bun:"is_deleted,notnull,default:false"`
}

// NewOrder builds an order with a fresh id, the current entry date and the
// invoiced flag set, mirroring the defaults of a newly placed order.
func NewOrder(name, description string) *Order {
	invoiced := true
	return &Order{
		ID:          uuid.New(),
		EntryDate:   time.Now().UTC(),
		Name:        name,
		Description: description,
		IsInvoiced:  &invoiced,
	}
}
