package models

import "time"

// Event types published after a change is committed.
const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventCatalogReseeded = "catalog.reseeded"
)

// ProductEvent describes a committed catalog change.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"product_id,omitempty"`
	Slug       string    `json:"slug,omitempty"`
	Count      int       `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
