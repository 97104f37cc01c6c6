package live

import "time"

// Event is pushed to connected dashboard clients whenever an analysis record
// or a lead is created, so the sales view updates without polling.
type Event struct {
	Type     string    `json:"type"` // "record.created" or "lead.created"
	ID       string    `json:"id"`
	ShopName string    `json:"shop_name,omitempty"`
	Position int       `json:"position,omitempty"`
	At       time.Time `json:"at"`
}
