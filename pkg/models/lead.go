package models

import "time"

// Lead is a sales inquiry captured from the wizard's final step.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	ShopName    string    `json:"shopName"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
