package models

import "time"

// Record is a persisted analysis run: what was asked, where the shop landed
// and the deduplicated competitor offers at the time of the run.
type Record struct {
	ID          string    `json:"id"`
	ProductURL  string    `json:"productUrl"`
	ProductHost string    `json:"productHost"`
	ProductPath string    `json:"productPath"`
	ShopName    string    `json:"shopName"`
	LeaderShop  string    `json:"leaderShop"`
	LeaderPrice int       `json:"leaderPrice"`
	MyPrice     int       `json:"myPrice"`
	Position    int       `json:"position"`
	Offers      []Offer   `json:"offers"`
	CreatedAt   time.Time `json:"createdAt"`
}
