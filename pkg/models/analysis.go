package models

// Offer is one deduplicated seller entry in an analysis result: the display
// name from the seller's first sighting and the minimum price seen for it
// across all pages.
type Offer struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// AnalysisResult is the outcome of ranking a shop against every seller of a
// Kaspi product. The pointer fields serialize to null when the shop was not
// found among the sellers; that is a valid result, not an error.
type AnalysisResult struct {
	ProductID      string  `json:"productId"`
	LeaderShop     string  `json:"leaderShop"`
	LeaderPrice    int     `json:"leaderPrice"`
	MyShopFound    bool    `json:"myShopFound"`
	MyShopPrice    *int    `json:"myShopPrice"`
	MyShopPosition *int    `json:"myShopPosition"`
	PriceToTop1    *int    `json:"priceToTop1"`
	Offers         []Offer `json:"offers"`
}
