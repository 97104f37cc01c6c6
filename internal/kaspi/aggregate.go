package kaspi

import (
	"fmt"

	"kaspirank/pkg/models"
)

// sellerBest is the running best for one deduplicated seller: the display
// name from the first sighting and the minimum price across pages.
type sellerBest struct {
	name  string
	price int
}

// aggregate is the accumulator threaded through the pagination loop. Rank
// bookkeeping depends on page order, so pages must be observed sequentially.
type aggregate struct {
	target string // normalized shop name to locate

	leaderShop  string
	leaderPrice int
	leaderSet   bool

	found    bool
	myPrice  int
	position int // first-seen global rank, 1-based; 0 while unseen

	best  map[string]*sellerBest
	order []string // normalized keys in first-encounter order

	globalOffset int
}

func newAggregate(target string) *aggregate {
	return &aggregate{
		target: target,
		best:   make(map[string]*sellerBest),
	}
}

// captureLeader records the market leader from the first raw offer of page 0.
// The leader is whoever the upstream ranks first under its own sort order,
// not the cheapest seller the dedup pass later finds.
func (a *aggregate) captureLeader(first offerEntry) {
	price, ok := offerPrice(first)
	if !ok {
		return
	}
	a.leaderShop = offerName(first)
	a.leaderPrice = price
	a.leaderSet = true
}

// observePage folds one page of offers into the accumulator, in upstream
// order. Dedup keeps the minimum price per normalized seller. The target's
// rank is fixed at its first sighting even when a cheaper sighting follows on
// a later page; only its price keeps tracking the minimum.
func (a *aggregate) observePage(offers []offerEntry) {
	for idx, offer := range offers {
		rawName := offerName(offer)
		key := normalizeShopName(rawName)
		if key == "" {
			continue
		}
		price, ok := offerPrice(offer)
		if !ok {
			continue
		}

		if existing, seen := a.best[key]; !seen {
			a.best[key] = &sellerBest{name: rawName, price: price}
			a.order = append(a.order, key)
		} else if price < existing.price {
			existing.price = price
		}

		if key != a.target {
			continue
		}
		if a.position == 0 {
			a.position = a.globalOffset + idx + 1
		}
		if !a.found || price < a.myPrice {
			a.myPrice = price
		}
		a.found = true
	}
	a.globalOffset += len(offers)
}

// result assembles the final AnalysisResult. ErrNoLeader should be impossible
// after a pagination pass that did not error, but stays as an explicit guard.
func (a *aggregate) result(productID string) (*models.AnalysisResult, error) {
	if !a.leaderSet {
		return nil, fmt.Errorf("%w: не удалось определить лидера", ErrNoLeader)
	}

	offers := make([]models.Offer, 0, len(a.order))
	for _, key := range a.order {
		entry := a.best[key]
		offers = append(offers, models.Offer{Name: entry.name, Price: entry.price})
	}

	res := &models.AnalysisResult{
		ProductID:   productID,
		LeaderShop:  a.leaderShop,
		LeaderPrice: a.leaderPrice,
		MyShopFound: a.found,
		Offers:      offers,
	}
	if !a.found {
		return res, nil
	}

	myPrice := a.myPrice
	position := a.position
	delta := myPrice - a.leaderPrice
	res.MyShopPrice = &myPrice
	res.MyShopPosition = &position
	res.PriceToTop1 = &delta
	return res, nil
}
