package kaspi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// offerEntry mirrors one listing row of the offer-view endpoint. The endpoint
// has no published contract, so every field that matters is resolved through
// a fallback chain, and prices stay raw: they arrive as numbers, formatted
// strings or nested objects depending on the endpoint version.
type offerEntry struct {
	MerchantName string          `json:"merchantName"`
	ShopName     string          `json:"shopName"`
	SellerName   string          `json:"sellerName"`
	Name         string          `json:"name"`
	Price        json.RawMessage `json:"price"`
	FinalPrice   json.RawMessage `json:"finalPrice"`
	PriceValue   json.RawMessage `json:"priceValue"`
	Amount       json.RawMessage `json:"amount"`
	Rating       *float64        `json:"rating"`
	ReviewCount  *int            `json:"reviewCount"`
}

// offerEnvelope covers the three response shapes seen from the endpoint:
// offers at the top level, nested under data, or nested under payload.
type offerEnvelope struct {
	Offers []offerEntry `json:"offers"`
	Data   struct {
		Offers []offerEntry `json:"offers"`
	} `json:"data"`
	Payload struct {
		Offers []offerEntry `json:"offers"`
	} `json:"payload"`
}

// extractOffers tries each envelope shape in order and returns the first
// non-empty list. An unrecognized shape is an empty list, not an error.
func extractOffers(body []byte) []offerEntry {
	var env offerEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	for _, offers := range [][]offerEntry{env.Offers, env.Data.Offers, env.Payload.Offers} {
		if len(offers) > 0 {
			return offers
		}
	}
	return nil
}

func offerName(o offerEntry) string {
	return firstNonEmpty(o.MerchantName, o.ShopName, o.SellerName, o.Name)
}

// offerPrice resolves a numeric price through the fallback field chain. An
// offer with no resolvable price is skipped by the caller entirely.
func offerPrice(o offerEntry) (int, bool) {
	for _, raw := range []json.RawMessage{o.Price, o.FinalPrice, o.PriceValue, o.Amount} {
		if p, ok := parsePrice(raw); ok {
			return p, true
		}
	}
	return 0, false
}

// parsePrice accepts a bare number, a quoted string with currency formatting,
// or an object carrying value/amount. Non-digit characters are stripped
// before parsing.
func parsePrice(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	if raw[0] == '{' {
		var nested struct {
			Value  json.RawMessage `json:"value"`
			Amount json.RawMessage `json:"amount"`
		}
		if err := json.Unmarshal(raw, &nested); err != nil {
			return 0, false
		}
		if p, ok := parsePrice(nested.Value); ok {
			return p, true
		}
		return parsePrice(nested.Amount)
	}

	digits := keepDigits(string(raw))
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeShopName produces the dedup key for a seller: lowercase, quote
// characters removed, whitespace collapsed and trimmed. Two offers belong to
// the same seller iff their keys are equal. An empty key means the offer is
// unmatched and must be skipped. Idempotent.
func normalizeShopName(value string) string {
	value = strings.ToLower(value)
	var b strings.Builder
	b.Grow(len(value))

	prevSpace := false
	for _, r := range value {
		switch {
		case strings.ContainsRune("\"«»'’`", r):
			// quote variants carry no seller identity
		case unicode.IsSpace(r):
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
