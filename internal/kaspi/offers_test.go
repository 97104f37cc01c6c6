package kaspi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeShopName(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"lowercases":          {"MAGNUM", "magnum"},
		"strips ascii quotes": {`"TechnoShop"`, "technoshop"},
		"strips guillemets":   {"«Белый Ветер»", "белый ветер"},
		"strips apostrophes":  {"ООО 'Ромашка’`", "ооо ромашка"},
		"collapses spaces":    {"  ООО   Ромашка  ", "ооо ромашка"},
		"tabs and newlines":   {"a\t\nb", "a b"},
		"empty":               {"", ""},
		"quotes only":         {`"«»"`, ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := normalizeShopName(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, normalizeShopName(got), "normalization must be idempotent")
		})
	}
}

func TestNormalizeShopNameCollapsesVariants(t *testing.T) {
	assert.Equal(t,
		normalizeShopName("  ООО 'Ромашка'  "),
		normalizeShopName("ооо ромашка"),
	)
}

func TestParseProductURL(t *testing.T) {
	cases := map[string]struct {
		url    string
		wantID string
	}{
		"plain":               {"https://kaspi.kz/shop/p/phone-1234567/", "1234567"},
		"last run wins":       {"https://kaspi.kz/shop/p/123456-phone-7654321/", "7654321"},
		"exactly six digits":  {"https://kaspi.kz/shop/p/x-123456/", "123456"},
		"subdomain":           {"https://www.kaspi.kz/shop/p/x-1234567/", "1234567"},
		"query ignored":       {"https://kaspi.kz/shop/p/x-1234567/?c=750000000", "1234567"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, id, err := parseProductURL(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}

	invalid := map[string]string{
		"five digits only":  "https://kaspi.kz/shop/p/x-12345/",
		"no digits":         "https://kaspi.kz/shop/p/phone/",
		"wrong host":        "https://wildberries.ru/product/1234567/",
		"no scheme":         "kaspi.kz/shop/p/x-1234567/",
		"empty":             "",
	}

	for name, u := range invalid {
		t.Run(name, func(t *testing.T) {
			_, _, err := parseProductURL(u)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestOfferPrice(t *testing.T) {
	cases := map[string]struct {
		raw    string
		want   int
		wantOK bool
	}{
		"number":            {`{"price":1050}`, 1050, true},
		"formatted string":  {`{"price":"1 050 ₸"}`, 1050, true},
		"final price":       {`{"finalPrice":2000}`, 2000, true},
		"price value":       {`{"priceValue":"3000"}`, 3000, true},
		"amount":            {`{"amount":4000}`, 4000, true},
		"nested value":      {`{"price":{"value":5000}}`, 5000, true},
		"nested amount":     {`{"price":{"amount":"6 000"}}`, 6000, true},
		"null price":        {`{"price":null}`, 0, false},
		"no fields":         {`{}`, 0, false},
		"no digits":         {`{"price":"договорная"}`, 0, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var o offerEntry
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &o))

			got, ok := offerPrice(o)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestOfferName(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want string
	}{
		"merchant name":   {`{"merchantName":"A","shopName":"B"}`, "A"},
		"shop name":       {`{"shopName":"B","sellerName":"C"}`, "B"},
		"seller name":     {`{"sellerName":"C","name":"D"}`, "C"},
		"generic name":    {`{"name":"D"}`, "D"},
		"blank falls through": {`{"merchantName":"  ","name":"D"}`, "D"},
		"nothing":         {`{}`, ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var o offerEntry
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &o))
			assert.Equal(t, tc.want, offerName(o))
		})
	}
}

func TestExtractOffers(t *testing.T) {
	assert.Len(t, extractOffers([]byte(`{"offers":[{"name":"a"}]}`)), 1)
	assert.Len(t, extractOffers([]byte(`{"data":{"offers":[{"name":"a"},{"name":"b"}]}}`)), 2)
	assert.Len(t, extractOffers([]byte(`{"payload":{"offers":[{"name":"a"}]}}`)), 1)

	assert.Empty(t, extractOffers([]byte(`{"results":[{"name":"a"}]}`)))
	assert.Empty(t, extractOffers([]byte(`{"offers":[]}`)))
	assert.Empty(t, extractOffers([]byte(`not json`)))
	assert.Empty(t, extractOffers([]byte(`[]`)))
}

func TestExtractOffersPrefersTopLevel(t *testing.T) {
	body := []byte(`{
		"offers":[{"name":"top"}],
		"data":{"offers":[{"name":"nested"}]}
	}`)

	offers := extractOffers(body)
	require.Len(t, offers, 1)
	assert.Equal(t, "top", offers[0].Name)
}
