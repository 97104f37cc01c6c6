package kaspi

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"kaspirank/pkg/models"
	"kaspirank/pkg/utils"
)

const (
	kaspiHost    = "kaspi.kz"
	kaspiAPIBase = "https://kaspi.kz/yml/offer-view/offers"
)

// Analyzer resolves a shop's price position among every seller of a Kaspi
// product. Each Analyze call is fully self-contained — all state is local to
// the call — so a single Analyzer is safe for concurrent use.
type Analyzer struct {
	Client  *RetryClient
	Config  utils.KaspiConfig
	BaseURL string // offer-view endpoint, overridable in tests
}

func NewAnalyzer(cfg utils.KaspiConfig) *Analyzer {
	return &Analyzer{
		Client:  NewRetryClient(cfg.Retries, cfg.Timeout, cfg.RetryDelay),
		Config:  cfg,
		BaseURL: kaspiAPIBase,
	}
}

// offerPageRequest is the body of one offer-view page request. Contents mimic
// the storefront's own XHR call.
type offerPageRequest struct {
	CityID      string   `json:"cityId"`
	ID          string   `json:"id"`
	MerchantUID []string `json:"merchantUID"`
	Limit       int      `json:"limit"`
	Page        int      `json:"page"`
	SortOption  string   `json:"sortOption"`
	ZoneID      []string `json:"zoneId"`
}

// Analyze paginates the offer listing for the product behind productURL and
// locates shopName among the deduplicated sellers. Pages are fetched
// strictly in order: the target's rank depends on the running offset.
func (a *Analyzer) Analyze(ctx context.Context, productURL, shopName string) (*models.AnalysisResult, error) {
	parsed, productID, err := parseProductURL(productURL)
	if err != nil {
		return nil, err
	}

	normalizedTarget := normalizeShopName(shopName)
	if normalizedTarget == "" {
		return nil, fmt.Errorf("%w: введите название магазина", ErrInvalidInput)
	}

	cityID := parsed.Query().Get("c")
	if cityID == "" {
		cityID = a.Config.CityID
	}

	acc := newAggregate(normalizedTarget)

	page := 0
	for {
		if page >= a.Config.MaxPages {
			return nil, fmt.Errorf("%w: pagination did not terminate after %d pages", ErrUpstreamUnavailable, a.Config.MaxPages)
		}

		body := offerPageRequest{
			CityID:      cityID,
			ID:          productID,
			MerchantUID: []string{},
			Limit:       a.Config.Limit,
			Page:        page,
			SortOption:  "PRICE",
			ZoneID:      a.Config.ZoneID,
		}

		payload, err := a.Client.PostJSON(ctx, a.BaseURL+"/"+productID, body, pageHeaders(productURL, cityID))
		if err != nil {
			return nil, err
		}

		offers := extractOffers(payload)
		if len(offers) == 0 {
			if page == 0 {
				return nil, fmt.Errorf("%w: не удалось получить список продавцов", ErrUpstreamEmpty)
			}
			// a later empty page is the end of pagination
			break
		}

		if page == 0 {
			acc.captureLeader(offers[0])
		}
		acc.observePage(offers)

		if len(offers) < a.Config.Limit {
			// short page signals the last one
			break
		}
		page++
	}

	log.Printf("[kaspi] product %s: %d seller(s) over %d page(s)", productID, len(acc.order), page+1)

	return acc.result(productID)
}

var digitRun = regexp.MustCompile(`[0-9]{6,}`)

// parseProductURL validates the link and extracts the product id: the last
// run of six or more consecutive digits anywhere in the URL path.
func parseProductURL(productURL string) (*url.URL, string, error) {
	if strings.TrimSpace(productURL) == "" {
		return nil, "", fmt.Errorf("%w: введите ссылку на товар", ErrInvalidInput)
	}

	parsed, err := url.Parse(productURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, "", fmt.Errorf("%w: некорректная ссылка", ErrInvalidInput)
	}
	if !strings.HasSuffix(parsed.Hostname(), kaspiHost) {
		return nil, "", fmt.Errorf("%w: платформа не поддерживается, вставьте ссылку на товар Kaspi", ErrInvalidInput)
	}

	runs := digitRun.FindAllString(parsed.Path, -1)
	if len(runs) == 0 {
		return nil, "", fmt.Errorf("%w: не удалось определить productId", ErrInvalidInput)
	}
	return parsed, runs[len(runs)-1], nil
}

// pageHeaders mimics the storefront browser session; the upstream rejects
// anonymous-looking requests.
func pageHeaders(productURL, cityID string) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json, text/*")
	h.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")
	h.Set("Content-Type", "application/json; charset=UTF-8")
	h.Set("Origin", "https://kaspi.kz")
	h.Set("Referer", productURL)
	h.Set("User-Agent", "Mozilla/5.0")
	h.Set("X-Description-Enabled", "true")
	h.Set("X-KS-City", cityID)
	h.Set("Cookie", "kaspi.storefront.cookie.city="+cityID)
	return h
}
