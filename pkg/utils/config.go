package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// KaspiConfig holds the tunables of the offer aggregation loop. Page size and
// zone ids affect how many requests a single analysis makes, so they come
// from the environment with the storefront's defaults as fallback.
type KaspiConfig struct {
	Limit      int           // offers per page
	ZoneID     []string      // delivery zones sent with every page request
	CityID     string        // default city when the product URL has no c= parameter
	MaxPages   int           // defensive cap on pagination
	Retries    int           // retries after the first attempt of a page fetch
	RetryDelay time.Duration // base of the linear backoff between attempts
	Timeout    time.Duration // per-attempt timeout
}

func LoadKaspiConfig() KaspiConfig {
	cfg := KaspiConfig{
		Limit:      5,
		ZoneID:     []string{"Magnum_ZONE1"},
		CityID:     "750000000",
		MaxPages:   200,
		Retries:    3,
		RetryDelay: 500 * time.Millisecond,
		Timeout:    15 * time.Second,
	}

	if v := envInt("KASPI_LIMIT"); v > 0 {
		cfg.Limit = v
	}
	if v := os.Getenv("KASPI_ZONE_ID"); v != "" {
		var zones []string
		for _, z := range strings.Split(v, ",") {
			if z = strings.TrimSpace(z); z != "" {
				zones = append(zones, z)
			}
		}
		if len(zones) > 0 {
			cfg.ZoneID = zones
		}
	}
	if v := os.Getenv("KASPI_CITY_ID"); v != "" {
		cfg.CityID = v
	}
	if v := envInt("KASPI_MAX_PAGES"); v > 0 {
		cfg.MaxPages = v
	}

	return cfg
}

// ServerConfig covers the HTTP layer: bind address and the frontend origin
// allowed by CORS.
type ServerConfig struct {
	Addr       string
	CORSOrigin string
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("KASPIRANK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	origin := os.Getenv("KASPIRANK_CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}

	return ServerConfig{Addr: addr, CORSOrigin: origin}
}

func envInt(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
