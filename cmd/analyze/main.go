package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"kaspirank/internal/kaspi"
	"kaspirank/pkg/utils"
)

func main() {
	var (
		productURL = flag.String("url", "", "kaspi.kz product link")
		shopName   = flag.String("shop", "", "shop name to rank")
	)
	flag.Parse()

	if *productURL == "" || *shopName == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	analyzer := kaspi.NewAnalyzer(utils.LoadKaspiConfig())

	result, err := analyzer.Analyze(ctx, *productURL, *shopName)
	if err != nil {
		log.Fatalf("analyze failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
